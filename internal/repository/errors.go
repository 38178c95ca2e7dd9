package repository

import "errors"

// ErrUsernameTaken is returned when user creation hits the unique-username
// constraint. Callers surface it as a conflict, not a failure.
var ErrUsernameTaken = errors.New("username already in use")

// NotFoundError is an error type for when a resource is not found.
type NotFoundError struct {
	message string
}

// NewNotFoundError creates a NotFoundError with the given message.
func NewNotFoundError(message string) NotFoundError {
	return NotFoundError{message: message}
}

// Error returns the error message.
func (e NotFoundError) Error() string {
	return e.message
}
