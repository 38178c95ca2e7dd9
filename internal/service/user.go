package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/asaskevich/govalidator"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"github.com/pantrydesk/pantrydesk/internal/repository"
)

// ErrUsernameTaken mirrors the repository conflict so callers can branch on
// the service surface alone.
var ErrUsernameTaken = repository.ErrUsernameTaken

// ErrInvalidAPIKey is returned when signup is attempted without a usable
// provider credential. This is the one failure class that blocks the
// operation and requires caller correction.
var ErrInvalidAPIKey = errors.New("a provider API key is required")

// UserService is the business logic layer for account operations.
type UserService struct {
	Repo repository.UserRepo
}

// Session identifies an authenticated user for the rest of the process.
type Session struct {
	UserID uint
	APIKey string
}

// NewUserService is the constructor function for initializing a new UserService.
func NewUserService(repo repository.UserRepo) *UserService {
	return &UserService{Repo: repo}
}

// CreateUser creates a new account. The password is stored only as its
// sha256 digest. A duplicate username surfaces as ErrUsernameTaken.
func (s *UserService) CreateUser(username, password, apiKey string) (*models.User, error) {
	if err := s.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := s.ValidatePassword(password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrInvalidAPIKey
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashPassword(password),
		APIKey:       apiKey,
	}

	user, err := s.Repo.CreateUser(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate recomputes the password digest and matches by equality. It
// returns ok=false on no match, with nothing in the shape distinguishing a
// wrong username from a wrong password.
func (s *UserService) Authenticate(username, password string) (*Session, bool) {
	user, err := s.Repo.GetUserByCredentials(username, hashPassword(password))
	if err != nil {
		return nil, false
	}

	return &Session{UserID: user.ID, APIKey: user.APIKey}, true
}

// ValidateUsername validates a username against a set of rules.
func (s *UserService) ValidateUsername(username string) error {
	// Check if the username already exists.
	// This is also caught as a known error in the repository.
	exists, err := s.Repo.UsernameExists(username)
	if err != nil {
		return fmt.Errorf("error checking username: %v", err)
	}
	if exists {
		return ErrUsernameTaken
	}

	minLength := 3
	if len(username) < minLength {
		return fmt.Errorf("username must be at least %d characters", minLength)
	}

	if !govalidator.IsAlphanumeric(username) {
		return fmt.Errorf("username can only contain alphanumeric characters")
	}

	profanityDetector := goaway.NewProfanityDetector().
		WithSanitizeLeetSpeak(true).
		WithSanitizeSpecialCharacters(true).
		WithSanitizeAccents(false)
	if profanityDetector.IsProfane(username) {
		return fmt.Errorf("username contains inappropriate language")
	}

	return nil
}

// ValidatePassword validates a password against a set of rules.
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}

// hashPassword returns the hex sha256 digest of the password bytes. The
// digest is deterministic so Authenticate can match rows by equality.
func hashPassword(password string) string {
	digest := sha256.Sum256([]byte(password))
	return hex.EncodeToString(digest[:])
}
