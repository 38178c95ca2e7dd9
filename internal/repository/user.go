package repository

import (
	"errors"

	"github.com/pantrydesk/pantrydesk/internal/models"
	"gorm.io/gorm"
)

// UserRepo is the interface for user persistence.
type UserRepo interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByCredentials(username, passwordHash string) (*models.User, error)
	UsernameExists(username string) (bool, error)
}

// UserRepository is a repository for interacting with users.
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser creates a new user. A unique-constraint violation on the
// username is reported as ErrUsernameTaken.
func (r *UserRepository) CreateUser(user *models.User) (*models.User, error) {
	if err := r.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

// GetUserByCredentials retrieves a user matching both username and password
// digest. The single lookup deliberately does not distinguish an unknown
// username from a wrong password.
func (r *UserRepository) GetUserByCredentials(username, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.DB.Where("username = ? AND password_hash = ?", username, passwordHash).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invalid username or password")
		}
		return nil, err
	}

	return &user, nil
}

// UsernameExists checks if a username already exists.
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var user models.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
