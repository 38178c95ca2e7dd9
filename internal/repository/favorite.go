package repository

import (
	"errors"

	"github.com/pantrydesk/pantrydesk/internal/models"
	"gorm.io/gorm"
)

// FavoriteRepo is the interface for favorites persistence.
type FavoriteRepo interface {
	AddFavorite(entry *models.FavoriteEntry) (bool, error)
	RemoveFavorite(userID uint, recipeID int) (bool, error)
	IsFavorite(userID uint, recipeID int) (bool, error)
	ListFavorites(userID uint) ([]models.FavoriteEntry, error)
}

// FavoriteRepository is a repository for favorite rows.
type FavoriteRepository struct {
	DB *gorm.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

// AddFavorite inserts a favorite. It returns false when the (user, recipe)
// pair already exists; hitting the unique index is a normal outcome, not an
// error, and the existing row is left untouched.
func (r *FavoriteRepository) AddFavorite(entry *models.FavoriteEntry) (bool, error) {
	if err := r.DB.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveFavorite deletes a favorite. True iff a row was deleted.
func (r *FavoriteRepository) RemoveFavorite(userID uint, recipeID int) (bool, error) {
	result := r.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.FavoriteEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsFavorite reports whether the user has favorited the recipe.
func (r *FavoriteRepository) IsFavorite(userID uint, recipeID int) (bool, error) {
	var count int64
	err := r.DB.Model(&models.FavoriteEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFavorites returns all of the user's favorites, newest first.
func (r *FavoriteRepository) ListFavorites(userID uint) ([]models.FavoriteEntry, error) {
	var entries []models.FavoriteEntry
	err := r.DB.Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
