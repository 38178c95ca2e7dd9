package repository

import (
	"github.com/pantrydesk/pantrydesk/internal/logger"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HistoryRepo is the interface for search- and view-history persistence.
type HistoryRepo interface {
	AddSearchHistory(entry *models.SearchHistoryEntry) error
	GetSearchHistory(userID uint, limit int) ([]models.SearchHistoryEntry, error)
	ClearSearchHistory(userID uint) (int64, error)
	AddViewHistory(entry *models.ViewHistoryEntry) error
	GetViewHistory(userID uint, limit int) ([]models.ViewHistoryEntry, error)
	ClearViewHistory(userID uint) (int64, error)
}

// HistoryRepository is a repository for search and view history rows.
type HistoryRepository struct {
	DB *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// AddSearchHistory appends one search to the user's history.
func (r *HistoryRepository) AddSearchHistory(entry *models.SearchHistoryEntry) error {
	err := r.DB.Create(entry).Error
	if err != nil {
		logger.Get().Error("failed to add search history", zap.Uint("user_id", entry.UserID), zap.Error(err))
	}
	return err
}

// GetSearchHistory returns the user's most recent searches, newest first.
func (r *HistoryRepository) GetSearchHistory(userID uint, limit int) ([]models.SearchHistoryEntry, error) {
	var entries []models.SearchHistoryEntry
	err := r.DB.Where("user_id = ?", userID).
		Order("searched_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearSearchHistory deletes all search history for the user and reports how
// many rows were removed.
func (r *HistoryRepository) ClearSearchHistory(userID uint) (int64, error) {
	result := r.DB.Where("user_id = ?", userID).Delete(&models.SearchHistoryEntry{})
	return result.RowsAffected, result.Error
}

// AddViewHistory appends one recipe view. No dedup: repeated views of the
// same recipe create repeated rows.
func (r *HistoryRepository) AddViewHistory(entry *models.ViewHistoryEntry) error {
	err := r.DB.Create(entry).Error
	if err != nil {
		logger.Get().Error("failed to add view history", zap.Uint("user_id", entry.UserID), zap.Int("recipe_id", entry.RecipeID), zap.Error(err))
	}
	return err
}

// GetViewHistory returns the user's most recent views, newest first.
func (r *HistoryRepository) GetViewHistory(userID uint, limit int) ([]models.ViewHistoryEntry, error) {
	var entries []models.ViewHistoryEntry
	err := r.DB.Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearViewHistory deletes all view history for the user and reports how
// many rows were removed.
func (r *HistoryRepository) ClearViewHistory(userID uint) (int64, error) {
	result := r.DB.Where("user_id = ?", userID).Delete(&models.ViewHistoryEntry{})
	return result.RowsAffected, result.Error
}
