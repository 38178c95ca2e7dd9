package service

import (
	"fmt"
	"time"

	"github.com/pantrydesk/pantrydesk/internal/logger"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"github.com/pantrydesk/pantrydesk/internal/repository"
	"github.com/pantrydesk/pantrydesk/internal/util"
	"go.uber.org/zap"
)

// HistoryService is the business logic layer for search and view history.
type HistoryService struct {
	Repo repository.HistoryRepo
}

// SearchRecord is one retrieved search-history row.
type SearchRecord struct {
	Ingredients  string    `json:"ingredients"`
	ResultsCount int       `json:"results_count"`
	SearchedAt   time.Time `json:"searched_at"`
}

// ViewRecord is one retrieved view-history row. Recipe always carries at
// least the id and title, even when the stored snapshot was unreadable.
type ViewRecord struct {
	RecipeID    int                   `json:"recipe_id"`
	RecipeTitle string                `json:"recipe_title"`
	Recipe      models.EnrichedRecipe `json:"recipe"`
	ViewedAt    time.Time             `json:"viewed_at"`
}

// NewHistoryService is the constructor function for initializing a new HistoryService.
func NewHistoryService(repo repository.HistoryRepo) *HistoryService {
	return &HistoryService{Repo: repo}
}

// RecordSearch appends one search to the user's history.
func (s *HistoryService) RecordSearch(userID uint, ingredients string, resultsCount int) error {
	return s.Repo.AddSearchHistory(&models.SearchHistoryEntry{
		UserID:       userID,
		Ingredients:  ingredients,
		ResultsCount: resultsCount,
	})
}

// SearchHistory returns the user's most recent searches, newest first.
func (s *HistoryService) SearchHistory(userID uint, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	entries, err := s.Repo.GetSearchHistory(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get search history: %w", err)
	}

	records := make([]SearchRecord, len(entries))
	for i, entry := range entries {
		records[i] = SearchRecord{
			Ingredients:  entry.Ingredients,
			ResultsCount: entry.ResultsCount,
			SearchedAt:   entry.SearchedAt,
		}
	}
	return records, nil
}

// ClearSearchHistory removes all of the user's search history.
func (s *HistoryService) ClearSearchHistory(userID uint) (int64, error) {
	return s.Repo.ClearSearchHistory(userID)
}

// RecordView appends one recipe view, storing a serialized snapshot of the
// enriched recipe for later retrieval.
func (s *HistoryService) RecordView(userID uint, recipe models.EnrichedRecipe) error {
	snapshot, err := util.SerializeToJSONString(recipe)
	if err != nil {
		return fmt.Errorf("failed to serialize recipe snapshot: %w", err)
	}

	return s.Repo.AddViewHistory(&models.ViewHistoryEntry{
		UserID:      userID,
		RecipeID:    recipe.ID,
		RecipeTitle: recipe.Title,
		RecipeData:  snapshot,
	})
}

// ViewHistory returns the user's most recent views, newest first. A corrupt
// stored snapshot never fails the read: the entry is returned with an empty
// detail payload and the corruption logged.
func (s *HistoryService) ViewHistory(userID uint, limit int) ([]ViewRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.Repo.GetViewHistory(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get view history: %w", err)
	}

	records := make([]ViewRecord, len(entries))
	for i, entry := range entries {
		records[i] = ViewRecord{
			RecipeID:    entry.RecipeID,
			RecipeTitle: entry.RecipeTitle,
			Recipe:      decodeSnapshot(entry.RecipeData, entry.RecipeID, entry.RecipeTitle),
			ViewedAt:    entry.ViewedAt,
		}
	}
	return records, nil
}

// ClearViewHistory removes all of the user's view history.
func (s *HistoryService) ClearViewHistory(userID uint) (int64, error) {
	return s.Repo.ClearViewHistory(userID)
}

// decodeSnapshot parses a stored recipe snapshot, substituting an empty
// detail payload when the stored text is unreadable.
func decodeSnapshot(data string, recipeID int, title string) models.EnrichedRecipe {
	var recipe models.EnrichedRecipe
	if err := util.DeserializeFromJSONString(data, &recipe); err != nil {
		logger.Get().Warn("corrupt recipe snapshot",
			zap.Int("recipe_id", recipeID),
			zap.Error(err),
		)
		return models.EnrichedRecipe{
			RecipeSummary: models.RecipeSummary{ID: recipeID, Title: title},
		}
	}
	return recipe
}
