package service

import (
	"fmt"
	"time"

	"github.com/pantrydesk/pantrydesk/internal/models"
	"github.com/pantrydesk/pantrydesk/internal/repository"
	"github.com/pantrydesk/pantrydesk/internal/util"
)

// AddOutcome is the result of a favorite insertion.
type AddOutcome string

// AddOutcome values.
const (
	OutcomeAdded         AddOutcome = "added"
	OutcomeAlreadyExists AddOutcome = "already_exists"
)

// FavoriteService is the business logic layer for favorites.
type FavoriteService struct {
	Repo repository.FavoriteRepo
}

// FavoriteRecord is one retrieved favorite row.
type FavoriteRecord struct {
	RecipeID    int                   `json:"recipe_id"`
	RecipeTitle string                `json:"recipe_title"`
	Recipe      models.EnrichedRecipe `json:"recipe"`
	ImageRef    string                `json:"image_ref"`
	Ingredients string                `json:"ingredients"`
	SavedAt     time.Time             `json:"saved_at"`
}

// NewFavoriteService is the constructor function for initializing a new FavoriteService.
func NewFavoriteService(repo repository.FavoriteRepo) *FavoriteService {
	return &FavoriteService{Repo: repo}
}

// AddFavorite saves a recipe with a serialized snapshot and the ingredient
// query that surfaced it. Re-adding an existing (user, recipe) pair is a
// normal OutcomeAlreadyExists, never an overwrite.
func (s *FavoriteService) AddFavorite(userID uint, recipe models.EnrichedRecipe, sourceIngredients string) (AddOutcome, error) {
	snapshot, err := util.SerializeToJSONString(recipe)
	if err != nil {
		return "", fmt.Errorf("failed to serialize recipe snapshot: %w", err)
	}

	added, err := s.Repo.AddFavorite(&models.FavoriteEntry{
		UserID:      userID,
		RecipeID:    recipe.ID,
		RecipeTitle: recipe.Title,
		RecipeData:  snapshot,
		RecipeImage: recipe.ImageRef(),
		Ingredients: sourceIngredients,
	})
	if err != nil {
		return "", err
	}
	if !added {
		return OutcomeAlreadyExists, nil
	}
	return OutcomeAdded, nil
}

// RemoveFavorite deletes a favorite. True iff a row was deleted.
func (s *FavoriteService) RemoveFavorite(userID uint, recipeID int) (bool, error) {
	return s.Repo.RemoveFavorite(userID, recipeID)
}

// IsFavorite reports whether the user has favorited the recipe.
func (s *FavoriteService) IsFavorite(userID uint, recipeID int) (bool, error) {
	return s.Repo.IsFavorite(userID, recipeID)
}

// ListFavorites returns the user's favorites, newest first. Corrupt stored
// snapshots degrade to an empty detail payload without failing the read.
func (s *FavoriteService) ListFavorites(userID uint) ([]FavoriteRecord, error) {
	entries, err := s.Repo.ListFavorites(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	records := make([]FavoriteRecord, len(entries))
	for i, entry := range entries {
		records[i] = FavoriteRecord{
			RecipeID:    entry.RecipeID,
			RecipeTitle: entry.RecipeTitle,
			Recipe:      decodeSnapshot(entry.RecipeData, entry.RecipeID, entry.RecipeTitle),
			ImageRef:    entry.RecipeImage,
			Ingredients: entry.Ingredients,
			SavedAt:     entry.SavedAt,
		}
	}
	return records, nil
}
