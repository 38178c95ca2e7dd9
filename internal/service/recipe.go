package service

import (
	"context"
	"strings"

	"github.com/pantrydesk/pantrydesk/internal/config"
	"github.com/pantrydesk/pantrydesk/internal/logger"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"github.com/pantrydesk/pantrydesk/internal/spoonacular"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecipeService is the business logic layer for the search-and-enrichment
// pipeline.
type RecipeService struct {
	Settings *config.Provider
	Source   spoonacular.Provider
}

// NewRecipeService is the constructor function for initializing a new RecipeService.
func NewRecipeService(settings *config.Provider, source spoonacular.Provider) *RecipeService {
	if settings == nil {
		settings = config.DefaultProvider()
	}
	return &RecipeService{
		Settings: settings,
		Source:   source,
	}
}

// Enrich searches by ingredients and merges a detail record into each of the
// first maxResults hits. The output preserves the provider's ranking order,
// and a failed detail fetch degrades that item to summary-only without
// affecting the rest of the batch. An empty ingredient string returns nil
// without contacting the network.
func (s *RecipeService) Enrich(ctx context.Context, ingredients string, maxResults int) []models.EnrichedRecipe {
	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return nil
	}
	if maxResults <= 0 {
		maxResults = s.Settings.EnrichLimit
	}

	summaries := s.Source.SearchByIngredients(ctx, ingredients, s.Settings.SearchNumber)
	if len(summaries) == 0 {
		return nil
	}

	// Detail fetches are expensive and rate-limited; only the top hits get one.
	if len(summaries) > maxResults {
		summaries = summaries[:maxResults]
	}

	enriched := make([]models.EnrichedRecipe, len(summaries))
	for i, summary := range summaries {
		enriched[i] = models.EnrichedRecipe{RecipeSummary: summary}
	}

	concurrency := s.Settings.DetailConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	// Index-addressed writes keep ranking order regardless of completion
	// order; Wait bounds the whole batch before it is handed back.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for i := range enriched {
		i := i
		group.Go(func() error {
			id := enriched[i].ID
			if id == 0 {
				return nil
			}
			detail, ok := s.Source.FetchDetail(groupCtx, id)
			if !ok {
				logger.Get().Warn("keeping summary only", zap.Int("recipe_id", id))
				return nil
			}
			normalizeDetail(detail)
			enriched[i].Detail = detail
			return nil
		})
	}
	// Workers never return errors; per-item failures degrade in place.
	_ = group.Wait()

	return enriched
}

// normalizeDetail cleans the HTML-bearing fields of a detail record in place.
func normalizeDetail(detail *models.RecipeDetail) {
	detail.Summary = NormalizeText(detail.Summary)
	detail.Instructions = NormalizeText(detail.Instructions)
	for i := range detail.AnalyzedInstructions {
		for j := range detail.AnalyzedInstructions[i].Steps {
			step := &detail.AnalyzedInstructions[i].Steps[j]
			step.Text = NormalizeText(step.Text)
		}
	}
}
