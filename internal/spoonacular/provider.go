package spoonacular

import (
	"context"

	"github.com/pantrydesk/pantrydesk/internal/models"
)

// Provider is the surface the enrichment pipeline consumes. Implementations
// must fail softly: transport and parse problems collapse to empty or absent
// results rather than errors.
type Provider interface {
	// ValidateKey issues a minimal probe request and reports whether the
	// credential is usable. Network failure collapses to false.
	ValidateKey(ctx context.Context) bool

	// SearchByIngredients returns ranked summaries for a comma-separated
	// ingredient list. On any failure it returns an empty slice.
	SearchByIngredients(ctx context.Context, ingredients string, number int) []models.RecipeSummary

	// FetchDetail returns the full record for a recipe, or ok=false when
	// the provider has no data or the call fails. Absent is degraded, not
	// fatal: callers keep the summary.
	FetchDetail(ctx context.Context, recipeID int) (*models.RecipeDetail, bool)
}
