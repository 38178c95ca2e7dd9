package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/pantrydesk/pantrydesk/internal/models"
)

// TestSummaries creates n ranked search hits with descending coverage.
func TestSummaries(n int) []models.RecipeSummary {
	summaries := make([]models.RecipeSummary, n)
	for i := 0; i < n; i++ {
		summaries[i] = models.RecipeSummary{
			ID:                    100 + i,
			Title:                 fmt.Sprintf("Recipe %d", 100+i),
			UsedIngredientCount:   n - i,
			MissedIngredientCount: i,
			Image:                 fmt.Sprintf("recipe-%d.jpg", 100+i),
		}
	}
	return summaries
}

// TestDetail creates a full detail record for the given recipe id.
func TestDetail(recipeID int) *models.RecipeDetail {
	return &models.RecipeDetail{
		ID:              recipeID,
		Title:           fmt.Sprintf("Recipe %d", recipeID),
		Image:           fmt.Sprintf("https://img.example.com/recipe-%d.jpg", recipeID),
		Summary:         "A quick weeknight dinner.",
		Instructions:    "Combine everything and simmer.",
		ReadyInMinutes:  35,
		Servings:        4,
		SourceURL:       fmt.Sprintf("https://example.com/recipes/%d", recipeID),
		HealthScore:     62,
		PricePerServing: 184.5,
		Diets:           []string{"gluten free"},
		DishTypes:       []string{"dinner"},
		Cuisines:        []string{"mediterranean"},
		Ingredients: []models.IngredientLine{
			{ID: 1, Name: "chicken thighs", OriginalText: "2 lbs chicken thighs", Amount: 2, Unit: "lbs"},
			{ID: 2, Name: "rice", OriginalText: "1 cup rice", Amount: 1, Unit: "cup"},
		},
		AnalyzedInstructions: []models.InstructionSection{
			{
				Name: "Instructions",
				Steps: []models.InstructionStep{
					{
						Number:      1,
						Text:        "Brown the chicken.",
						Ingredients: []models.StepItem{{ID: 1, Name: "chicken thighs"}},
						Equipment:   []models.StepItem{{ID: 404645, Name: "frying pan"}},
					},
					{
						Number:      2,
						Text:        "Add rice and simmer.",
						Ingredients: []models.StepItem{{ID: 2, Name: "rice"}},
					},
				},
			},
		},
		RawPayload: json.RawMessage(fmt.Sprintf(`{"id":%d}`, recipeID)),
	}
}

// TestEnriched creates an enriched recipe with a populated detail record.
func TestEnriched(recipeID int) models.EnrichedRecipe {
	return models.EnrichedRecipe{
		RecipeSummary: models.RecipeSummary{
			ID:                    recipeID,
			Title:                 fmt.Sprintf("Recipe %d", recipeID),
			UsedIngredientCount:   3,
			MissedIngredientCount: 1,
			Image:                 fmt.Sprintf("recipe-%d.jpg", recipeID),
		},
		Detail: TestDetail(recipeID),
	}
}
