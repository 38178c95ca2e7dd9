package models

import "encoding/json"

// RecipeSummary is a single hit from an ingredient search. It only carries
// the coarse ranking data; the full record comes from a detail fetch.
type RecipeSummary struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	UsedIngredientCount   int    `json:"usedIngredientCount"`
	MissedIngredientCount int    `json:"missedIngredientCount"`
	Image                 string `json:"image"`
}

// IngredientLine is one ingredient of a recipe as the provider lists it.
type IngredientLine struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	OriginalText string  `json:"original"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
}

// StepItem is an ingredient or piece of equipment a step references. The
// provider sends these as objects, not bare names.
type StepItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// InstructionStep is a single numbered step within an instruction section.
type InstructionStep struct {
	Number      int        `json:"number"`
	Text        string     `json:"step"`
	Ingredients []StepItem `json:"ingredients,omitempty"`
	Equipment   []StepItem `json:"equipment,omitempty"`
}

// InstructionSection groups ordered steps under a section name.
type InstructionSection struct {
	Name  string            `json:"name"`
	Steps []InstructionStep `json:"steps"`
}

// RecipeDetail is the full provider record for one recipe. RawPayload keeps
// the original response verbatim so fields not modeled here survive a
// round-trip through storage.
type RecipeDetail struct {
	ID                    int                  `json:"id"`
	Title                 string               `json:"title"`
	Image                 string               `json:"image"`
	Summary               string               `json:"summary"`
	Instructions          string               `json:"instructions"`
	ReadyInMinutes        int                  `json:"readyInMinutes"`
	Servings              int                  `json:"servings"`
	SourceURL             string               `json:"sourceUrl"`
	SpoonacularSourceURL  string               `json:"spoonacularSourceUrl"`
	HealthScore           float64              `json:"healthScore"`
	PricePerServing       float64              `json:"pricePerServing"`
	Diets                 []string             `json:"diets"`
	DishTypes             []string             `json:"dishTypes"`
	Cuisines              []string             `json:"cuisines"`
	Ingredients           []IngredientLine     `json:"extendedIngredients"`
	AnalyzedInstructions  []InstructionSection `json:"analyzedInstructions"`
	RawPayload            json.RawMessage      `json:"full_details,omitempty"`
}

// EnrichedRecipe merges a search summary with its detail record. When the
// detail fetch fails the summary fields stand alone and Detail is nil; the
// summary is never dropped.
type EnrichedRecipe struct {
	RecipeSummary
	Detail *RecipeDetail `json:"detail,omitempty"`
}

// HasDetail reports whether the detail fetch for this recipe succeeded.
func (r *EnrichedRecipe) HasDetail() bool {
	return r.Detail != nil
}

// ImageRef returns the best available image reference: the detail record's
// image when present, the summary's otherwise.
func (r *EnrichedRecipe) ImageRef() string {
	if r.Detail != nil && r.Detail.Image != "" {
		return r.Detail.Image
	}
	return r.Image
}
