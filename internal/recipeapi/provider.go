package recipeapi

import (
	"context"

	"github.com/windoze95/recipe-finder/internal/models"
)

// RecipeSource queries a remote recipe-search API.
//
// Implementations hold no mutable state between calls, so one value may be
// shared by any number of goroutines. A failed call returns *NetworkError or
// *ResponseFormatError; an empty result is never used to signal failure.
type RecipeSource interface {
	// SearchRecipes returns the recipes matching the free-text ingredients,
	// optionally filtered by cuisine and diet (empty means no filter).
	SearchRecipes(ctx context.Context, ingredients, cuisine, diet string) ([]models.RecipeSummary, error)

	// GetRecipeDetails fetches one recipe. With includeNutrition the remote
	// is asked for the nutrient payload; its absence is not an error.
	GetRecipeDetails(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error)
}
