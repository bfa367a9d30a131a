package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/windoze95/recipe-finder/internal/config"
	"github.com/windoze95/recipe-finder/internal/models"
	"github.com/windoze95/recipe-finder/internal/nutrition"
	"github.com/windoze95/recipe-finder/internal/recipeapi"
)

// RecipeService handles recipe search and detail lookups.
type RecipeService struct {
	Cfg    *config.Config
	Source recipeapi.RecipeSource
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(cfg *config.Config, source recipeapi.RecipeSource) *RecipeService {
	return &RecipeService{
		Cfg:    cfg,
		Source: source,
	}
}

// SearchQuery holds the user's search input.
type SearchQuery struct {
	Ingredients string
	Cuisine     string
	Diet        string
}

// RecipeView is a recipe detail together with the nutrient data derived
// from it. It is rebuilt from scratch for every detail.
type RecipeView struct {
	Detail             *models.RecipeDetail
	Nutrients          []models.Nutrient
	TopNutrients       []models.Nutrient
	NutritionAvailable bool
}

// NewRecipeView extracts and ranks the nutrients of detail.
func NewRecipeView(detail *models.RecipeDetail, topK int) *RecipeView {
	nutrients := nutrition.Extract(detail)
	return &RecipeView{
		Detail:             detail,
		Nutrients:          nutrients,
		TopNutrients:       nutrition.Rank(nutrients, topK),
		NutritionAvailable: nutrition.Available(nutrients),
	}
}

// SearchRecipes validates the query and searches the recipe source. An
// empty result is a success.
func (s *RecipeService) SearchRecipes(ctx context.Context, q SearchQuery) ([]models.RecipeSummary, error) {
	if strings.TrimSpace(q.Ingredients) == "" {
		return nil, &ValidationError{Field: "ingredients", Message: "please enter ingredients to search for"}
	}

	results, err := s.Source.SearchRecipes(ctx, q.Ingredients, q.Cuisine, q.Diet)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return results, nil
}

// GetRecipe fetches a recipe with nutrition and ranks its top nutrients.
// A topK of zero uses the configured default.
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID int, topK int) (*RecipeView, error) {
	if recipeID <= 0 {
		return nil, &ValidationError{Field: "recipe_id", Message: "must be a positive integer"}
	}
	if topK < 0 {
		return nil, &ValidationError{Field: "top", Message: "must not be negative"}
	}
	if topK == 0 {
		topK = s.Cfg.TopK(nutrition.DefaultTopK)
	}

	detail, err := s.Source.GetRecipeDetails(ctx, recipeID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", recipeID, err)
	}
	return NewRecipeView(detail, topK), nil
}

// Options returns the cuisine and diet filter choices.
func (s *RecipeService) Options() *config.Options {
	if s.Cfg == nil || s.Cfg.Options == nil {
		return config.DefaultOptions()
	}
	return s.Cfg.Options
}
