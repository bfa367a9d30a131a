package service

import "github.com/windoze95/recipe-finder/internal/models"

// NutrientResponse is a nutrient as served to clients, with its chart label.
type NutrientResponse struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	DisplayValue string  `json:"display_value"`
}

// RecipeResponse is the JSON shape of a recipe view.
type RecipeResponse struct {
	ID                 int                `json:"id"`
	Title              string             `json:"title"`
	Ingredients        []string           `json:"ingredients"`
	Instructions       string             `json:"instructions"`
	ImageURL           string             `json:"image_url,omitempty"`
	Nutrients          []NutrientResponse `json:"nutrients"`
	TopNutrients       []NutrientResponse `json:"top_nutrients"`
	NutritionAvailable bool               `json:"nutrition_available"`
	NutritionMessage   string             `json:"nutrition_message,omitempty"`
}

// SearchResponse is the JSON shape of a search result set.
type SearchResponse struct {
	Results []models.RecipeSummary `json:"results"`
	Message string                 `json:"message,omitempty"`
}

// ToRecipeResponse converts a RecipeView to its response form.
func (s *RecipeService) ToRecipeResponse(v *RecipeView) RecipeResponse {
	resp := RecipeResponse{
		ID:                 v.Detail.ID,
		Title:              v.Detail.Title,
		Ingredients:        v.Detail.Ingredients,
		Instructions:       v.Detail.Instructions,
		ImageURL:           v.Detail.ImageURL,
		Nutrients:          ToNutrientResponses(v.Nutrients),
		TopNutrients:       ToNutrientResponses(v.TopNutrients),
		NutritionAvailable: v.NutritionAvailable,
	}
	if resp.Ingredients == nil {
		resp.Ingredients = []string{}
	}
	if !v.NutritionAvailable {
		resp.NutritionMessage = MsgNutritionUnavailable
	}
	return resp
}

// ToSearchResponse wraps results, adding the "no results" message when the
// set is empty.
func ToSearchResponse(results []models.RecipeSummary) SearchResponse {
	if results == nil {
		results = []models.RecipeSummary{}
	}
	resp := SearchResponse{Results: results}
	if len(results) == 0 {
		resp.Message = MsgNoResults
	}
	return resp
}

// ToNutrientResponses converts nutrients, never returning nil.
func ToNutrientResponses(nutrients []models.Nutrient) []NutrientResponse {
	out := make([]NutrientResponse, 0, len(nutrients))
	for _, n := range nutrients {
		out = append(out, NutrientResponse{
			Name:         n.Name,
			Amount:       n.Amount,
			Unit:         n.Unit,
			DisplayValue: n.DisplayValue(),
		})
	}
	return out
}
