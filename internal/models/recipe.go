package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RecipeSummary is the minimal identifying record returned by a recipe search.
type RecipeSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Label renders the summary as a list entry, e.g. "Indian Chicken Rice (123)".
func (s RecipeSummary) Label() string {
	return fmt.Sprintf("%s (%d)", s.Title, s.ID)
}

// RecipeDetail is the full record for one recipe.
type RecipeDetail struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	ImageURL     string   `json:"image_url,omitempty"`

	// Nutrition is the raw nutrition block as received from the remote API.
	// It is nil when the remote omitted it.
	Nutrition json.RawMessage `json:"-"`
}

// Nutrient is a single named quantity associated with a recipe.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// DisplayValue renders the amount rounded to one decimal place followed by
// the unit, e.g. "25.0 g".
func (n Nutrient) DisplayValue() string {
	v := strconv.FormatFloat(n.Amount, 'f', 1, 64)
	if n.Unit == "" {
		return v
	}
	return v + " " + n.Unit
}
