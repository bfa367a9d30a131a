package testutil

import (
	"encoding/json"

	"github.com/windoze95/recipe-finder/internal/models"
)

// SearchResponseJSON is a complexSearch body with a single result.
const SearchResponseJSON = `{"results":[{"id":123,"title":"Indian Chicken Rice","image":"https://img.example.com/123.jpg"}],"offset":0,"number":10,"totalResults":1}`

// DetailResponseJSON is an information body including nutrition.
const DetailResponseJSON = `{
	"id": 123,
	"title": "Indian Chicken Rice",
	"image": "https://img.example.com/123-556x370.jpg",
	"instructions": "Cook the rice. Fry the chicken with spices. Combine.",
	"extendedIngredients": [
		{"id": 1, "original": "2 cups basmati rice"},
		{"id": 2, "original": "500 g chicken thighs"},
		{"id": 3, "original": "1 tbsp garam masala"}
	],
	"nutrition": {
		"nutrients": [
			{"name": "Calories", "amount": 512.4, "unit": "kcal", "percentOfDailyNeeds": 25.6},
			{"name": "Fat", "amount": 10, "unit": "g"},
			{"name": "Protein", "amount": 25, "unit": "g"},
			{"name": "Sodium", "amount": 0, "unit": "mg"},
			{"name": "Carbohydrates", "amount": 61.2, "unit": "g"}
		]
	}
}`

// DetailNoNutritionJSON is an information body without a nutrition block.
const DetailNoNutritionJSON = `{
	"id": 456,
	"title": "Plain Pasta",
	"instructions": "Boil pasta.",
	"extendedIngredients": [{"original": "200 g spaghetti"}]
}`

// TestDetail returns a RecipeDetail carrying the nutrients of
// DetailResponseJSON.
func TestDetail() *models.RecipeDetail {
	return &models.RecipeDetail{
		ID:           123,
		Title:        "Indian Chicken Rice",
		Ingredients:  []string{"2 cups basmati rice", "500 g chicken thighs", "1 tbsp garam masala"},
		Instructions: "Cook the rice. Fry the chicken with spices. Combine.",
		ImageURL:     "https://img.example.com/123-556x370.jpg",
		Nutrition:    NutritionBlock(TestNutrients()...),
	}
}

// TestNutrients returns the nutrients used throughout the tests, in source
// order.
func TestNutrients() []models.Nutrient {
	return []models.Nutrient{
		{Name: "Calories", Amount: 512.4, Unit: "kcal"},
		{Name: "Fat", Amount: 10, Unit: "g"},
		{Name: "Protein", Amount: 25, Unit: "g"},
		{Name: "Sodium", Amount: 0, Unit: "mg"},
		{Name: "Carbohydrates", Amount: 61.2, Unit: "g"},
	}
}

// NutritionBlock encodes nutrients as a raw {"nutrients": [...]} block.
func NutritionBlock(nutrients ...models.Nutrient) json.RawMessage {
	b, err := json.Marshal(struct {
		Nutrients []models.Nutrient `json:"nutrients"`
	}{Nutrients: nutrients})
	if err != nil {
		panic(err)
	}
	return b
}
