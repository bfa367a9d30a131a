// Package nutrition turns a recipe's raw nutrition block into nutrient
// records and ranks them for display. Every function here is pure and
// never fails: missing or malformed data degrades to an empty result.
package nutrition

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/windoze95/recipe-finder/internal/logger"
	"github.com/windoze95/recipe-finder/internal/models"
	"go.uber.org/zap"
)

// DefaultTopK is the number of nutrients shown in the chart.
const DefaultTopK = 8

type nutritionBlock struct {
	Nutrients *[]*wireNutrient `json:"nutrients"`
}

// wireNutrient mirrors models.Nutrient with pointer fields so that records
// missing a name or an amount can be told apart from zero values.
type wireNutrient struct {
	Name   *string  `json:"name"`
	Amount *float64 `json:"amount"`
	Unit   string   `json:"unit"`
}

// Extract returns the detail's nutrients in source order. It returns an
// empty slice, and logs a warning, when the detail carries no nutrition or
// the block cannot be read.
func Extract(detail *models.RecipeDetail) []models.Nutrient {
	if detail == nil {
		logger.Get().Warn("nutritional information not available: no recipe details")
		return []models.Nutrient{}
	}

	log := logger.With(zap.Int("recipe_id", detail.ID))
	if len(detail.Nutrition) == 0 {
		log.Warn("nutritional information not available")
		return []models.Nutrient{}
	}

	var block nutritionBlock
	if err := json.Unmarshal(detail.Nutrition, &block); err != nil {
		log.Warn("nutritional information malformed", zap.Error(err))
		return []models.Nutrient{}
	}
	if block.Nutrients == nil {
		log.Warn("nutritional information incomplete: no nutrients list")
		return []models.Nutrient{}
	}

	nutrients := make([]models.Nutrient, 0, len(*block.Nutrients))
	for i, w := range *block.Nutrients {
		if w == nil || w.Name == nil || *w.Name == "" || w.Amount == nil {
			log.Warn("nutritional information malformed: invalid nutrient record", zap.Int("index", i))
			return []models.Nutrient{}
		}
		nutrients = append(nutrients, models.Nutrient{Name: *w.Name, Amount: *w.Amount, Unit: w.Unit})
	}
	return nutrients
}

// Rank keeps nutrients with a positive amount, sorts them by amount from
// largest to smallest, and returns at most k of them. Equal amounts keep
// their input order. The input slice is not modified.
func Rank(nutrients []models.Nutrient, k int) []models.Nutrient {
	if k <= 0 {
		return []models.Nutrient{}
	}

	ranked := make([]models.Nutrient, 0, len(nutrients))
	for _, n := range nutrients {
		if n.Amount > 0 {
			ranked = append(ranked, n)
		}
	}

	slices.SortStableFunc(ranked, func(a, b models.Nutrient) int {
		return cmp.Compare(b.Amount, a.Amount)
	})

	if len(ranked) > k {
		ranked = slices.Clip(ranked[:k])
	}
	return ranked
}

// Available reports whether there is any nutrient data to show.
func Available(nutrients []models.Nutrient) bool {
	return len(nutrients) > 0
}
