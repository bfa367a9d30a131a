package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipe-finder/internal/service"
)

// RecipeHandler handles recipe search and detail requests.
type RecipeHandler struct {
	Service *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{Service: recipeService}
}

type searchParams struct {
	Ingredients string `form:"ingredients" binding:"required"`
	Cuisine     string `form:"cuisine"`
	Diet        string `form:"diet"`
}

// SearchRecipes handles GET /v1/recipes/search?ingredients=...&cuisine=...&diet=...
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	var params searchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'ingredients' is required", "code": service.KindValidation})
		return
	}

	results, err := h.Service.SearchRecipes(c.Request.Context(), service.SearchQuery{
		Ingredients: params.Ingredients,
		Cuisine:     params.Cuisine,
		Diet:        params.Diet,
	})
	if err != nil {
		respondError(c, "failed to search recipes", err)
		return
	}

	c.JSON(http.StatusOK, service.ToSearchResponse(results))
}

// GetRecipe handles GET /v1/recipes/:recipe_id?top=8
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	view, ok := h.loadRecipe(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": h.Service.ToRecipeResponse(view)})
}

// GetTopNutrients handles GET /v1/recipes/:recipe_id/nutrients?top=8
func (h *RecipeHandler) GetTopNutrients(c *gin.Context) {
	view, ok := h.loadRecipe(c)
	if !ok {
		return
	}

	body := gin.H{
		"recipe_id":           view.Detail.ID,
		"top_nutrients":       service.ToNutrientResponses(view.TopNutrients),
		"nutrition_available": view.NutritionAvailable,
	}
	if !view.NutritionAvailable {
		body["message"] = service.MsgNutritionUnavailable
	}
	c.JSON(http.StatusOK, body)
}

// GetOptions handles GET /v1/options
func (h *RecipeHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Options())
}

func (h *RecipeHandler) loadRecipe(c *gin.Context) (*service.RecipeView, bool) {
	recipeID, err := parseRecipeIDParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID", "code": service.KindValidation})
		return nil, false
	}
	top, err := parseTopParam(c.Query("top"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'top' parameter", "code": service.KindValidation})
		return nil, false
	}

	view, err := h.Service.GetRecipe(c.Request.Context(), recipeID, top)
	if err != nil {
		respondError(c, "failed to get recipe", err)
		return nil, false
	}
	return view, true
}
