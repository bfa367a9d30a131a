package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipe-finder/internal/config"
	"github.com/windoze95/recipe-finder/internal/handlers"
	"github.com/windoze95/recipe-finder/internal/logger"
	"github.com/windoze95/recipe-finder/internal/metrics"
	"github.com/windoze95/recipe-finder/internal/recipeapi"
	"github.com/windoze95/recipe-finder/internal/service"
	"github.com/windoze95/recipe-finder/internal/ws"
)

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, source recipeapi.RecipeSource, rec *metrics.Recorder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.EnvVars.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.EnvVars.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddExposeHeaders("X-Request-ID")
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())
	r.Use(logger.AccessLogMiddleware())
	if rec != nil {
		r.Use(rec.HTTPMiddleware())
		r.GET("/metrics", gin.WrapH(rec.Handler()))
	}

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Recipe-related routes setup
	recipeService := service.NewRecipeService(cfg, source)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	api := r.Group("/v1")
	{
		// Cuisine and diet filter choices
		api.GET("/options", recipeHandler.GetOptions)

		// Search recipes by ingredients
		api.GET("/recipes/search", recipeHandler.SearchRecipes)
		// Get a single recipe with its ranked nutrients
		api.GET("/recipes/:recipe_id", recipeHandler.GetRecipe)
		// Get only the ranked nutrients of a recipe
		api.GET("/recipes/:recipe_id/nutrients", recipeHandler.GetTopNutrients)
	}

	// WebSocket search-and-select session
	sessionHandler := ws.NewSessionHandler(recipeService, cfg.EnvVars.AllowedOrigins)
	r.GET("/v1/ws/session", sessionHandler.HandleSession)

	return r
}
