package main

import (
	"os"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipe-finder/internal/config"
	"github.com/windoze95/recipe-finder/internal/logger"
	"github.com/windoze95/recipe-finder/internal/metrics"
	"github.com/windoze95/recipe-finder/internal/recipeapi"
	"github.com/windoze95/recipe-finder/internal/router"
	"go.uber.org/zap"
)

// init is called before the main function.
func init() {
	// Initialize structured logger (dev mode if GIN_MODE != release)
	isDev := os.Getenv("GIN_MODE") != "release"
	logger.Init(isDev, os.Getenv("LOG_LEVEL"))

	// Configure the runtime
	ConfigureRuntime()
}

// Entry point for the API.
func main() {
	defer logger.Sync()

	// Load the config
	var cfg *config.Config
	if c, err := config.LoadConfig(); err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	} else {
		cfg = c
	}

	// Check that all ENV variables are set
	if err := cfg.CheckConfigEnvFields(); err != nil {
		logger.Get().Fatal("missing required config fields", zap.Error(err))
	}

	rec := metrics.NewRecorder()

	// Recipe API client
	source := recipeapi.NewSpoonacularClient(recipeapi.ClientConfig{
		BaseURL: cfg.EnvVars.SpoonacularURL,
		APIKey:  cfg.EnvVars.SpoonacularAPIKey,
		Timeout: cfg.EnvVars.HTTPTimeout,
	}, rec)

	// Create a new gin router
	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(cfg, source, rec)

	// Run the server
	logger.Get().Info("starting server",
		zap.String("port", cfg.EnvVars.Port),
		zap.String("upstream", cfg.EnvVars.SpoonacularURL),
		zap.Int("top_nutrients", cfg.EnvVars.TopNutrients),
	)
	if err := r.Run(":" + cfg.EnvVars.Port); err != nil {
		logger.Get().Fatal("server stopped", zap.Error(err))
	}
}

// ConfigureRuntime sets the number of operating system threads.
func ConfigureRuntime() {
	nuCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(nuCPU)
	logger.Get().Info("runtime configured", zap.Int("cpus", nuCPU))
}
