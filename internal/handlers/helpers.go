package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipe-finder/internal/logger"
	"github.com/windoze95/recipe-finder/internal/service"
	"go.uber.org/zap"
)

// maxTopParam bounds the ?top= query parameter.
const maxTopParam = 50

// parseRecipeIDParam parses a path parameter into a positive int.
func parseRecipeIDParam(param string) (int, error) {
	parsed, err := strconv.Atoi(param)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be positive: %d", parsed)
	}
	return parsed, nil
}

// parseTopParam parses the optional ?top= parameter. An empty value yields
// zero, meaning "use the configured default".
func parseTopParam(param string) (int, error) {
	if param == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(param)
	if err != nil {
		return 0, err
	}
	if parsed < 1 || parsed > maxTopParam {
		return 0, fmt.Errorf("value out of range 1..%d: %d", maxTopParam, parsed)
	}
	return parsed, nil
}

// respondError writes the classified form of err.
func respondError(c *gin.Context, msg string, err error) {
	ce := service.ClassifyError(err)
	log := logger.FromContext(c)
	if ce.Kind == service.KindValidation {
		log.Debug(msg, zap.Error(err))
	} else {
		log.Error(msg, zap.String("kind", ce.Kind), zap.Error(err))
	}
	c.JSON(ce.Status, gin.H{"error": ce.Message, "code": ce.Kind})
}
