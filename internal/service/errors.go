package service

import (
	"errors"
	"net/http"

	"github.com/windoze95/recipe-finder/internal/recipeapi"
)

// Error kinds reported to API and session clients.
const (
	KindValidation     = "validation_error"
	KindNetwork        = "network_error"
	KindResponseFormat = "response_format_error"
	KindInternal       = "internal_error"
)

// User-facing messages. "No results" and "nutrition unavailable" are not
// failures; they accompany successful responses.
const (
	MsgNoResults            = "No recipes found."
	MsgNutritionUnavailable = "Nutritional data not available"
	MsgNetworkFailure       = "Could not reach the recipe service. Please try again later."
	MsgFormatFailure        = "The recipe service returned an unexpected response."
	MsgInternalFailure      = "Something went wrong."
)

// ValidationError is a usage error in caller-supplied input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ClassifiedError describes how a failure should be shown to a client.
type ClassifiedError struct {
	Kind    string
	Message string
	Status  int
}

// ClassifyError maps a service or client error to its kind, a user-facing
// message, and an HTTP status.
func ClassifyError(err error) ClassifiedError {
	var valErr *ValidationError
	var netErr *recipeapi.NetworkError
	var fmtErr *recipeapi.ResponseFormatError

	switch {
	case errors.As(err, &valErr):
		return ClassifiedError{Kind: KindValidation, Message: valErr.Error(), Status: http.StatusBadRequest}
	case errors.Is(err, recipeapi.ErrEmptyIngredients), errors.Is(err, recipeapi.ErrInvalidRecipeID):
		return ClassifiedError{Kind: KindValidation, Message: err.Error(), Status: http.StatusBadRequest}
	case errors.As(err, &netErr):
		if netErr.StatusCode == http.StatusNotFound {
			return ClassifiedError{Kind: KindNetwork, Message: "Recipe not found.", Status: http.StatusNotFound}
		}
		return ClassifiedError{Kind: KindNetwork, Message: MsgNetworkFailure, Status: http.StatusBadGateway}
	case errors.As(err, &fmtErr):
		return ClassifiedError{Kind: KindResponseFormat, Message: MsgFormatFailure, Status: http.StatusBadGateway}
	default:
		return ClassifiedError{Kind: KindInternal, Message: MsgInternalFailure, Status: http.StatusInternalServerError}
	}
}
