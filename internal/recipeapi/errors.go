package recipeapi

import (
	"errors"
	"fmt"
)

// Usage errors, returned before any request is sent.
var (
	ErrEmptyIngredients = errors.New("ingredients must not be empty")
	ErrInvalidRecipeID  = errors.New("recipe id must be positive")
)

// NetworkError reports a transport failure or a non-success HTTP status.
type NetworkError struct {
	Op         string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ResponseFormatError reports a response body that is not valid JSON or
// lacks a required field.
type ResponseFormatError struct {
	Op  string
	Err error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }
