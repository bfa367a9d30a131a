package recipeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/windoze95/recipe-finder/internal/logger"
	"github.com/windoze95/recipe-finder/internal/metrics"
	"github.com/windoze95/recipe-finder/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Spoonacular API root.
	DefaultBaseURL = "https://api.spoonacular.com"

	endpointSearch  = "search"
	endpointDetails = "details"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 10 << 20
)

// ClientConfig holds everything a SpoonacularClient needs. It is copied at
// construction and never consulted again.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// SpoonacularClient implements RecipeSource against the Spoonacular API.
type SpoonacularClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.Recorder
}

// NewSpoonacularClient creates a client. rec may be nil.
func NewSpoonacularClient(cfg ClientConfig, rec *metrics.Recorder) *SpoonacularClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &SpoonacularClient{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		metrics:    rec,
	}
}

// --- Search ---

type searchResponse struct {
	Results *[]searchResult `json:"results"`
}

type searchResult struct {
	ID    *int   `json:"id"`
	Title string `json:"title"`
}

// SearchRecipes calls /recipes/complexSearch. The ingredients are sent as
// the free-text "query" parameter; diet is lowercased as the API expects.
func (c *SpoonacularClient) SearchRecipes(ctx context.Context, ingredients, cuisine, diet string) ([]models.RecipeSummary, error) {
	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return nil, ErrEmptyIngredients
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("query", ingredients)
	if cuisine = strings.TrimSpace(cuisine); cuisine != "" {
		params.Set("cuisine", cuisine)
	}
	if diet = strings.TrimSpace(diet); diet != "" {
		params.Set("diet", strings.ToLower(diet))
	}

	start := time.Now()
	body, err := c.get(ctx, endpointSearch, "/recipes/complexSearch", params)
	if err != nil {
		c.observe(endpointSearch, err, start)
		return nil, err
	}

	results, err := decodeSearch(body)
	c.observe(endpointSearch, err, start)
	if err != nil {
		return nil, err
	}

	logger.Get().Debug("recipe search completed",
		zap.String("query", ingredients),
		zap.String("cuisine", cuisine),
		zap.String("diet", diet),
		zap.Int("results", len(results)),
	)
	return results, nil
}

func decodeSearch(body []byte) ([]models.RecipeSummary, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ResponseFormatError{Op: endpointSearch, Err: err}
	}
	if resp.Results == nil {
		return nil, &ResponseFormatError{Op: endpointSearch, Err: errors.New(`missing "results" field`)}
	}

	results := make([]models.RecipeSummary, 0, len(*resp.Results))
	for i, r := range *resp.Results {
		if r.ID == nil {
			return nil, &ResponseFormatError{Op: endpointSearch, Err: fmt.Errorf("result %d has no id", i)}
		}
		if strings.TrimSpace(r.Title) == "" {
			return nil, &ResponseFormatError{Op: endpointSearch, Err: fmt.Errorf("result %d (id %d) has no title", i, *r.ID)}
		}
		results = append(results, models.RecipeSummary{ID: *r.ID, Title: r.Title})
	}
	return results, nil
}

// --- Details ---

type detailResponse struct {
	ID                  int               `json:"id"`
	Title               string            `json:"title"`
	ExtendedIngredients []ingredientEntry `json:"extendedIngredients"`
	Instructions        string            `json:"instructions"`
	Image               string            `json:"image"`
	Nutrition           json.RawMessage   `json:"nutrition"`
}

type ingredientEntry struct {
	Original string `json:"original"`
}

// GetRecipeDetails calls /recipes/{id}/information.
func (c *SpoonacularClient) GetRecipeDetails(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error) {
	if recipeID <= 0 {
		return nil, ErrInvalidRecipeID
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	if includeNutrition {
		params.Set("includeNutrition", "true")
	}

	start := time.Now()
	path := "/recipes/" + strconv.Itoa(recipeID) + "/information"
	body, err := c.get(ctx, endpointDetails, path, params)
	if err != nil {
		c.observe(endpointDetails, err, start)
		return nil, err
	}

	detail, err := decodeDetail(body, recipeID)
	c.observe(endpointDetails, err, start)
	if err != nil {
		return nil, err
	}

	if includeNutrition && detail.Nutrition == nil {
		logger.Get().Info("recipe details returned without nutrition", zap.Int("recipe_id", recipeID))
	}
	return detail, nil
}

func decodeDetail(body []byte, recipeID int) (*models.RecipeDetail, error) {
	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ResponseFormatError{Op: endpointDetails, Err: err}
	}
	if strings.TrimSpace(resp.Title) == "" {
		return nil, &ResponseFormatError{Op: endpointDetails, Err: errors.New(`missing "title" field`)}
	}

	detail := &models.RecipeDetail{
		ID:           resp.ID,
		Title:        resp.Title,
		Ingredients:  make([]string, 0, len(resp.ExtendedIngredients)),
		Instructions: resp.Instructions,
		ImageURL:     resp.Image,
	}
	if detail.ID == 0 {
		detail.ID = recipeID
	}
	for _, ing := range resp.ExtendedIngredients {
		detail.Ingredients = append(detail.Ingredients, ing.Original)
	}
	if raw := bytes.TrimSpace(resp.Nutrition); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		detail.Nutrition = raw
	}
	return detail, nil
}

// --- Transport ---

// get performs a GET and returns the body of a 2xx response. Anything else
// is a *NetworkError. The API key is never logged.
func (c *SpoonacularClient) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	log := logger.With(zap.String("endpoint", op), zap.String("path", path))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = c.redact(err, path)
		log.Error("recipe API request failed", zap.Error(err))
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read recipe API response", zap.Error(err))
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	log.Info("recipe API request",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", snippet(body))}
	}
	return body, nil
}

func (c *SpoonacularClient) observe(endpoint string, err error, start time.Time) {
	outcome := metrics.OutcomeSuccess
	var fmtErr *ResponseFormatError
	switch {
	case err == nil:
	case errors.As(err, &fmtErr):
		outcome = metrics.OutcomeResponseFormat
	default:
		outcome = metrics.OutcomeNetworkError
	}
	c.metrics.ObserveUpstream(endpoint, outcome, time.Since(start))
}

// redact drops the query string, and with it the API key, from transport
// errors, which embed the request URL.
func (c *SpoonacularClient) redact(err error, path string) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = c.baseURL + path
	}
	return err
}

// snippet returns at most 200 bytes of a response body for error messages.
func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
