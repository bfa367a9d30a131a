package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/windoze95/recipe-finder/internal/models"
)

// --- MockRecipeSource ---

// MockRecipeSource is a mock implementation of recipeapi.RecipeSource.
type MockRecipeSource struct {
	SearchRecipesFunc    func(ctx context.Context, ingredients, cuisine, diet string) ([]models.RecipeSummary, error)
	GetRecipeDetailsFunc func(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error)

	mu    sync.Mutex
	Calls []string
}

func (m *MockRecipeSource) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallCount returns how many calls have been recorded.
func (m *MockRecipeSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockRecipeSource) SearchRecipes(ctx context.Context, ingredients, cuisine, diet string) ([]models.RecipeSummary, error) {
	m.record("SearchRecipes")
	if m.SearchRecipesFunc != nil {
		return m.SearchRecipesFunc(ctx, ingredients, cuisine, diet)
	}
	return nil, fmt.Errorf("SearchRecipes not configured")
}

func (m *MockRecipeSource) GetRecipeDetails(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error) {
	m.record("GetRecipeDetails")
	if m.GetRecipeDetailsFunc != nil {
		return m.GetRecipeDetailsFunc(ctx, recipeID, includeNutrition)
	}
	return nil, fmt.Errorf("GetRecipeDetails not configured")
}

// --- Fake upstream ---

// FakeUpstream is an httptest server standing in for the recipe API. It
// records the last request it saw.
type FakeUpstream struct {
	*httptest.Server

	mu      sync.Mutex
	lastReq *http.Request
}

// NewFakeUpstream starts a server that answers every request with status
// and body. Callers must Close it.
func NewFakeUpstream(status int, body string) *FakeUpstream {
	f := &FakeUpstream{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastReq = r.Clone(r.Context())
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	return f
}

// LastRequest returns the most recent request received, or nil.
func (f *FakeUpstream) LastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}
