package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/windoze95/recipe-finder/internal/config"
	"github.com/windoze95/recipe-finder/internal/models"
	"github.com/windoze95/recipe-finder/internal/recipeapi"
	"github.com/windoze95/recipe-finder/internal/service"
	"github.com/windoze95/recipe-finder/internal/testutil"
)

// startTestSession runs a Session backed by source and consumes the
// connected and initial status messages. The session stops when the test
// ends.
func startTestSession(t *testing.T, source *testutil.MockRecipeSource) (*Session, chan []byte) {
	t.Helper()
	cfg := &config.Config{EnvVars: config.EnvVars{TopNutrients: 8}, Options: config.DefaultOptions()}
	send := make(chan []byte, 64)
	session := NewSession("test-session", service.NewRecipeService(cfg, source), 0, send)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go session.Run(ctx)

	msg := readMessage(t, send)
	if msg.Type != MsgTypeConnected {
		t.Fatalf("expected type %q, got %q", MsgTypeConnected, msg.Type)
	}
	expectStatus(t, send, StatusReady)
	return session, send
}

// readMessage reads a single WSMessage from send with a short timeout to
// prevent tests from hanging.
func readMessage(t *testing.T, send <-chan []byte) WSMessage {
	t.Helper()
	select {
	case data, ok := <-send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("failed to unmarshal message from send channel: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message on send channel")
		return WSMessage{}
	}
}

// assertNoMoreMessages verifies nothing else is pending on send.
func assertNoMoreMessages(t *testing.T, send <-chan []byte) {
	t.Helper()
	select {
	case data := <-send:
		t.Fatalf("unexpected extra message on send channel: %s", string(data))
	case <-time.After(50 * time.Millisecond):
	}
}

func expectStatus(t *testing.T, send <-chan []byte, text string) {
	t.Helper()
	msg := readMessage(t, send)
	if msg.Type != MsgTypeStatus {
		t.Fatalf("expected type %q, got %q (%s)", MsgTypeStatus, msg.Type, msg.Payload)
	}
	var status StatusPayload
	if err := json.Unmarshal(msg.Payload, &status); err != nil {
		t.Fatalf("failed to unmarshal StatusPayload: %v", err)
	}
	if status.Text != text {
		t.Errorf("status = %q, want %q", status.Text, text)
	}
}

func expectError(t *testing.T, send <-chan []byte, kind string) ErrorPayload {
	t.Helper()
	msg := readMessage(t, send)
	if msg.Type != MsgTypeError {
		t.Fatalf("expected type %q, got %q (%s)", MsgTypeError, msg.Type, msg.Payload)
	}
	var errPayload ErrorPayload
	if err := json.Unmarshal(msg.Payload, &errPayload); err != nil {
		t.Fatalf("failed to unmarshal ErrorPayload: %v", err)
	}
	if errPayload.Kind != kind {
		t.Errorf("error kind = %q, want %q", errPayload.Kind, kind)
	}
	if errPayload.Message == "" {
		t.Error("error message should not be empty")
	}
	return errPayload
}

func expectResults(t *testing.T, send <-chan []byte) service.SearchResponse {
	t.Helper()
	msg := readMessage(t, send)
	if msg.Type != MsgTypeResults {
		t.Fatalf("expected type %q, got %q (%s)", MsgTypeResults, msg.Type, msg.Payload)
	}
	var resp service.SearchResponse
	if err := json.Unmarshal(msg.Payload, &resp); err != nil {
		t.Fatalf("failed to unmarshal SearchResponse: %v", err)
	}
	return resp
}

func expectDetails(t *testing.T, send <-chan []byte) service.RecipeResponse {
	t.Helper()
	msg := readMessage(t, send)
	if msg.Type != MsgTypeDetails {
		t.Fatalf("expected type %q, got %q (%s)", MsgTypeDetails, msg.Type, msg.Payload)
	}
	var details DetailsPayload
	if err := json.Unmarshal(msg.Payload, &details); err != nil {
		t.Fatalf("failed to unmarshal DetailsPayload: %v", err)
	}
	return details.Recipe
}

func dispatch(t *testing.T, s *Session, msgType string, payload interface{}) {
	t.Helper()
	payloadBytes, _ := json.Marshal(payload)
	data, _ := json.Marshal(WSMessage{Type: msgType, Payload: payloadBytes})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !s.Dispatch(ctx, data) {
		t.Fatal("session did not accept message")
	}
}

func searchSource(results []models.RecipeSummary, err error) *testutil.MockRecipeSource {
	return &testutil.MockRecipeSource{
		SearchRecipesFunc: func(ctx context.Context, ingredients, cuisine, diet string) ([]models.RecipeSummary, error) {
			return results, err
		},
		GetRecipeDetailsFunc: func(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error) {
			detail := testutil.TestDetail()
			detail.ID = recipeID
			return detail, nil
		},
	}
}

// --- connection tests ---

func TestRun_ConnectedCarriesOptions(t *testing.T) {
	cfg := &config.Config{Options: config.DefaultOptions()}
	send := make(chan []byte, 8)
	session := NewSession("abc", service.NewRecipeService(cfg, &testutil.MockRecipeSource{}), 0, send)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go session.Run(ctx)

	msg := readMessage(t, send)
	var connected ConnectedPayload
	if err := json.Unmarshal(msg.Payload, &connected); err != nil {
		t.Fatalf("failed to unmarshal ConnectedPayload: %v", err)
	}
	if connected.SessionID != "abc" {
		t.Errorf("session_id = %q, want abc", connected.SessionID)
	}
	if connected.Options == nil || len(connected.Options.Cuisines) == 0 || len(connected.Options.Diets) == 0 {
		t.Errorf("options = %+v", connected.Options)
	}
}

func TestRun_ClosesSendOnCancel(t *testing.T) {
	cfg := &config.Config{}
	send := make(chan []byte, 8)
	session := NewSession("abc", service.NewRecipeService(cfg, &testutil.MockRecipeSource{}), 0, send)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		session.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	for range send {
	}
}

// --- search tests ---

func TestSearch_Success(t *testing.T) {
	source := &testutil.MockRecipeSource{
		SearchRecipesFunc: func(ctx context.Context, ingredients, cuisine, diet string) ([]models.RecipeSummary, error) {
			if ingredients != "chicken,rice" || cuisine != "Indian" || diet != "Vegetarian" {
				t.Errorf("unexpected args: %q %q %q", ingredients, cuisine, diet)
			}
			return []models.RecipeSummary{{ID: 123, Title: "Indian Chicken Rice"}}, nil
		},
	}
	session, send := startTestSession(t, source)

	dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "chicken,rice", Cuisine: "Indian", Diet: "Vegetarian"})

	expectStatus(t, send, StatusSearching)
	resp := expectResults(t, send)
	if len(resp.Results) != 1 || resp.Results[0].ID != 123 {
		t.Errorf("results = %+v", resp.Results)
	}
	if resp.Message != "" {
		t.Errorf("message = %q, want empty", resp.Message)
	}
	expectStatus(t, send, StatusSearchDone)
	assertNoMoreMessages(t, send)
}

func TestSearch_NoResults(t *testing.T) {
	session, send := startTestSession(t, searchSource([]models.RecipeSummary{}, nil))

	dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "unobtainium"})

	expectStatus(t, send, StatusSearching)
	resp := expectResults(t, send)
	if resp.Message != service.MsgNoResults {
		t.Errorf("message = %q, want %q", resp.Message, service.MsgNoResults)
	}
	expectStatus(t, send, StatusSearchDone)
}

func TestSearch_EmptyIngredients(t *testing.T) {
	source := &testutil.MockRecipeSource{}
	session, send := startTestSession(t, source)

	dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "   "})

	expectError(t, send, service.KindValidation)
	assertNoMoreMessages(t, send)
	if source.CallCount() != 0 {
		t.Error("source should not be called for empty ingredients")
	}
}

func TestSearch_UpstreamFailure(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{&recipeapi.NetworkError{Op: "search", Err: errors.New("refused")}, service.KindNetwork},
		{&recipeapi.ResponseFormatError{Op: "search", Err: errors.New("bad json")}, service.KindResponseFormat},
	}

	for _, test := range tests {
		session, send := startTestSession(t, searchSource(nil, test.err))

		dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "rice"})

		expectStatus(t, send, StatusSearching)
		expectError(t, send, test.kind)
		expectStatus(t, send, StatusReady)
	}
}

func TestSearch_StaleResultDropped(t *testing.T) {
	release := make(chan struct{})
	slowDone := make(chan struct{})
	source := &testutil.MockRecipeSource{
		SearchRecipesFunc: func(ctx context.Context, ingredients, cuisine, diet string) ([]models.RecipeSummary, error) {
			if ingredients == "slow" {
				defer close(slowDone)
				<-release
				return []models.RecipeSummary{{ID: 1, Title: "Old"}}, nil
			}
			return []models.RecipeSummary{{ID: 2, Title: "New"}}, nil
		},
	}
	session, send := startTestSession(t, source)

	dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "slow"})
	expectStatus(t, send, StatusSearching)
	dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "fast"})
	expectStatus(t, send, StatusSearching)

	resp := expectResults(t, send)
	if len(resp.Results) != 1 || resp.Results[0].Title != "New" {
		t.Errorf("results = %+v, want only the latest search", resp.Results)
	}
	expectStatus(t, send, StatusSearchDone)

	close(release)
	<-slowDone
	assertNoMoreMessages(t, send)
}

func TestSearch_SupersededRequestNotCancelled(t *testing.T) {
	release := make(chan struct{})
	slowErr := make(chan error, 1)
	source := &testutil.MockRecipeSource{
		SearchRecipesFunc: func(ctx context.Context, ingredients, cuisine, diet string) ([]models.RecipeSummary, error) {
			if ingredients == "slow" {
				<-release
				slowErr <- ctx.Err()
				return []models.RecipeSummary{{ID: 1, Title: "Old"}}, nil
			}
			return []models.RecipeSummary{{ID: 2, Title: "New"}}, nil
		},
	}
	session, send := startTestSession(t, source)

	dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "slow"})
	expectStatus(t, send, StatusSearching)
	dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "fast"})
	expectStatus(t, send, StatusSearching)
	expectResults(t, send)
	expectStatus(t, send, StatusSearchDone)

	close(release)
	select {
	case err := <-slowErr:
		if err != nil {
			t.Errorf("superseded search context err = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded search did not finish")
	}
	assertNoMoreMessages(t, send)
}

// --- select tests ---

func TestSelect_ByID(t *testing.T) {
	source := searchSource(nil, nil)
	source.GetRecipeDetailsFunc = func(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error) {
		if recipeID != 123 {
			t.Errorf("recipeID = %d, want 123", recipeID)
		}
		if !includeNutrition {
			t.Error("details should be requested with nutrition")
		}
		return testutil.TestDetail(), nil
	}
	session, send := startTestSession(t, source)

	dispatch(t, session, MsgTypeSelect, SelectPayload{RecipeID: 123})

	expectStatus(t, send, StatusLoading)
	recipe := expectDetails(t, send)
	if recipe.Title != "Indian Chicken Rice" {
		t.Errorf("title = %q", recipe.Title)
	}
	if !recipe.NutritionAvailable {
		t.Error("nutrition_available should be true")
	}
	if len(recipe.TopNutrients) != 4 || recipe.TopNutrients[0].Name != "Calories" {
		t.Errorf("top_nutrients = %+v", recipe.TopNutrients)
	}
	expectStatus(t, send, StatusReady)
}

func TestSelect_ByIndexAfterSearch(t *testing.T) {
	results := []models.RecipeSummary{{ID: 10, Title: "First"}, {ID: 20, Title: "Second"}}
	session, send := startTestSession(t, searchSource(results, nil))

	dispatch(t, session, MsgTypeSearch, SearchPayload{Ingredients: "rice"})
	expectStatus(t, send, StatusSearching)
	expectResults(t, send)
	expectStatus(t, send, StatusSearchDone)

	index := 1
	dispatch(t, session, MsgTypeSelect, SelectPayload{Index: &index})
	expectStatus(t, send, StatusLoading)
	recipe := expectDetails(t, send)
	if recipe.ID != 20 {
		t.Errorf("recipe id = %d, want 20", recipe.ID)
	}
	expectStatus(t, send, StatusReady)
}

func TestSelect_IndexWithoutResults(t *testing.T) {
	session, send := startTestSession(t, searchSource(nil, nil))

	index := 0
	dispatch(t, session, MsgTypeSelect, SelectPayload{Index: &index})
	expectError(t, send, service.KindValidation)
	assertNoMoreMessages(t, send)
}

func TestSelect_InvalidID(t *testing.T) {
	session, send := startTestSession(t, searchSource(nil, nil))

	dispatch(t, session, MsgTypeSelect, SelectPayload{RecipeID: -5})
	expectError(t, send, service.KindValidation)
}

func TestSelect_NutritionUnavailable(t *testing.T) {
	source := searchSource(nil, nil)
	source.GetRecipeDetailsFunc = func(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error) {
		return &models.RecipeDetail{ID: recipeID, Title: "Plain Pasta"}, nil
	}
	session, send := startTestSession(t, source)

	dispatch(t, session, MsgTypeSelect, SelectPayload{RecipeID: 456})
	expectStatus(t, send, StatusLoading)
	recipe := expectDetails(t, send)
	if recipe.NutritionAvailable {
		t.Error("nutrition_available should be false")
	}
	if recipe.NutritionMessage != service.MsgNutritionUnavailable {
		t.Errorf("nutrition_message = %q", recipe.NutritionMessage)
	}
	if len(recipe.TopNutrients) != 0 {
		t.Errorf("top_nutrients = %+v, want empty", recipe.TopNutrients)
	}
	expectStatus(t, send, StatusReady)
}

func TestSelect_ReplacesPreviousDetail(t *testing.T) {
	source := searchSource(nil, nil)
	source.GetRecipeDetailsFunc = func(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error) {
		if recipeID == 1 {
			return testutil.TestDetail(), nil
		}
		return &models.RecipeDetail{
			ID:        recipeID,
			Title:     "Salt Only",
			Nutrition: testutil.NutritionBlock(models.Nutrient{Name: "Sodium", Amount: 900, Unit: "mg"}),
		}, nil
	}
	session, send := startTestSession(t, source)

	dispatch(t, session, MsgTypeSelect, SelectPayload{RecipeID: 1})
	expectStatus(t, send, StatusLoading)
	expectDetails(t, send)
	expectStatus(t, send, StatusReady)

	dispatch(t, session, MsgTypeSelect, SelectPayload{RecipeID: 2})
	expectStatus(t, send, StatusLoading)
	recipe := expectDetails(t, send)
	if len(recipe.TopNutrients) != 1 || recipe.TopNutrients[0].Name != "Sodium" {
		t.Errorf("top_nutrients = %+v, want only Sodium", recipe.TopNutrients)
	}
	expectStatus(t, send, StatusReady)
}

func TestSelect_NotFound(t *testing.T) {
	source := searchSource(nil, nil)
	source.GetRecipeDetailsFunc = func(ctx context.Context, recipeID int, includeNutrition bool) (*models.RecipeDetail, error) {
		return nil, &recipeapi.NetworkError{Op: "details", StatusCode: 404, Err: errors.New("not found")}
	}
	session, send := startTestSession(t, source)

	dispatch(t, session, MsgTypeSelect, SelectPayload{RecipeID: 999})
	expectStatus(t, send, StatusLoading)
	expectError(t, send, service.KindNetwork)
	expectStatus(t, send, StatusReady)
}

// --- protocol errors ---

func TestHandleMessage_InvalidJSON(t *testing.T) {
	session, send := startTestSession(t, &testutil.MockRecipeSource{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	session.Dispatch(ctx, []byte("not json"))

	errPayload := expectError(t, send, service.KindValidation)
	if errPayload.Message != "invalid message format" {
		t.Errorf("message = %q", errPayload.Message)
	}
}

func TestHandleMessage_UnknownType(t *testing.T) {
	session, send := startTestSession(t, &testutil.MockRecipeSource{})

	dispatch(t, session, "dance", map[string]string{})
	errPayload := expectError(t, send, service.KindValidation)
	if errPayload.Message != "unknown message type: dance" {
		t.Errorf("message = %q", errPayload.Message)
	}
}
