package ws

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/windoze95/recipe-finder/internal/config"
	"github.com/windoze95/recipe-finder/internal/logger"
	"github.com/windoze95/recipe-finder/internal/models"
	"github.com/windoze95/recipe-finder/internal/service"
	"go.uber.org/zap"
)

// WebSocket message types for the recipe session protocol.
const (
	MsgTypeSearch    = "search"    // Client starts a recipe search
	MsgTypeSelect    = "select"    // Client picks a recipe to load
	MsgTypeConnected = "connected" // Connection confirmed
	MsgTypeStatus    = "status"    // Status line update
	MsgTypeResults   = "results"   // Search results
	MsgTypeDetails   = "details"   // Recipe detail with ranked nutrients
	MsgTypeError     = "error"     // Error message
)

// Status line texts.
const (
	StatusReady      = "Ready"
	StatusSearching  = "Searching..."
	StatusSearchDone = "Search complete."
	StatusLoading    = "Loading recipe details..."
)

// WSMessage is the envelope for all messages sent over the session WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SearchPayload is sent by the client to search for recipes.
type SearchPayload struct {
	Ingredients string `json:"ingredients"`
	Cuisine     string `json:"cuisine,omitempty"`
	Diet        string `json:"diet,omitempty"`
}

// SelectPayload picks a recipe either by ID or by its position in the most
// recent search results.
type SelectPayload struct {
	RecipeID int  `json:"recipe_id,omitempty"`
	Index    *int `json:"index,omitempty"`
}

// StatusPayload carries the status line text.
type StatusPayload struct {
	Text string `json:"text"`
}

// DetailsPayload carries the selected recipe.
type DetailsPayload struct {
	Recipe service.RecipeResponse `json:"recipe"`
}

// ErrorPayload carries an error to the client.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	SessionID string          `json:"session_id"`
	Options   *config.Options `json:"options"`
}

type requestKind int

const (
	requestSearch requestKind = iota
	requestDetail
	numRequestKinds
)

func (k requestKind) String() string {
	if k == requestSearch {
		return "search"
	}
	return "detail"
}

// workerResult is posted by a worker goroutine back to the session.
type workerResult struct {
	kind    requestKind
	seq     uint64
	results []models.RecipeSummary
	view    *service.RecipeView
	err     error
}

// Session holds the state of one client's search-and-select flow. All state
// is owned by the Run goroutine; blocking calls happen in worker goroutines
// that post their results back over a channel.
type Session struct {
	ID      string
	Service *service.RecipeService
	TopK    int

	send    chan<- []byte
	inbound chan []byte
	results chan workerResult

	// Owned by Run.
	ctx         context.Context
	seq         [numRequestKinds]uint64
	lastResults []models.RecipeSummary
	current     *service.RecipeView
}

// NewSession returns a session that writes outbound messages to send. Run
// closes send when it returns. A topK of zero uses the configured default.
func NewSession(id string, recipeService *service.RecipeService, topK int, send chan<- []byte) *Session {
	return &Session{
		ID:      id,
		Service: recipeService,
		TopK:    topK,
		send:    send,
		inbound: make(chan []byte),
		results: make(chan workerResult),
	}
}

// Dispatch hands a raw inbound message to the session. It reports false if
// ctx ends before the session accepts it.
func (s *Session) Dispatch(ctx context.Context, data []byte) bool {
	select {
	case s.inbound <- data:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run processes inbound messages and worker results until ctx is done.
func (s *Session) Run(ctx context.Context) {
	s.ctx = ctx
	defer close(s.send)

	s.emit(MsgTypeConnected, ConnectedPayload{SessionID: s.ID, Options: s.Service.Options()})
	s.status(StatusReady)

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-s.inbound:
			s.handleMessage(data)
		case res := <-s.results:
			s.handleResult(res)
		}
	}
}

// handleMessage parses an incoming message and routes it.
func (s *Session) handleMessage(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(service.KindValidation, "invalid message format")
		return
	}

	logger.Get().Debug("received ws message",
		zap.String("type", msg.Type),
		zap.String("session_id", s.ID),
	)

	switch msg.Type {
	case MsgTypeSearch:
		s.handleSearch(msg.Payload)
	case MsgTypeSelect:
		s.handleSelect(msg.Payload)
	default:
		s.sendError(service.KindValidation, "unknown message type: "+msg.Type)
	}
}

func (s *Session) handleSearch(payload json.RawMessage) {
	var p SearchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(service.KindValidation, "invalid search payload")
		return
	}
	if strings.TrimSpace(p.Ingredients) == "" {
		s.sendError(service.KindValidation, "Please enter ingredients to search for.")
		return
	}

	query := service.SearchQuery{Ingredients: p.Ingredients, Cuisine: p.Cuisine, Diet: p.Diet}
	s.status(StatusSearching)
	s.start(requestSearch, func(ctx context.Context, r *workerResult) {
		r.results, r.err = s.Service.SearchRecipes(ctx, query)
	})
}

func (s *Session) handleSelect(payload json.RawMessage) {
	var p SelectPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(service.KindValidation, "invalid select payload")
		return
	}

	recipeID := p.RecipeID
	if recipeID == 0 && p.Index != nil {
		if *p.Index < 0 || *p.Index >= len(s.lastResults) {
			s.sendError(service.KindValidation, "no search result at that position")
			return
		}
		recipeID = s.lastResults[*p.Index].ID
	}
	if recipeID <= 0 {
		s.sendError(service.KindValidation, "recipe_id must be a positive integer")
		return
	}

	topK := s.TopK
	s.status(StatusLoading)
	s.start(requestDetail, func(ctx context.Context, r *workerResult) {
		r.view, r.err = s.Service.GetRecipe(ctx, recipeID, topK)
	})
}

// start bumps the sequence for kind and runs work in a new goroutine.
// Superseded requests still run to completion; handleResult drops their
// results. Workers only stop early when the session ends.
func (s *Session) start(kind requestKind, work func(ctx context.Context, r *workerResult)) {
	s.seq[kind]++
	ctx := s.ctx

	res := workerResult{kind: kind, seq: s.seq[kind]}
	go func() {
		work(ctx, &res)
		select {
		case s.results <- res:
		case <-ctx.Done():
		}
	}()
}

// handleResult applies a worker result unless a newer request of the same
// kind has been started since.
func (s *Session) handleResult(res workerResult) {
	log := logger.With(zap.String("session_id", s.ID), zap.Stringer("request", res.kind))

	if res.seq != s.seq[res.kind] {
		log.Debug("dropping stale result", zap.Uint64("seq", res.seq), zap.Uint64("latest", s.seq[res.kind]))
		return
	}

	if res.err != nil {
		ce := service.ClassifyError(res.err)
		log.Error("session request failed", zap.String("kind", ce.Kind), zap.Error(res.err))
		s.sendError(ce.Kind, ce.Message)
		s.status(StatusReady)
		return
	}

	switch res.kind {
	case requestSearch:
		s.lastResults = res.results
		s.emit(MsgTypeResults, service.ToSearchResponse(res.results))
		s.status(StatusSearchDone)
	case requestDetail:
		// The previous view is discarded with its detail.
		s.current = res.view
		s.emit(MsgTypeDetails, DetailsPayload{Recipe: s.Service.ToRecipeResponse(s.current)})
		s.status(StatusReady)
	}
}

func (s *Session) status(text string) {
	s.emit(MsgTypeStatus, StatusPayload{Text: text})
}

func (s *Session) sendError(kind, message string) {
	s.emit(MsgTypeError, ErrorPayload{Kind: kind, Message: message})
}

// emit marshals payload into an envelope and queues it for the client.
func (s *Session) emit(msgType string, payload interface{}) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		logger.Get().Error("failed to marshal ws payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	msg, _ := json.Marshal(WSMessage{Type: msgType, Payload: payloadBytes})

	select {
	case s.send <- msg:
	case <-s.ctx.Done():
	}
}
