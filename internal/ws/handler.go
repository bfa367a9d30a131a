package ws

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/windoze95/recipe-finder/internal/logger"
	"github.com/windoze95/recipe-finder/internal/service"
	"go.uber.org/zap"
)

// SessionHandler upgrades HTTP requests to recipe sessions.
type SessionHandler struct {
	Service  *service.RecipeService
	upgrader websocket.Upgrader
}

// NewSessionHandler returns a SessionHandler. An empty allowedOrigins
// accepts any origin.
func NewSessionHandler(recipeService *service.RecipeService, allowedOrigins []string) *SessionHandler {
	return &SessionHandler{
		Service: recipeService,
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// HandleSession upgrades the connection and runs a Session until the client
// disconnects.
func (h *SessionHandler) HandleSession(c *gin.Context) {
	log := logger.FromContext(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sessionID := uuid.New().String()
	client := NewClient(conn, sessionID)
	session := NewSession(sessionID, h.Service, 0, client.Send)

	ctx, cancel := context.WithCancel(context.Background())

	log.Info("recipe session started", zap.String("session_id", sessionID))

	go session.Run(ctx)
	go client.WritePump()
	go client.ReadPump(func(data []byte) {
		session.Dispatch(ctx, data)
	}, func() {
		cancel()
		log.Info("recipe session ended", zap.String("session_id", sessionID))
	})
}
