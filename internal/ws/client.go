package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/windoze95/recipe-finder/internal/logger"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Outbound buffer per connection.
	sendBufferSize = 64
)

const sessionEndedReason = "session ended"

// Client represents a single WebSocket connection.
type Client struct {
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID string
}

// NewClient wraps conn with a buffered Send channel.
func NewClient(conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		Conn:      conn,
		Send:      make(chan []byte, sendBufferSize),
		SessionID: sessionID,
	}
}

// ReadPump reads messages from the WebSocket connection and passes each one
// to handler. It returns when the connection fails or is closed; onClose is
// then called once.
func (c *Client) ReadPump(handler func([]byte), onClose func()) {
	defer func() {
		onClose()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				logger.Get().Warn("unexpected websocket close",
					zap.String("session_id", c.SessionID),
					zap.Error(err),
				)
			}
			return
		}
		handler(message)
	}
}

// WritePump writes each session message as one text frame and pings the
// peer periodically. When the session closes Send it sends a normal close
// frame and returns.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	log := logger.With(zap.String("session_id", c.SessionID))

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, sessionEndedReason)
				c.Conn.WriteMessage(websocket.CloseMessage, closeMsg)
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug("session write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("session ping failed", zap.Error(err))
				return
			}
		}
	}
}
