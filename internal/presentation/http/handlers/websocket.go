package handlers

import (
	"net/http"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/messaging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocketHandler upgrades dashboard connections onto the editor activity
// feed. Clients authenticate with a token query parameter because browsers
// cannot set headers on websocket upgrades.
type WebSocketHandler struct {
	broadcaster *messaging.Broadcaster
	auth        *services.AuthService
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

func NewWebSocketHandler(broadcaster *messaging.Broadcaster, auth *services.AuthService, logger *logging.ChanneledLogger) *WebSocketHandler {
	return &WebSocketHandler{
		broadcaster: broadcaster,
		auth:        auth,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ActivityFeed serves the editor activity websocket.
func (h *WebSocketHandler) ActivityFeed(c *gin.Context) {
	if _, err := h.auth.ValidateToken(c.Query("token")); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Realtime().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	h.broadcaster.AddClient(conn)

	// Drain the read side so close frames and pings are processed; the
	// feed itself is write-only.
	go func() {
		defer h.broadcaster.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
