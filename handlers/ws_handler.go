package handlers

import (
	"net/http"

	"quizengine/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	attemptService *services.AttemptService
	hub            *services.Hub
}

func NewWebSocketHandler(attemptService *services.AttemptService, hub *services.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		attemptService: attemptService,
		hub:            hub,
	}
}

// WatchAttempt upgrades the connection and subscribes it to the attempt's events. Only the owner
// of the attempt may watch it.
func (h *WebSocketHandler) WatchAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	attemptID := c.Param("id")

	if _, err := h.attemptService.CurrentView(c.Request.Context(), attemptID, userID); err != nil {
		log.Warnf("WebSocket access to attempt %s denied for user %d: %v", attemptID, userID, err)
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("WebSocket upgrade failed for attempt %s: %v", attemptID, err)
		return
	}

	h.hub.RegisterClient(conn, attemptID, userID)
}
