package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard-api/internal/notify"
)

// WSHandler streams store events to the browser
type WSHandler struct {
	hub    *notify.Hub
	logger zerolog.Logger
}

func NewWSHandler(hub *notify.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Connect upgrades the request. The upgrader writes its own error response.
func (h *WSHandler) Connect(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, userID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("websocket upgrade failed")
	}
}
