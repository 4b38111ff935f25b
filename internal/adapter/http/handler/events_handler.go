package handler

import (
	"encoding/json"
	"io"
	"time"

	"mpesa-payment-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// heartbeatInterval is how often an idle SSE stream emits a keepalive.
const heartbeatInterval = 30 * time.Second

// EventsHandler streams live events over server-sent events.
type EventsHandler struct {
	broadcast ports.Broadcaster
	log       zerolog.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(broadcast ports.Broadcaster, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{broadcast: broadcast, log: log}
}

// Stream handles GET /api/v1/events. The connection stays open until the
// client disconnects or the broadcaster drops the subscriber for falling
// behind.
func (h *EventsHandler) Stream(c *gin.Context) {
	clientID := uuid.NewString()
	ch := h.broadcast.Register(clientID)
	defer h.broadcast.Unregister(clientID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.log.Info().Str("client_id", clientID).Msg("event stream opened")

	connected, _ := json.Marshal(gin.H{"type": "connected", "client_id": clientID})
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	first := true
	c.Stream(func(w io.Writer) bool {
		if first {
			first = false
			c.SSEvent("message", string(connected))
			return true
		}
		select {
		case msg, open := <-ch:
			if !open {
				return false
			}
			h.broadcast.Touch(clientID)
			c.SSEvent("message", string(msg))
			return true
		case <-heartbeat.C:
			h.broadcast.Touch(clientID)
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	h.log.Info().Str("client_id", clientID).Msg("event stream closed")
}
