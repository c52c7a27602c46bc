package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/events"
	"github.com/hdbaza/helpdesk-api/internal/middleware"
	"github.com/hdbaza/helpdesk-api/internal/response"
	ws "github.com/hdbaza/helpdesk-api/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams ticket lifecycle events to admin dashboards.
type WSHandler struct {
	bus      events.Bus
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(bus events.Bus, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		bus:      bus,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Events godoc
// WS /ws/events?token=
// Forwards every published event as one JSON text frame. Clients may send
// {"action":"ping"} to keep the connection alive.
func (h *WSHandler) Events(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	ctx := c.Request.Context()
	sub, err := h.bus.Subscribe(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Event subscription failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrInternal)
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("username", id.Username).Logger()
	wsLog.Info().Msg("Listener connected")

	if err := ws.WriteTyped(conn, ws.ConnectedResponse{Event: ws.EventConnected, Username: id.Username}); err != nil {
		return
	}

	// gorilla allows a single writer, so the reader hands replies to the
	// loop below instead of writing itself.
	replies := make(chan interface{}, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}

			var reply interface{}
			switch msg.Action {
			case ws.ActionPing:
				reply = ws.PongResponse{Event: ws.EventPong}
			default:
				reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
			}
			select {
			case replies <- reply:
			default:
			}
		}
	}()

	for {
		select {
		case <-done:
			wsLog.Info().Msg("Listener disconnected")
			return
		case <-ctx.Done():
			return
		case payload, ok := <-sub.C:
			if !ok {
				return
			}
			if err := ws.WriteRaw(conn, payload); err != nil {
				wsLog.Debug().Err(err).Msg("Event write failed")
				return
			}
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		}
	}
}
