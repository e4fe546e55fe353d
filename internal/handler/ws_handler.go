package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/authz"
	ws "github.com/opec-platform/opec-backend/internal/websocket"
)

// ResultSubscriber is satisfied by *service.ResultFeed.
type ResultSubscriber interface {
	Subscribe(ctx context.Context, examID int) (<-chan ws.ResultEvent, error)
}

// WSHandler streams finalized results to the owning evaluator.
type WSHandler struct {
	gate     *authz.Gate
	feed     ResultSubscriber
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(gate *authz.Gate, feed ResultSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		gate:     gate,
		feed:     feed,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: ws.NewUpgrader(allowedOrigins),
	}
}

// ResultStream godoc
// WS /ws/v1/evaluator/exams/:id/results?token=...
// Pushes a result event each time a competitor finishes the exam.
func (h *WSHandler) ResultStream(c *gin.Context) {
	owned, ok := ownedExam(c, h.gate)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("exam_id", owned.ID()).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := h.feed.Subscribe(ctx, owned.ID())
	if err != nil {
		wsLog.Error().Err(err).Msg("Subscribe to results failed")
		ws.WriteError(conn, "results stream unavailable")
		return
	}

	wsLog.Info().Msg("Evaluator connected")

	// gorilla/websocket allows one concurrent writer, so the reader only
	// forwards pong requests and every write happens in the loop below.
	pongs := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, pongs, cancel)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			event.Event = ws.EventResult
			if err := ws.WriteTyped(conn, event); err != nil {
				wsLog.Debug().Err(err).Msg("Write result failed")
				return
			}
		case <-pongs:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client messages until the connection closes, then cancels
// the stream.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, pongs chan<- struct{}, cancel context.CancelFunc) {
	defer cancel()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ws.PongWait))
	})

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			select {
			case pongs <- struct{}{}:
			default:
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		}
	}
}
