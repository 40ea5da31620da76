package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMsgSize      = 1 << 12 // 4 KB
	defaultInterval = 5 * time.Second
	minInterval     = 1 * time.Second
	maxInterval     = 5 * time.Minute
)

// Envelope types.
const (
	wsTypePredictions = "predictions"
	wsTypeError       = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once the frontend host is configurable
}

// @Summary      Prediction stream
// @Description  Pushes the latest predictions on connect and every interval. Browsers pass the token as access_token.
// @Tags         predictions
// @Param        interval     query  string  false  "Push interval, e.g. 30s (1s..5m)"
// @Param        interval_ms  query  int     false  "Push interval in milliseconds"
// @Param        search       query  string  false  "Case-insensitive city or country substring"
// @Router       /api/v1/ws/predictions [get]
// @Security     BearerAuth
func (h *Handler) wsPredictions(c *gin.Context) {
	interval := h.parseInterval(c)
	search := c.Query("search")
	token := accessToken(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.sendPredictions(ctx, conn, token, search); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendPredictions(ctx, conn, token, search); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=30s or ?interval_ms=30000 within bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil {
			if d := time.Duration(v) * time.Millisecond; d >= minInterval && d <= maxInterval {
				return d
			}
		}
	}

	return h.streamInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendPredictions loads and writes one snapshot. A failed load is reported to
// the client as an error envelope and keeps the stream open; only write
// failures end it.
func (h *Handler) sendPredictions(ctx context.Context, conn *websocket.Conn, token, search string) error {
	res := h.services.Predictions.LoadLatest(ctx, token)

	env := wsEnvelope{Type: wsTypePredictions}
	if res.OK() {
		records := service.FilterBySearchTerm(res.Records, search)
		if records == nil {
			records = []models.PredictionRecord{}
		}
		env.Data = records
	} else {
		if h.log != nil {
			h.log.Errorw("ws_predictions_failed", "err", res.Err)
		}
		env = wsEnvelope{Type: wsTypeError, Error: "failed to load predictions"}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
