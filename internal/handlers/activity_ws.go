package handlers

import (
	"context"
	"strconv"
	"time"

	"feed_csrf/internal/models"
	"feed_csrf/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000

	closeReasonDeactivated = "account deactivated"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// activityCursor remembers which audit events a client already received.
type activityCursor struct {
	seen map[string]struct{}
}

func newActivityCursor() *activityCursor {
	return &activityCursor{seen: make(map[string]struct{})}
}

// advance returns the events not delivered yet and reports whether one of
// them ends the account.
func (a *activityCursor) advance(all []models.AccountEvent) (fresh []models.AccountEvent, deactivated bool) {
	fresh = make([]models.AccountEvent, 0, len(all))
	for _, e := range all {
		if _, ok := a.seen[e.EventID]; ok {
			continue
		}
		a.seen[e.EventID] = struct{}{}
		fresh = append(fresh, e)
		if e.Type == models.EventAccountDeactivated {
			deactivated = true
		}
	}
	return fresh, deactivated
}

// activityStream is one open /ws/activity connection.
type activityStream struct {
	h      *Handler
	conn   *websocket.Conn
	email  string
	cursor *activityCursor
}

// wsActivity pushes the session account's audit trail: the full history on
// connect, then only new entries. The socket is closed with a normal closure
// once the account gets deactivated, so a watcher sees the forged request land.
func (h *Handler) wsActivity(c *gin.Context) {
	interval := parseInterval(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err, "origin", c.GetHeader("Origin"))
		}
		return
	}
	defer func() { _ = conn.Close() }()

	s := &activityStream{h: h, conn: conn, email: currentSession(c).Email, cursor: newActivityCursor()}
	s.run(c.Request.Context(), interval)
}

func (s *activityStream) run(ctx context.Context, interval time.Duration) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	gone := make(chan struct{})
	go s.drain(gone)

	poll := time.NewTicker(interval)
	defer poll.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for first := true; ; first = false {
		done, err := s.push(ctx, first)
		if err != nil || done {
			if err != nil {
				s.logInfo("ws_push_failed", err)
			}
			return
		}

		select {
		case <-gone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logInfo("ws_ping_failed", err)
				return
			}
		case <-poll.C:
		}
	}
}

// push sends what is new since the last call. The first call always sends,
// even an empty history. done is true after the close frame went out.
func (s *activityStream) push(ctx context.Context, first bool) (done bool, err error) {
	all, err := s.h.services.EventLog.List(ctx, service.LogFilter{Email: s.email})
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_list_events_failed", "err", err, "email", s.email)
		}
		_ = s.write(wsEnvelope{Type: "error", Error: "failed to load events"})
		return false, err
	}

	fresh, deactivated := s.cursor.advance(all)
	if len(fresh) > 0 || first {
		if err := s.write(wsEnvelope{Type: "events", Data: fresh}); err != nil {
			return false, err
		}
	}
	if !deactivated {
		return false, nil
	}

	if s.h.log != nil {
		s.h.log.Infow("ws_closed_on_deactivation", "email", s.email)
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, closeReasonDeactivated)
	return true, s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (s *activityStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

// drain reads frames so pongs and the peer's close are processed.
func (s *activityStream) drain(gone chan<- struct{}) {
	defer close(gone)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if s.h.log != nil {
				s.h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (s *activityStream) logInfo(key string, err error) {
	if s.h.log != nil {
		s.h.log.Infow(key, "err", err, "email", s.email)
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}
