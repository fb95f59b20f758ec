package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/usecase"
	xlogger "AdPulse/pkg/logger"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
	liveReadLimit  = 4 << 10
)

// liveCommand is a client frame: {"period":"month"} or {"action":"refresh"}.
type liveCommand struct {
	Period string `json:"period,omitempty"`
	Action string `json:"action,omitempty"`
}

type liveFrame struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Snapshot  *usecase.Snapshot `json:"snapshot,omitempty"`
	Code      string            `json:"code,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// LiveHandler pushes dashboard snapshots over a WebSocket on a fixed interval.
type LiveHandler struct {
	logger    *xlogger.Logger
	sessions  *usecase.SessionManager
	dashboard *usecase.DashboardUseCase
	interval  time.Duration
	upgrader  websocket.Upgrader
}

func NewLiveHandler(logger *xlogger.Logger, sessions *usecase.SessionManager, dashboard *usecase.DashboardUseCase, interval time.Duration) *LiveHandler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LiveHandler{
		logger:    logger,
		sessions:  sessions,
		dashboard: dashboard,
		interval:  interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *LiveHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/dashboard", h.Serve)
}

func (h *LiveHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already replied
		h.logger.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	sess := h.sessions.Resolve(c.QueryParam("session"))
	keyword := c.QueryParam("period")
	if keyword == "" {
		keyword = string(sess.Period())
	}
	if keyword == "" {
		keyword = string(models.PeriodWeek)
	}
	h.logger.Info("live session connected", xlogger.String("session", sess.ID), xlogger.String("remote", c.RealIP()))

	cmds := make(chan liveCommand, 4)
	go h.readLoop(ctx, cancel, conn, cmds)

	keyword = h.push(ctx, conn, sess, keyword)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	ping := time.NewTicker(livePingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("live session closed", xlogger.String("session", sess.ID))
			return nil
		case cmd := <-cmds:
			if cmd.Period != "" {
				keyword = cmd.Period
			}
			keyword = h.push(ctx, conn, sess, keyword)
		case <-ticker.C:
			keyword = h.push(ctx, conn, sess, keyword)
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				cancel()
			}
		}
	}
}

// push refreshes the session and writes the result. It returns the keyword
// to keep using, which falls back to the session period when keyword was
// rejected.
func (h *LiveHandler) push(ctx context.Context, conn *websocket.Conn, sess *usecase.Session, keyword string) string {
	frame := liveFrame{Type: "snapshot", SessionID: sess.ID}
	snap, err := h.dashboard.Refresh(ctx, sess, keyword)
	if err != nil {
		aerr := toAppError("live", err)
		frame.Type, frame.Code, frame.Message = "error", aerr.Code, aerr.Message
		if p := sess.Period(); p != "" {
			keyword = string(p)
		} else {
			keyword = string(models.PeriodWeek)
		}
	} else {
		frame.Snapshot = snap
	}

	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if werr := conn.WriteJSON(frame); werr != nil {
		h.logger.Debug("live write failed", xlogger.String("session", sess.ID), xlogger.Error(werr))
	}
	return keyword
}

func (h *LiveHandler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out chan<- liveCommand) {
	defer cancel()
	conn.SetReadLimit(liveReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("live read failed", xlogger.Error(err))
			}
			return
		}
		var cmd liveCommand
		if err := json.Unmarshal(b, &cmd); err != nil {
			// ignore frames that are not commands
			continue
		}
		if cmd.Period == "" && cmd.Action != "refresh" {
			continue
		}
		select {
		case out <- cmd:
		case <-ctx.Done():
			return
		}
	}
}
