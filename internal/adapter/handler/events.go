package handler

import (
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/pkg/middleware"
)

const (
	defaultEventInterval = 500 * time.Millisecond
	eventWriteTimeout    = 5 * time.Second
)

// Events streams run progress over a websocket
type Events struct {
	service  AnalysisService
	logger   *zap.Logger
	upgrader websocket.Upgrader
	interval time.Duration
}

// NewEventsHandler creates a progress stream handler. An empty origin list
// accepts same-host requests only.
func NewEventsHandler(service AnalysisService, logger *zap.Logger, allowedOrigins []string) *Events {
	return &Events{
		service:  service,
		logger:   logger,
		interval: defaultEventInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// Stream sends the current snapshot, then one event per change, and closes
// once the run is terminal.
// @Summary      Stream analysis progress
// @Tags         Analyses
// @Param        id   path  string  true  "Run ID"
// @Router       /analyses/{id}/events [get]
func (h *Events) Stream(c echo.Context) error {
	run, ok := middleware.RunFromContext(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRunNotFound(c.Param("id")))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("websocket upgrade failed", zap.String("run_id", run.ID), zap.Error(err))
		}
		return nil
	}
	defer conn.Close()

	// Drain client frames so close and ping control messages are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	var last *entities.AnalysisRun
	for {
		if changed(last, run) {
			if err := h.send(conn, run); err != nil {
				return nil
			}
			last = run
		}
		if run.Status.IsTerminal() {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(run.Status)),
				time.Now().Add(eventWriteTimeout))
			return nil
		}

		select {
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		next, err := h.service.Get(ctx, run.ID)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("progress stream lost run", zap.String("run_id", run.ID), zap.Error(err))
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "run unavailable"),
				time.Now().Add(eventWriteTimeout))
			return nil
		}
		run = next
	}
}

func (h *Events) send(conn *websocket.Conn, run *entities.AnalysisRun) error {
	_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
	if err := conn.WriteJSON(presenter.ToProgressEvent(run)); err != nil {
		if h.logger != nil && !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			h.logger.Warn("progress event write failed", zap.String("run_id", run.ID), zap.Error(err))
		}
		return err
	}
	return nil
}

func changed(prev, cur *entities.AnalysisRun) bool {
	return prev == nil || prev.Status != cur.Status || prev.Progress != cur.Progress
}
