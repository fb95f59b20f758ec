package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"AdPulse/internal/domain/models"
	domsvc "AdPulse/internal/domain/service"
	"AdPulse/internal/services/chart"
	"AdPulse/internal/services/render"
	"AdPulse/internal/usecase"
	xhttp "AdPulse/pkg/http"
	xlogger "AdPulse/pkg/logger"
)

// HeaderSessionID carries the dashboard session between requests.
const HeaderSessionID = "X-Session-ID"

type periodInfo struct {
	Key     models.Period `json:"key"`
	Buckets int           `json:"buckets"`
	Bucket  models.Bucket `json:"bucket"`
}

// DashboardEchoHandler serves dashboard snapshots and charts.
type DashboardEchoHandler struct {
	logger    *xlogger.Logger
	sessions  *usecase.SessionManager
	dashboard *usecase.DashboardUseCase
	renderer  domsvc.Renderer
}

func NewDashboardEchoHandler(logger *xlogger.Logger, sessions *usecase.SessionManager, dashboard *usecase.DashboardUseCase, renderer domsvc.Renderer) *DashboardEchoHandler {
	registerValidators()
	return &DashboardEchoHandler{logger: logger, sessions: sessions, dashboard: dashboard, renderer: renderer}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/periods", h.Periods)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/charts/:slot", h.Chart)
	g.GET("/charts/:slot/png", h.ChartPNG)
}

func (h *DashboardEchoHandler) Periods(c echo.Context) error {
	out := make([]periodInfo, 0, len(models.Periods()))
	for _, p := range models.Periods() {
		out = append(out, periodInfo{Key: p, Buckets: p.BucketCount(), Bucket: p.Bucket()})
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	start := time.Now()
	defer observe("dashboard", start)

	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Session == "" {
		req.Session = c.Request().Header.Get(HeaderSessionID)
	}
	sess := h.sessions.Resolve(req.Session)
	c.Response().Header().Set(HeaderSessionID, sess.ID)

	snap, err := h.dashboard.Refresh(c.Request().Context(), sess, req.Period)
	if err != nil {
		h.logger.Warn("dashboard refresh rejected", xlogger.String("session", sess.ID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError("dashboard", err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, snap)
}

func (h *DashboardEchoHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	cd, aerr := h.lookupChart(req)
	if aerr != nil {
		return xhttp.AppErrorResponse(c, aerr)
	}
	return xhttp.SuccessResponse(c, cd)
}

func (h *DashboardEchoHandler) ChartPNG(c echo.Context) error {
	start := time.Now()
	defer observe("chart_png", start)

	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	cd, aerr := h.lookupChart(req)
	if aerr != nil {
		return xhttp.AppErrorResponse(c, aerr)
	}

	var buf bytes.Buffer
	err := h.renderer.Render(&buf, cd.Traces, models.RenderOptions{
		Title:  cd.Title,
		Width:  req.Width,
		Height: req.Height,
	})
	if errors.Is(err, render.ErrNoTraces) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("chart %s has no data", cd.Slot))
	}
	if err != nil {
		h.logger.Error("chart render failed", xlogger.String("slot", cd.Slot), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError("chart_png", err))
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// lookupChart returns the chart applied in the requested session slot, or
// the slot placeholder when nothing was applied yet.
func (h *DashboardEchoHandler) lookupChart(req *models.ChartRequest) (models.ChartData, *xhttp.AppError) {
	if !knownSlot(req.Slot) {
		return models.ChartData{}, xhttp.NotFoundErrorf("unknown chart slot %q", req.Slot)
	}
	sess, ok := h.sessions.Get(req.Session)
	if !ok {
		return models.ChartData{}, xhttp.NotFoundError("session not found or expired")
	}
	if cd, ok := sess.Chart(req.Slot); ok {
		return cd, nil
	}
	return chart.Placeholder(req.Slot, chart.SlotTitle(req.Slot), nil), nil
}

func knownSlot(slot string) bool {
	for _, s := range chart.DashboardSlots() {
		if s == slot {
			return true
		}
	}
	for _, m := range chart.ForecastMetrics() {
		if chart.ForecastSlot(m) == slot {
			return true
		}
	}
	return false
}
