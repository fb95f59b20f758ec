package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"AdPulse/internal/domain/models"
	domsvc "AdPulse/internal/domain/service"
	"AdPulse/internal/service/ratelimit"
	"AdPulse/internal/services/chart"
	"AdPulse/internal/usecase"
	xhttp "AdPulse/pkg/http"
	xlogger "AdPulse/pkg/logger"
)

type statsResponse struct {
	models.ModelStats
	SortedImportance []models.FeatureWeight `json:"sorted_importance"`
}

type trainAccepted struct {
	JobID string `json:"job_id"`
}

// MLEchoHandler exposes the prediction service through the dashboard.
type MLEchoHandler struct {
	logger    *xlogger.Logger
	sessions  *usecase.SessionManager
	forecast  *usecase.ForecastUseCase
	training  *usecase.TrainingUseCase
	stats     *usecase.StatsCache
	predictor domsvc.Predictor
	limiter   *ratelimit.Limiter
}

func NewMLEchoHandler(logger *xlogger.Logger, sessions *usecase.SessionManager, forecast *usecase.ForecastUseCase, training *usecase.TrainingUseCase, stats *usecase.StatsCache, predictor domsvc.Predictor, limiter *ratelimit.Limiter) *MLEchoHandler {
	registerValidators()
	return &MLEchoHandler{
		logger: logger, sessions: sessions, forecast: forecast, training: training,
		stats: stats, predictor: predictor, limiter: limiter,
	}
}

func (h *MLEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/ml")
	g.POST("/forecast", h.Forecast)
	g.GET("/stats", h.Stats)
	g.POST("/train", h.Train)
	g.GET("/train/:id", h.TrainStatus)
	g.POST("/recommendations", h.Recommendations)
	g.GET("/health", h.Health)
}

func (h *MLEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	defer observe("ml_forecast", start)

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Session == "" {
		req.Session = c.Request().Header.Get(HeaderSessionID)
	}
	sess := h.sessions.Resolve(req.Session)
	c.Response().Header().Set(HeaderSessionID, sess.ID)

	res, err := h.forecast.Forecast(c.Request().Context(), sess, req.DaysAhead)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError("ml_forecast", err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MLEchoHandler) Stats(c echo.Context) error {
	start := time.Now()
	defer observe("ml_stats", start)

	st, cached, err := h.stats.Get(c.Request().Context())
	if err != nil {
		h.logger.Warn("model stats failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError("ml_stats", err))
	}
	if cached {
		c.Response().Header().Set("X-Cache", "HIT")
	} else {
		c.Response().Header().Set("X-Cache", "MISS")
	}
	return xhttp.SuccessResponse(c, statsResponse{ModelStats: st, SortedImportance: chart.SortedImportance(st.FeatureImportance)})
}

func (h *MLEchoHandler) Train(c echo.Context) error {
	start := time.Now()
	defer observe("ml_train", start)

	req := &models.TrainRequest{}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, req); err != nil {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{Code: "ERR_BAD_REQUEST", Field: "async", Message: err.Error()}})
	}
	if ok, retry := h.limiter.Allow(c.RealIP()); !ok {
		h.logger.Warn("train rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, rateLimited(retry))
	}

	if req.Async {
		id, err := h.training.Enqueue(c.Request().Context(), "api")
		if err != nil {
			return xhttp.AppErrorResponse(c, toAppError("ml_train", err))
		}
		return xhttp.AcceptedResponse(c, trainAccepted{JobID: id})
	}

	res, err := h.training.Train(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError("ml_train", err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MLEchoHandler) TrainStatus(c echo.Context) error {
	st, err := h.training.Status(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError("ml_train_status", err))
	}
	return xhttp.SuccessResponse(c, st)
}

func (h *MLEchoHandler) Recommendations(c echo.Context) error {
	start := time.Now()
	defer observe("ml_recommendations", start)

	req := &models.RecommendationsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.forecast.Recommendations(c.Request().Context(), req.DaysAhead)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError("ml_recommendations", err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MLEchoHandler) Health(c echo.Context) error {
	res, err := h.predictor.Health(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError("ml_health", err))
	}
	return xhttp.SuccessResponse(c, res)
}
