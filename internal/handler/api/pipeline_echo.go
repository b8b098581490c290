package api

import (
	"encoding/json"
	"errors"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/regress"
	"StockCast/internal/usecase"
	xcache "StockCast/pkg/cache"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

// PipelineEchoHandler exposes the prediction pipeline over HTTP.
type PipelineEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.PredictionPipeline
	queue    queue.QueueService // optional, enables async leaderboard
	cache    xcache.Service     // optional, serves async leaderboard results
}

func NewPipelineEchoHandler(logger *xlogger.Logger, pipeline *usecase.PredictionPipeline) *PipelineEchoHandler {
	return &PipelineEchoHandler{logger: logger, pipeline: pipeline}
}

// SetQueue wires the async leaderboard path.
func (h *PipelineEchoHandler) SetQueue(q queue.QueueService, cache xcache.Service) {
	h.queue = q
	h.cache = cache
}

func (h *PipelineEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/evaluate", h.Evaluate)
	g.POST("/forecast", h.Forecast)
	g.GET("/models", h.Models)
	g.POST("/leaderboard", h.Leaderboard)
	g.GET("/leaderboard", h.LeaderboardResult)
	g.GET("/recent", h.Recent)
}

func (h *PipelineEchoHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.pipeline.Evaluate(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("evaluate usecase error", xlogger.Error(err))
		return h.pipelineError(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *PipelineEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.pipeline.Forecast(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return h.pipelineError(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

// Models lists the registry names a request may ask for.
func (h *PipelineEchoHandler) Models(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string][]string{"models": regress.Names()})
}

// Leaderboard evaluates every model. With async=true and a queue wired, the
// run is enqueued and the client polls GET /api/leaderboard for the result.
func (h *PipelineEchoHandler) Leaderboard(c echo.Context) error {
	req := &models.LeaderboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Async && h.queue != nil {
		if err := h.queue.PublishMessage(c.Request().Context(), usecase.LeaderboardJobType, req); err != nil {
			h.logger.Error("leaderboard enqueue error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.AcceptedResponse(c, map[string]string{"status": "queued"})
	}

	board, err := h.pipeline.Leaderboard(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("leaderboard usecase error", xlogger.Error(err))
		return h.pipelineError(c, err)
	}
	return xhttp.SuccessResponse(c, board)
}

// LeaderboardResult fetches a finished async leaderboard run.
func (h *PipelineEchoHandler) LeaderboardResult(c echo.Context) error {
	req := &models.LeaderboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.cache == nil {
		return xhttp.NotFoundResponse(c, "async leaderboard not enabled")
	}

	var raw string
	if err := h.cache.Get(c.Request().Context(), usecase.LeaderboardResultKey(req), &raw); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("result not ready"))
	}
	var board models.Leaderboard
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		h.logger.Error("leaderboard result decode error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, board)
}

func (h *PipelineEchoHandler) Recent(c echo.Context) error {
	req := &models.RecentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	bars, err := h.pipeline.Recent(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("recent usecase error", xlogger.Error(err))
		return h.pipelineError(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"symbol": req.Symbol, "bars": bars})
}

// pipelineError maps domain sentinels to client errors; everything else is a
// server-side failure.
func (h *PipelineEchoHandler) pipelineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientHistory),
		errors.Is(err, models.ErrInvalidSeries),
		errors.Is(err, models.ErrUnknownModel):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	default:
		// Internals stay out of the response body; the cause travels on the
		// error for logging.
		return xhttp.AppErrorResponse(c, xhttp.InternalError("pipeline failure").WithError(err))
	}
}
