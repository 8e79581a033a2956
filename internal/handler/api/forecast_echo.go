package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"PricePulse/internal/domain/models"
	domrepo "PricePulse/internal/domain/repository"
	"PricePulse/internal/service/ratelimit"
	"PricePulse/internal/usecase"
	xhttp "PricePulse/pkg/http"
	xlogger "PricePulse/pkg/logger"
)

// ForecastEchoHandler exposes the forecasting core over Echo.
type ForecastEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.ForecastingUseCase
	series  *usecase.SeriesUseCase
	limiter *ratelimit.Limiter
}

func NewForecastEchoHandler(logger *xlogger.Logger, uc *usecase.ForecastingUseCase, series *usecase.SeriesUseCase) *ForecastEchoHandler {
	return &ForecastEchoHandler{logger: logger, uc: uc, series: series, limiter: ratelimit.New()}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/train", h.Train)
	g.GET("/forecast", h.Forecast)
	g.GET("/market", h.Market)
	g.POST("/pricing", h.Pricing)
	g.GET("/insights", h.Insights)
	g.GET("/report", h.Report)
	g.GET("/correlation", h.Correlation)
	g.GET("/series", h.Series)
	g.GET("/symbols", h.Symbols)
	g.GET("/models", h.Models)

	e.GET("/healthz", h.Health)
}

// Train is rate limited per client: training a learned model is the most
// expensive operation the service exposes.
func (h *ForecastEchoHandler) Train(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), 5, 0.2) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "training rate limit exceeded")
	}

	req := &models.TrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	kind, err := models.ParseModelKind(req.Model)
	if err != nil {
		return h.domainError(c, err)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.uc.TrainModel(c.Request().Context(), req.Symbol, kind, req.N, tf)
	if err != nil {
		h.logger.Error("train usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	kind, err := models.ParseModelKind(req.Model)
	if err != nil {
		return h.domainError(c, err)
	}

	res, err := h.uc.Forecast(c.Request().Context(), req.Symbol, kind, req.Horizon)
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Market(c echo.Context) error {
	req := &models.MarketRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.uc.AnalyzeMarket(c.Request().Context(), req.Symbol, req.N, tf)
	if err != nil {
		h.logger.Error("market usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Pricing(c echo.Context) error {
	req := &models.PricingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	strategy, err := models.ParseStrategy(req.Strategy)
	if err != nil {
		return h.domainError(c, err)
	}
	kind, err := models.ParseModelKind(req.Model)
	if err != nil {
		return h.domainError(c, err)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.uc.RecommendPricing(c.Request().Context(), req.Symbol, strategy, kind, req.CurrentPrice, req.Horizon, req.N, tf)
	if err != nil {
		h.logger.Error("pricing usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Insights(c echo.Context) error {
	req := &models.InsightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	kind, err := models.ParseModelKind(req.Model)
	if err != nil {
		return h.domainError(c, err)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.uc.Insights(c.Request().Context(), req.Symbol, kind, req.Horizon, req.N, tf)
	if err != nil {
		h.logger.Error("insights usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	strategy, err := models.ParseStrategy(req.Strategy)
	if err != nil {
		return h.domainError(c, err)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	var symbols []string
	for _, s := range strings.Split(req.Symbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	res, err := h.uc.Report(c.Request().Context(), symbols, strategy, models.ModelLearned, 7, req.N, tf)
	if err != nil {
		h.logger.Error("report usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Correlation(c echo.Context) error {
	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	corr, err := h.uc.Correlation(c.Request().Context(), req.SymbolA, req.SymbolB, req.N, tf)
	if err != nil {
		h.logger.Error("correlation usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol_a":    req.SymbolA,
		"symbol_b":    req.SymbolB,
		"correlation": corr,
	})
}

func (h *ForecastEchoHandler) Series(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.AddDate(-1, 0, 0))
	to := xhttp.ParseTimeDefault(req.To, now)

	res, err := h.series.GetSeries(c.Request().Context(), usecase.GetSeriesParams{
		Symbol:    req.Symbol,
		From:      from,
		To:        to,
		Timeframe: domrepo.NormalizeTimeframe(req.TF),
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.Error("series usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Symbols(c echo.Context) error {
	symbols, err := h.series.Symbols(c.Request().Context())
	if err != nil {
		h.logger.Error("symbols usecase error", xlogger.Error(err))
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, symbols)
}

func (h *ForecastEchoHandler) Models(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Models())
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// domainError maps typed domain errors onto HTTP statuses. Bad input is 400,
// data or training shortfalls are 422, a missing trained model is 404.
func (h *ForecastEchoHandler) domainError(c echo.Context, err error) error {
	var invalid *models.InvalidConfigurationError
	if errors.As(err, &invalid) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(invalid.Error()).WithError(err))
	}
	var insufficient *models.InsufficientDataError
	if errors.As(err, &insufficient) {
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(insufficient.Error()).WithError(err))
	}
	var training *models.ModelTrainingError
	if errors.As(err, &training) {
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(training.Error()).WithError(err))
	}
	var untrained *models.ModelNotTrainedError
	if errors.As(err, &untrained) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(untrained.Error()).WithError(err))
	}
	return xhttp.AppErrorResponse(c, err)
}
