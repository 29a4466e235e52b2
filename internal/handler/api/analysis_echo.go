package api

import (
	"errors"
	"net/http"

	"StockLens/internal/domain/models"
	"StockLens/internal/usecase"
	xhttp "StockLens/pkg/http"
	xlogger "StockLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler serves the summary and analysis endpoints.
type AnalysisEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.AnalysisUseCase
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, uc *usecase.AnalysisUseCase) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{logger: logger, uc: uc}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/stock-data", h.StockData)
	g.POST("/analysis/:kind", h.Analysis)
}

// StockData handles POST /api/stock-data.
func (h *AnalysisEchoHandler) StockData(c echo.Context) error {
	req := &models.SummaryRequest{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, requestError(err))
	}

	res, err := h.uc.Summarize(c.Request().Context(), usecase.SummaryParams{
		Symbol:    req.Symbol,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Analysis handles POST /api/analysis/:kind.
func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, requestError(err))
	}

	res, err := h.uc.Handle(c.Request().Context(), usecase.AnalysisParams{
		Symbol:    req.Symbol,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Kind:      c.Param("kind"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) fail(c echo.Context, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("analysis request failed",
			xlogger.String("path", c.Path()),
			xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// requestError maps binder and validator failures onto domain errors.
func requestError(err error) error {
	var rerr *xhttp.RequestError
	if errors.As(err, &rerr) {
		if field, ok := rerr.FirstMissing(); ok {
			return models.MissingParameter(field)
		}
		return xhttp.BadRequestError(rerr.Error())
	}
	return err
}

// toAppError converts any error into the HTTP error shape.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var aerr *models.AnalysisError
	if errors.As(err, &aerr) {
		msg := aerr.Message
		if aerr.Kind.Status() >= http.StatusInternalServerError {
			msg = aerr.Error()
		}
		return xhttp.NewAppError(string(aerr.Kind), "", msg, aerr.Kind.Status()).
			WithSuggestions(aerr.Suggestions...).
			WithError(aerr.Err)
	}
	return xhttp.InternalError(err.Error()).
		WithSuggestions(models.GenericHint).
		WithError(err)
}
