package middleware

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// RunContextKey is the echo context key holding the loaded run.
const RunContextKey = "analysis_run"

// RunGetter loads a run by ID.
type RunGetter interface {
	Get(ctx context.Context, runID string) (*entities.AnalysisRun, error)
}

// RequireRun middleware: load the run named by the :id path parameter
func RequireRun(runs RunGetter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			runID := c.Param("id")
			if runID == "" {
				return c.JSON(http.StatusBadRequest, common.ErrorResponse{
					Code:    appErrors.ErrorCode_INVALID_ARGUMENT.String(),
					Message: "run ID is required",
				})
			}
			run, err := runs.Get(c.Request().Context(), runID)
			if err != nil {
				return respondError(c, err)
			}
			c.Set(RunContextKey, run)
			return next(c)
		}
	}
}

// RequireCompletedRun middleware: only allow runs that finished successfully.
// Must be chained after RequireRun.
func RequireCompletedRun() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			run, ok := RunFromContext(c)
			if !ok {
				return respondError(c, appErrors.ErrInternal(stdErrors.New("run not loaded")))
			}
			if run.Status != entities.RunStatusCompleted || run.Result == nil {
				return respondError(c, appErrors.ErrRunNotReady(run.ID, string(run.Status)))
			}
			return next(c)
		}
	}
}

// RunFromContext returns the run stored by RequireRun.
func RunFromContext(c echo.Context) (*entities.AnalysisRun, bool) {
	run, ok := c.Get(RunContextKey).(*entities.AnalysisRun)
	return run, ok && run != nil
}

func respondError(c echo.Context, err error) error {
	var appErr appErrors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = appErrors.ErrInternal(err)
	}
	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
