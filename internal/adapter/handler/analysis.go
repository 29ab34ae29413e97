package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analysis/errors"
	dto "github.com/johnquangdev/meeting-analysis/internal/adapter/dto/analysis"
	"github.com/johnquangdev/meeting-analysis/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/internal/usecase/export"
	"github.com/johnquangdev/meeting-analysis/pkg/middleware"
	pkgvalidator "github.com/johnquangdev/meeting-analysis/pkg/validator"
)

// AnalysisService is the use case behind the analysis endpoints
type AnalysisService interface {
	Submit(ctx context.Context, input *entities.RawInput) (string, error)
	Get(ctx context.Context, runID string) (*entities.AnalysisRun, error)
}

// Analysis handles analysis run endpoints
type Analysis struct {
	service        AnalysisService
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisService, logger *zap.Logger, maxUploadBytes int64) *Analysis {
	return &Analysis{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Submit starts an analysis run
// @Summary      Submit a recording or transcript
// @Description  Accepts a multipart "file" upload or a "text" field and starts a background analysis run
// @Tags         Analyses
// @Accept       multipart/form-data,json
// @Produce      json
// @Success      202  {object}  analysis.SubmitResponse
// @Failure      400  {object}  common.ErrorResponse
// @Router       /analyses [post]
func (h *Analysis) Submit(c echo.Context) error {
	input, err := h.readInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	runID, err := h.service.Submit(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessStatus(h.logger, c, http.StatusAccepted, dto.SubmitResponse{
		RunID:  runID,
		Status: string(entities.RunStatusPending),
	})
}

// readInput builds a RawInput from a multipart upload or a text payload. The
// upload is buffered because the run outlives the request.
func (h *Analysis) readInput(c echo.Context) (*entities.RawInput, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		switch {
		case err == nil:
			if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
				return nil, errors.ErrInvalidArgument(fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes))
			}
			f, err := fh.Open()
			if err != nil {
				return nil, errors.ErrInvalidPayload().WithDetail("file", err.Error())
			}
			defer f.Close()

			data, err := io.ReadAll(f)
			if err != nil {
				return nil, errors.ErrInvalidPayload().WithDetail("file", err.Error())
			}
			if len(data) == 0 {
				return nil, errors.ErrInvalidArgument("file is empty")
			}

			name := c.FormValue("file_name")
			if name == "" {
				name = filepath.Base(fh.Filename)
			}
			contentType := fh.Header.Get(echo.HeaderContentType)
			if contentType == "" {
				contentType = http.DetectContentType(data)
			}
			return entities.NewFileInput(name, bytes.NewReader(data), int64(len(data)), contentType), nil
		case err != http.ErrMissingFile:
			return nil, errors.ErrInvalidPayload().WithDetail("file", err.Error())
		}
	}

	var req dto.SubmitTextRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.ErrInvalidPayload().WithDetail("reason", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		appErr := errors.ErrInvalidArgument("either a file or text is required")
		for field, tag := range pkgvalidator.Fields(err) {
			appErr = appErr.WithDetail(field, tag)
		}
		return nil, appErr
	}
	return entities.NewTextInput(req.Text, req.FileName), nil
}

// Get returns a run snapshot
// @Summary      Get analysis run
// @Tags         Analyses
// @Produce      json
// @Param        id   path      string  true  "Run ID"
// @Success      200  {object}  analysis.RunResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /analyses/{id} [get]
func (h *Analysis) Get(c echo.Context) error {
	run, ok := middleware.RunFromContext(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRunNotFound(c.Param("id")))
	}
	return HandleSuccess(h.logger, c, presenter.ToRunResponse(run))
}

// Export renders the result of a completed run
// @Summary      Export analysis report
// @Tags         Analyses
// @Produce      plain,json,application/pdf
// @Param        id        path   string  true   "Run ID"
// @Param        format    query  string  false  "text|markdown|json|pdf"
// @Param        sections  query  string  false  "Comma separated sections"
// @Success      200
// @Failure      409  {object}  common.ErrorResponse
// @Router       /analyses/{id}/export [get]
func (h *Analysis) Export(c echo.Context) error {
	run, ok := middleware.RunFromContext(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRunNotFound(c.Param("id")))
	}

	var q dto.ExportQuery
	if err := c.Bind(&q); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload().WithDetail("reason", err.Error()))
	}
	if err := c.Validate(&q); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidExportFormat(q.Format))
	}

	format, err := export.ParseFormat(q.Format)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	sel, err := export.ParseSections(q.Sections)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	body, err := export.Render(run.Result, format, sel)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("📄 Report exported",
			zap.String("run_id", run.ID),
			zap.String("format", string(format)),
			zap.Int("bytes", len(body)),
		)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.FileName(run.Result, format)))
	return c.Blob(http.StatusOK, format.ContentType(), body)
}
