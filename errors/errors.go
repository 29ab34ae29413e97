package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the application error type carried across component boundaries.
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying provider error.
func (e AppError) Unwrap() error {
	return e.Raw
}

// Kind reports how the pipeline treats this error.
func (e AppError) Kind() Kind {
	return KindOf(e.Code)
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

func newAppError(raw error, status int, code ErrorCode, message string) AppError {
	return AppError{
		Raw:       raw,
		HTTPCode:  status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf returns the ErrorCode of the first AppError in err's chain, or
// ErrorCode_INTERNAL when there is none.
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_INTERNAL
}

// HasCode reports whether err carries code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsFatal reports whether err must abort a pipeline run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(CodeOf(err)) == KindFatal
}

// General Errors
func ErrInternal(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTERNAL, "Internal server error")
}

func ErrInvalidArgument(message string) AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, message)
}

func ErrInvalidPayload() AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_PAYLOAD, "Invalid payload")
}

func ErrNotFound(resource string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_NOT_FOUND, fmt.Sprintf("%s not found", resource))
}

// Transport Errors
func ErrUploadFailed(err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_UPLOAD_FAILED, "Failed to upload media file")
}

func ErrTranscriptionRequestFailed(err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_TRANSCRIPTION_REQUEST_FAILED, "Transcription request failed")
}

// ErrTranscriptionFailed is raised when the provider reports the job in its error state.
func ErrTranscriptionFailed(providerError string) AppError {
	return newAppError(nil, http.StatusBadGateway, ErrorCode_TRANSCRIPTION_FAILED,
		fmt.Sprintf("Transcription failed: %s", providerError)).
		WithDetail("provider_error", providerError)
}

func ErrCompletionRequestFailed(err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_COMPLETION_REQUEST_FAILED, "Completion request failed")
}

// Pipeline Errors
func ErrTranscriptionUnrecoverable(err error) AppError {
	return newAppError(err, http.StatusUnprocessableEntity, ErrorCode_TRANSCRIPTION_UNRECOVERABLE,
		"Failed to transcribe audio. Please try again.")
}

func ErrNoAnalyzableText() AppError {
	return newAppError(nil, http.StatusUnprocessableEntity, ErrorCode_NO_ANALYZABLE_TEXT,
		"No transcript text available for analysis")
}

func ErrAnalysisParseFailed(analyzer string, err error) AppError {
	return newAppError(err, http.StatusUnprocessableEntity, ErrorCode_ANALYSIS_PARSE_FAILED,
		"Could not parse model reply").
		WithDetail("analyzer", analyzer)
}

// Run Errors
func ErrRunNotFound(runID string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_RUN_NOT_FOUND, "Analysis run not found").
		WithDetail("run_id", runID)
}

func ErrRunNotReady(runID, status string) AppError {
	return newAppError(nil, http.StatusConflict, ErrorCode_RUN_NOT_READY, "Analysis result is not ready").
		WithDetail("run_id", runID).
		WithDetail("status", status)
}

func ErrStoreFailed(operation string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_STORE_FAILED,
		fmt.Sprintf("Run store operation failed: %s", operation))
}

// Export Errors
func ErrInvalidExportFormat(format string) AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_EXPORT_FORMAT, "Unsupported export format").
		WithDetail("format", format)
}

func ErrExportFailed(format string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_EXPORT_FAILED, "Failed to export report").
		WithDetail("format", format)
}

// HTTPStatusOK represents a successful HTTP response.
func HTTPStatusOK(message string) AppError {
	return newAppError(nil, http.StatusOK, ErrorCode_HTTP_OK, message)
}
