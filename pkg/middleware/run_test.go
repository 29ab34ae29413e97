package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

type mapRuns map[string]*entities.AnalysisRun

func (m mapRuns) Get(_ context.Context, id string) (*entities.AnalysisRun, error) {
	if r, ok := m[id]; ok {
		return r, nil
	}
	return nil, appErrors.ErrRunNotFound(id)
}

func serve(t *testing.T, runs mapRuns, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/runs/:id", func(c echo.Context) error {
		run, ok := RunFromContext(c)
		require.True(t, ok)
		return c.String(http.StatusOK, run.ID)
	}, RequireRun(runs), RequireCompletedRun())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/"+id, nil))
	return rec
}

func TestRequireRun(t *testing.T) {
	done := entities.NewAnalysisRun(entities.NewTextInput("hi", ""))
	done.MarkAsCompleted(&entities.MeetingAnalysis{})
	pending := entities.NewAnalysisRun(entities.NewTextInput("hi", ""))
	runs := mapRuns{done.ID: done, pending.ID: pending}

	rec := serve(t, runs, done.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, done.ID, rec.Body.String())

	rec = serve(t, runs, pending.ID)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "RUN_NOT_READY")

	rec = serve(t, runs, "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "RUN_NOT_FOUND")
}
