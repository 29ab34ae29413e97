package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(fallbacksTotal.WithLabelValues("duration"))
	RecordFallback("duration")
	assert.Equal(t, before+1, testutil.ToFloat64(fallbacksTotal.WithLabelValues("duration")))

	okBefore := testutil.ToFloat64(providerRequests.WithLabelValues("completion", "success"))
	errBefore := testutil.ToFloat64(providerRequests.WithLabelValues("completion", "error"))
	RecordProviderRequest("completion", nil)
	RecordProviderRequest("completion", errors.New("down"))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(providerRequests.WithLabelValues("completion", "success")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(providerRequests.WithLabelValues("completion", "error")))

	runsBefore := testutil.ToFloat64(runsTotal.WithLabelValues("completed"))
	RecordRun("completed")
	assert.Equal(t, runsBefore+1, testutil.ToFloat64(runsTotal.WithLabelValues("completed")))
}

func TestObserveStage(t *testing.T) {
	ObserveStage("transcribing", time.Now().Add(-time.Second))
	assert.Equal(t, 1, testutil.CollectAndCount(stageDuration))
}
