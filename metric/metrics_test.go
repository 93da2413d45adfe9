package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	m.RecordPass("closure", time.Millisecond)
	m.RecordBuild("ok", 3)
	m.RecordLogEntry("warning")
	m.RecordGenerated(10)
}

func TestRecordMethods(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.RecordBuild("ok", 3)
	m.RecordBuild("error", 0)
	m.RecordLogEntry("critical")
	m.RecordLogEntry("critical")
	m.RecordGenerated(7)
	m.RecordPass("closure", 2*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LogEntries.WithLabelValues("critical")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.GeneratedClasses))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SourcesLoaded))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PassDuration))
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestServerHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.RecordBuild("ok", 1)

	srv := httptest.NewServer(NewServer(":0", "", reg).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "semonto_builds_total")

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
