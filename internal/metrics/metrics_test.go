package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/apod-edge/internal/metrics"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	route := func(*http.Request) string { return "/" }

	h := m.Middleware(route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?fail=1", nil))

	require.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/", "502")))
}

func TestMiddlewareDefaultsToOKWithoutWrite(t *testing.T) {
	m := metrics.New(nil)
	h := m.Middleware(func(*http.Request) string { return "/" })(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodHead, "/", nil))
	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("HEAD", "/", "200")))
}

func TestOutcomesAndInfo(t *testing.T) {
	m := metrics.New(nil)
	m.Init("api", "12", "test")
	m.CountOutcome(metrics.OutcomeOK)
	m.CountOutcome(metrics.OutcomeSelectionEmpty)
	m.CountOutcome(metrics.OutcomeSelectionEmpty)
	m.ObserveUpstream("apod_host", 20*time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.PipelineOutcomes.WithLabelValues(metrics.OutcomeOK)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.PipelineOutcomes.WithLabelValues(metrics.OutcomeSelectionEmpty)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ApplicationInfo.WithLabelValues("api", "12", "test")))
	require.Equal(t, 1, testutil.CollectAndCount(m.UpstreamDuration))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := metrics.New(nil)
	m.Init("api", "12", "test")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(body), `apod_application_info{environment="test",service="api",version="12"} 1`)
}
