package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpdred/readiness/pkg/readiness"
)

type staticSampler readiness.Sample

func (s staticSampler) Sample() readiness.Sample { return readiness.Sample(s) }

func TestSampleHandler(t *testing.T) {
	observedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		ready      bool
		target     string
		accept     string
		wantStatus int
		wantJSON   bool
	}{
		{name: "ready text", ready: true, target: "/ready", wantStatus: http.StatusOK},
		{name: "not ready text", ready: false, target: "/ready", wantStatus: http.StatusServiceUnavailable},
		{name: "query json", ready: true, target: "/ready?format=json", wantStatus: http.StatusOK, wantJSON: true},
		{name: "accept json", ready: false, target: "/ready", accept: "application/json", wantStatus: http.StatusServiceUnavailable, wantJSON: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := SampleHandler(staticSampler{Ready: tc.ready, ObservedAt: observedAt})

			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}
			rec := httptest.NewRecorder()

			h(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			if !tc.wantJSON {
				assert.Equal(t, http.StatusText(tc.wantStatus), rec.Body.String())
				return
			}

			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got readiness.Sample
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.ready, got.Ready)
			assert.True(t, observedAt.Equal(got.ObservedAt))
		})
	}
}

func TestHealthHandler(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		svc, _ := newTestService(t,
			NewProbe("db", readiness.CheckFunc(alwaysReady), Readiness),
			NewProbe("snitch", readiness.CheckFunc(alwaysReady), Liveness),
		)

		rec := httptest.NewRecorder()
		HealthHandler(svc)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var reports []probeReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
		require.Len(t, reports, 2)
		assert.Equal(t, "db", reports[0].Name)
		assert.Equal(t, Readiness, reports[0].Kind)
		assert.True(t, reports[0].Ready)
		assert.Empty(t, reports[0].Err)
	})

	t.Run("one failing", func(t *testing.T) {
		svc, _ := newTestService(t,
			NewProbe("db", readiness.CheckFunc(failing), Readiness),
			NewProbe("snitch", readiness.CheckFunc(alwaysReady), Liveness),
		)

		rec := httptest.NewRecorder()
		HealthHandler(svc)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var reports []probeReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
		require.Len(t, reports, 2)
		assert.False(t, reports[0].Ready)
		assert.Equal(t, errDown.Error(), reports[0].Err)
		assert.True(t, reports[1].Ready)
	})
}

func TestHealthHandlerWithTimeout(t *testing.T) {
	waitsForCancel := func(ctx context.Context) (bool, error) {
		<-ctx.Done()

		return false, ctx.Err()
	}

	svc, _ := newTestService(t,
		NewProbe("slow", readiness.CheckFunc(waitsForCancel), Readiness),
	)

	start := time.Now()
	rec := httptest.NewRecorder()
	HealthHandlerWithTimeout(svc, 20*time.Millisecond)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var reports []probeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, context.DeadlineExceeded.Error(), reports[0].Err)
}

func TestEndpointDefinition_Adapters(t *testing.T) {
	d := EndpointDefinition{
		Name:       ReadinessName,
		Endpoint:   ReadinessEndpoint,
		HandleFunc: SampleHandler(staticSampler{Ready: false}),
	}

	t.Run("echo", func(t *testing.T) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, ReadinessEndpoint, nil), rec)

		require.NoError(t, d.GetHandleFuncForEchoServer()(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("gin", func(t *testing.T) {
		gin.SetMode(gin.TestMode)

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, ReadinessEndpoint, nil)

		d.GetHandleFuncForGinServer()(c)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestDefaultEndpointDefinitions(t *testing.T) {
	defs := DefaultEndpointDefinitions()
	require.Len(t, defs, 4)

	assert.Equal(t, StartupEndpoint, defs[Startup].Endpoint)
	assert.Equal(t, LivenessEndpoint, defs[Liveness].Endpoint)
	assert.Equal(t, ReadinessEndpoint, defs[Readiness].Endpoint)
	assert.Equal(t, HealthEndpoint, defs[Health].Endpoint)

	defs[Readiness] = EndpointDefinition{}
	assert.Equal(t, ReadinessEndpoint, DefaultEndpointDefinitions()[Readiness].Endpoint, "returns a fresh map")
}

func TestPrometheusMetricsService_ObservesProbe(t *testing.T) {
	_, prom := newTestService(t)

	p := readiness.NewBuilder(readiness.CheckFunc(alwaysReady)).
		WithBlockingMaxAttempts(1).
		WithMetrics(prom).
		MustBuild()

	require.NoError(t, p.BlockingWait(context.Background()))

	rec := httptest.NewRecorder()
	prom.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsEndpoint, nil))

	body := rec.Body.String()
	assert.Contains(t, body, "test_readiness_ready 1")
	assert.Contains(t, body, `test_readiness_checks_total{outcome="ready",path="blocking"} 1`)
	assert.Contains(t, body, "test_readiness_sample_timestamp_seconds")
	assert.Contains(t, body, `test_readiness_check_duration_seconds_count{path="blocking"} 1`)
}
