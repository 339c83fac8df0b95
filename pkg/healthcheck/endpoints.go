package healthcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labstack/echo/v4"
)

type EndpointDefinition struct {
	Name       string
	Endpoint   string
	HandleFunc func(w http.ResponseWriter, r *http.Request)
}

// GetHandleFuncForEchoServer returns a handlerfunc that is compatible with echo server (https://github.com/labstack/echo).
func (d EndpointDefinition) GetHandleFuncForEchoServer() echo.HandlerFunc {
	fn := func(c echo.Context) error {
		d.HandleFunc(c.Response(), c.Request())

		return nil
	}

	return fn
}

// GetHandleFuncForGinServer returns a handlerfunc that is compatible with gin (https://github.com/gin-gonic/gin).
func (d EndpointDefinition) GetHandleFuncForGinServer() gin.HandlerFunc {
	return func(c *gin.Context) {
		d.HandleFunc(c.Writer, c.Request)
	}
}

const (
	StartupName     = "startup"
	StartupEndpoint = "/startup"

	LivenessName     = "liveness"
	LivenessEndpoint = "/live"

	ReadinessName     = "readiness"
	ReadinessEndpoint = "/ready"

	HealthName     = "health"
	HealthEndpoint = "/health"

	MetricsName     = "metrics"
	MetricsEndpoint = "/metrics"
)

// DefaultEndpointDefinitions returns the endpoint of every ProbeKind, without handlers.
func DefaultEndpointDefinitions() map[ProbeKind]EndpointDefinition {
	return map[ProbeKind]EndpointDefinition{
		Startup: {
			Name:     StartupName,
			Endpoint: StartupEndpoint,
		},
		Liveness: {
			Name:     LivenessName,
			Endpoint: LivenessEndpoint,
		},
		Readiness: {
			Name:     ReadinessName,
			Endpoint: ReadinessEndpoint,
		},
		Health: {
			Name:     HealthName,
			Endpoint: HealthEndpoint,
		},
	}
}
