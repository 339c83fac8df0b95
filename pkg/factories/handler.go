package factories

import (
	"net/http"
	"sort"

	"github.com/mpdred/readiness/pkg/healthcheck"
)

// NewMuxHandler mounts every endpoint, the metrics handler, and an index of both on "/".
func NewMuxHandler(endpoints []healthcheck.EndpointDefinition, metricsService healthcheck.MetricsService) *http.ServeMux {
	if metricsService == nil {
		metricsService = healthcheck.NewNoOpMetricsService()
	}

	index := make(map[string]string, len(endpoints)+1)

	mux := http.NewServeMux()
	for _, endpoint := range endpoints {
		mux.HandleFunc(endpoint.Endpoint, endpoint.HandleFunc)
		index[endpoint.Name] = endpoint.Endpoint
	}

	mux.Handle(healthcheck.MetricsEndpoint, metricsService.GetHandler())
	index[healthcheck.MetricsName] = healthcheck.MetricsEndpoint

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		healthcheck.WriteJSON(w, http.StatusOK, index)
	})

	return mux
}

// GetEndpointDefinitions binds each sampler to the endpoint of its kind.
//
// The health endpoint is bound to service, which runs every probe on each
// request with healthcheck.DefaultHealthTimeout; it is skipped when service
// is nil. The other endpoints only read the cached samples.
func GetEndpointDefinitions(samplers map[healthcheck.ProbeKind]healthcheck.Sampler, service healthcheck.Service) []healthcheck.EndpointDefinition {
	definitions := healthcheck.DefaultEndpointDefinitions()

	endpoints := make([]healthcheck.EndpointDefinition, 0, len(definitions))

	for kind, endpoint := range definitions {
		if kind == healthcheck.Health {
			if service == nil {
				continue
			}

			endpoint.HandleFunc = healthcheck.HealthHandler(service)
			endpoints = append(endpoints, endpoint)

			continue
		}

		sampler, ok := samplers[kind]
		if !ok || sampler == nil {
			continue
		}

		endpoint.HandleFunc = healthcheck.SampleHandler(sampler)
		endpoints = append(endpoints, endpoint)
	}

	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].Endpoint < endpoints[j].Endpoint
	})

	return endpoints
}
