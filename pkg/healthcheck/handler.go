package healthcheck

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/mpdred/readiness/pkg/readiness"
)

// Sampler is the read side of a readiness.Probe.
type Sampler interface {
	Sample() readiness.Sample
}

type probeReport struct {
	Name  string    `json:"name"`
	Kind  ProbeKind `json:"kind"`
	Ready bool      `json:"ready"`
	Err   string    `json:"err,omitempty"`
	Took  string    `json:"took"`
}

// SampleHandler answers 200 when the cached sample is ready and 503 otherwise.
//
// It never runs a check itself. JSON is returned for ?format=json or an
// Accept: application/json header, plain text otherwise.
func SampleHandler(s Sampler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sample := s.Sample()

		status := http.StatusOK
		if !sample.Ready {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(r) {
			WriteJSON(w, status, sample)
			return
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status)))
	}
}

// DefaultHealthTimeout bounds one HealthHandler request.
const DefaultHealthTimeout = 10 * time.Second

// HealthHandler runs every probe of the service and reports each result as JSON.
//
// Unlike SampleHandler it runs the checks on every request, so each call
// costs one round trip per dependency. Keep it off the path polled by the
// orchestrator.
func HealthHandler(s Service) http.HandlerFunc {
	return HealthHandlerWithTimeout(s, DefaultHealthTimeout)
}

// HealthHandlerWithTimeout is HealthHandler with the probes bounded by timeout.
func HealthHandlerWithTimeout(s Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rr := s.ExecuteAllProbes(ctx)

		status := http.StatusOK
		reports := make([]probeReport, 0, len(rr))
		for _, res := range rr {
			report := probeReport{
				Name:  res.Probe.GetName(),
				Kind:  res.Probe.GetKind(),
				Ready: res.Healthy(),
				Took:  res.Took.String(),
			}

			if res.Err != nil {
				report.Err = res.Err.Error()
			}

			if !report.Ready {
				status = http.StatusServiceUnavailable
			}

			reports = append(reports, report)
		}

		WriteJSON(w, status, reports)
	}
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}

	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
