package factories

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mpdred/readiness/pkg/healthcheck"
	"github.com/mpdred/readiness/pkg/readiness"
)

// NewSampledProbes builds one readiness.Probe per kind, each checking every
// probe of that kind registered in the service.
func NewSampledProbes(service healthcheck.Service, cfg readiness.Config, logger *zap.Logger, metricsService healthcheck.MetricsService, kinds ...healthcheck.ProbeKind) (map[healthcheck.ProbeKind]*readiness.Probe, error) {
	if service == nil {
		return nil, errors.Wrap(readiness.ErrConfiguration, "service is nil")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	if len(kinds) == 0 {
		kinds = []healthcheck.ProbeKind{healthcheck.Startup, healthcheck.Liveness, healthcheck.Readiness}
	}

	probes := make(map[healthcheck.ProbeKind]*readiness.Probe, len(kinds))
	for _, kind := range kinds {
		b := readiness.NewBuilder(service.CheckFor(kind)).
			WithConfig(cfg).
			WithLogger(logger.With(zap.String("kind", string(kind))))

		// only the readiness kind feeds the process wide readiness gauges
		if kind == healthcheck.Readiness && metricsService != nil {
			b.WithMetrics(metricsService)
		}

		p, err := b.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "%s probe", kind)
		}

		probes[kind] = p
	}

	return probes, nil
}

// Samplers converts the probes for GetEndpointDefinitions.
func Samplers(probes map[healthcheck.ProbeKind]*readiness.Probe) map[healthcheck.ProbeKind]healthcheck.Sampler {
	samplers := make(map[healthcheck.ProbeKind]healthcheck.Sampler, len(probes))
	for kind, p := range probes {
		samplers[kind] = p
	}

	return samplers
}
