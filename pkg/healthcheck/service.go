package healthcheck

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mpdred/readiness/pkg/readiness"
)

type Service interface {
	ExecuteAllProbes(ctx context.Context) []ExecutionResult

	// ExecuteProbes executes the check of the Probe(s) and updates the per probe metrics.
	ExecuteProbes(ctx context.Context, probes ...Probe) []ExecutionResult

	// ExecuteProbesByKind uses ExecuteProbes on all the probes of this ProbeKind.
	ExecuteProbesByKind(ctx context.Context, kind ProbeKind) []ExecutionResult

	// CheckFor folds all the probes of this ProbeKind into one readiness.Check.
	//
	// The probes are looked up on every call, so probes added later are included.
	CheckFor(kind ProbeKind) readiness.CheckFunc
}

type service struct {
	executor       Executor
	metricsService MetricsService
	probeStore     ProbeStore
}

func (s service) ExecuteAllProbes(ctx context.Context) []ExecutionResult {
	probes := s.probeStore.GetAll()

	return s.ExecuteProbes(ctx, probes...)
}

func (s service) ExecuteProbes(ctx context.Context, probes ...Probe) []ExecutionResult {
	executionResults := s.executor.Execute(ctx, probes)

	s.metricsService.UpdateGauge(executionResults...)

	return executionResults
}

func (s service) ExecuteProbesByKind(ctx context.Context, kind ProbeKind) []ExecutionResult {
	probes := s.probeStore.GetByKind(kind)

	return s.ExecuteProbes(ctx, probes...)
}

func (s service) CheckFor(kind ProbeKind) readiness.CheckFunc {
	return func(ctx context.Context) (bool, error) {
		ready := true

		for _, r := range s.ExecuteProbesByKind(ctx, kind) {
			if r.Err != nil {
				return false, errors.Wrapf(r.Err, "probe %q", r.Probe.GetName())
			}

			if !r.Ready {
				ready = false
			}
		}

		return ready, nil
	}
}

func NewService(probeStore ProbeStore, executor Executor, metricsService MetricsService) Service {
	if executor == nil {
		executor = NewExecutor()
	}

	if metricsService == nil {
		metricsService = NewNoOpMetricsService()
	}

	s := &service{
		executor:       executor,
		metricsService: metricsService,
		probeStore:     probeStore,
	}

	return s
}
