package readiness

import "time"

// CheckPath tells which code path ran a check.
type CheckPath string

const (
	RefreshPath  CheckPath = "refresh"
	BlockingPath CheckPath = "blocking"
)

// Outcome is the classified result of a single check run.
type Outcome string

const (
	OutcomeReady    Outcome = "ready"
	OutcomeNotReady Outcome = "not_ready"
	OutcomeError    Outcome = "error"
	OutcomeTimeout  Outcome = "timeout"
)

// Metrics receives observations from a Probe.
// Implementations must be safe for concurrent use and must not block.
type Metrics interface {
	ObserveSample(s Sample)
	ObserveCheck(path CheckPath, outcome Outcome, took time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveSample(Sample) {}

func (nopMetrics) ObserveCheck(CheckPath, Outcome, time.Duration) {}
