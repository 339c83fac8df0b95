package readiness

import (
	"reflect"
	"time"

	"github.com/juju/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrorHandler receives failures of background refreshes.
type ErrorHandler func(err error)

// Builder creates a Probe.
//
// Every tunable starts at its default, see DefaultConfig.
type Builder struct {
	check   Check
	cfg     Config
	clock   clock.Clock
	logger  *zap.Logger
	metrics Metrics
	onError ErrorHandler
}

func NewBuilder(check Check) *Builder {
	b := &Builder{
		check: check,
		cfg:   DefaultConfig(),
	}

	return b
}

func (b *Builder) WithCheck(check Check) *Builder {
	b.check = check

	return b
}

// WithMinSampleInterval sets the age below which Sample reuses the cached value.
func (b *Builder) WithMinSampleInterval(d time.Duration) *Builder {
	b.cfg.MinSampleInterval = d

	return b
}

// WithBlockingMaxAttempts sets the attempt budget of BlockingWait.
func (b *Builder) WithBlockingMaxAttempts(n int) *Builder {
	b.cfg.BlockingMaxAttempts = n

	return b
}

// WithAttemptTimeout bounds how long BlockingWait waits for a single check.
func (b *Builder) WithAttemptTimeout(d time.Duration) *Builder {
	b.cfg.AttemptTimeout = d

	return b
}

// WithRetryDelay sets the pause between two BlockingWait attempts.
func (b *Builder) WithRetryDelay(d time.Duration) *Builder {
	b.cfg.RetryDelay = d

	return b
}

// WithConfig applies the non-zero fields of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	if cfg.MinSampleInterval != 0 {
		b.cfg.MinSampleInterval = cfg.MinSampleInterval
	}

	if cfg.BlockingMaxAttempts != 0 {
		b.cfg.BlockingMaxAttempts = cfg.BlockingMaxAttempts
	}

	if cfg.AttemptTimeout != 0 {
		b.cfg.AttemptTimeout = cfg.AttemptTimeout
	}

	if cfg.RetryDelay != 0 {
		b.cfg.RetryDelay = cfg.RetryDelay
	}

	return b
}

func (b *Builder) WithClock(c clock.Clock) *Builder {
	b.clock = c

	return b
}

func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l

	return b
}

func (b *Builder) WithMetrics(m Metrics) *Builder {
	b.metrics = m

	return b
}

// WithErrorHandler installs the handler for failed background refreshes.
// By default failures are logged at error level.
func (b *Builder) WithErrorHandler(h ErrorHandler) *Builder {
	b.onError = h

	return b
}

// Build validates the configuration and creates the Probe.
// The probe starts as not ready.
func (b *Builder) Build() (*Probe, error) {
	if isNilCheck(b.check) {
		return nil, errors.Wrap(ErrConfiguration, "check is nil")
	}

	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Probe{
		check:               b.check,
		clock:               b.clock,
		logger:              b.logger,
		metrics:             b.metrics,
		onError:             b.onError,
		minSampleInterval:   b.cfg.MinSampleInterval,
		blockingMaxAttempts: b.cfg.BlockingMaxAttempts,
		attemptTimeout:      b.cfg.AttemptTimeout,
		retryDelay:          b.cfg.RetryDelay,
	}

	if p.clock == nil {
		p.clock = clock.WallClock
	}

	if p.logger == nil {
		p.logger = zap.NewNop()
	}

	if p.metrics == nil {
		p.metrics = nopMetrics{}
	}

	if p.onError == nil {
		p.onError = func(err error) {
			p.logger.Error("readiness refresh failed", zap.Error(err))
		}
	}

	initial := &Sample{Ready: false, ObservedAt: p.clock.Now()}
	p.sample.Store(initial)

	return p, nil
}

// isNilCheck also catches a nil CheckFunc or nil pointer stored in the interface.
func isNilCheck(check Check) bool {
	if check == nil {
		return true
	}

	v := reflect.ValueOf(check)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// MustBuild uses Build and panics on an invalid configuration.
func (b *Builder) MustBuild() *Probe {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}

	return p
}
