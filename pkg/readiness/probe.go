// Package readiness caches the result of an expensive readiness check.
//
// Sample is meant to be called on every health probe request: it returns the
// cached value immediately and, once the value is older than the configured
// interval, starts at most one background refresh. BlockingWait is meant to be
// called once at startup and retries the check until it succeeds or the
// attempt budget runs out.
//
//	p := readiness.NewBuilder(readiness.FromErrorFunc(db.PingContext)).
//		WithMinSampleInterval(10 * time.Second).
//		WithBlockingMaxAttempts(30).
//		MustBuild()
//
//	if err := p.BlockingWait(ctx); err != nil {
//		log.Fatal(err)
//	}
package readiness

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/juju/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Probe holds the last known readiness Sample of a process.
// It is safe for concurrent use.
type Probe struct {
	check   Check
	clock   clock.Clock
	logger  *zap.Logger
	metrics Metrics
	onError ErrorHandler

	minSampleInterval   time.Duration
	blockingMaxAttempts int
	attemptTimeout      time.Duration
	retryDelay          time.Duration

	sample          atomic.Pointer[Sample]
	refreshInFlight atomic.Bool
}

type checkResult struct {
	ready bool
	err   error
}

// SetReady publishes ready as the current state without running the check.
func (p *Probe) SetReady(ready bool) {
	p.publish(ready)
}

// Sample returns the cached readiness state without blocking.
//
// When the cached value is stale a single background refresh is started; its
// result only becomes visible to later calls.
func (p *Probe) Sample() Sample {
	current := p.sample.Load()

	if current.IsStale(p.clock.Now(), p.minSampleInterval) && p.refreshInFlight.CompareAndSwap(false, true) {
		go p.refresh()
	}

	return *current
}

// BlockingWait runs the check until it reports ready or the attempt budget is spent.
//
// The outcome is published on every return path. It returns an error wrapping
// ErrReadinessExhausted when no attempt succeeded, and one wrapping
// ErrInterrupted and the context error when ctx is done before that.
func (p *Probe) BlockingWait(ctx context.Context) error {
	ready := false
	defer func() {
		p.SetReady(ready)
	}()

	maxAttempts := p.blockingMaxAttempts

	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		ok, err := p.attempt(ctx)

		switch {
		case err == nil && ok:
			ready = true
			p.logger.Debug("readiness check succeeded", zap.Int("attempt", i), zap.Int("maxAttempts", maxAttempts))

			return nil
		case ctx.Err() != nil:
			return p.interrupted(ctx, i)
		case err != nil:
			lastErr = err
			p.logger.Debug("readiness check attempt failed", zap.Error(err), zap.Int("attempt", i), zap.Int("maxAttempts", maxAttempts))
		default:
			lastErr = nil
			p.logger.Debug("readiness check was negative", zap.Int("attempt", i), zap.Int("maxAttempts", maxAttempts))
		}

		if i == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return p.interrupted(ctx, i)
		case <-p.clock.After(p.retryDelay):
		}
	}

	if lastErr != nil {
		return errors.Wrapf(ErrReadinessExhausted, "%d attempt(s), last: %v", maxAttempts, lastErr)
	}

	return errors.Wrapf(ErrReadinessExhausted, "%d attempt(s), last: negative", maxAttempts)
}

func (p *Probe) interrupted(ctx context.Context, attempt int) error {
	p.logger.Warn("readiness blocking wait interrupted", zap.Error(ctx.Err()), zap.Int("attempt", attempt))

	return fmt.Errorf("%w at attempt %d/%d: %w", ErrInterrupted, attempt, p.blockingMaxAttempts, ctx.Err())
}

// attempt runs the check once and waits at most attemptTimeout for it.
// The check context is cancelled on return.
func (p *Probe) attempt(ctx context.Context) (bool, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := p.clock.Now()
	done := make(chan checkResult, 1)

	go func() {
		ready, err := p.run(attemptCtx)
		done <- checkResult{ready: ready, err: err}
	}()

	select {
	case r := <-done:
		p.metrics.ObserveCheck(BlockingPath, outcomeOf(r.ready, r.err), p.clock.Now().Sub(start))

		return r.ready, r.err
	case <-p.clock.After(p.attemptTimeout):
		p.metrics.ObserveCheck(BlockingPath, OutcomeTimeout, p.clock.Now().Sub(start))

		return false, errors.Wrapf(ErrCheckTimeout, "no result within %s", p.attemptTimeout)
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (p *Probe) refresh() {
	start := p.clock.Now()
	ready, err := p.run(context.Background())
	took := p.clock.Now().Sub(start)

	p.publish(ready && err == nil)
	p.refreshInFlight.Store(false)

	p.metrics.ObserveCheck(RefreshPath, outcomeOf(ready, err), took)

	if err != nil {
		p.onError(err)
	}
}

// run invokes the check, turning errors and panics into ErrCheckFailure.
func (p *Probe) run(ctx context.Context) (ready bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ready = false
			err = errors.Wrapf(ErrCheckFailure, "panic: %v", r)
		}
	}()

	ready, err = p.check.Ready(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrCheckFailure, err)
	}

	return ready, nil
}

func (p *Probe) publish(ready bool) {
	s := &Sample{Ready: ready, ObservedAt: p.clock.Now()}

	previous := p.sample.Swap(s)
	if previous != nil && previous.Ready != ready {
		p.logger.Info("readiness changed", zap.Bool("from", previous.Ready), zap.Bool("to", ready))
	}

	p.metrics.ObserveSample(*s)
}

func outcomeOf(ready bool, err error) Outcome {
	switch {
	case err != nil:
		return OutcomeError
	case ready:
		return OutcomeReady
	default:
		return OutcomeNotReady
	}
}
