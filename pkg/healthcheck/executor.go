package healthcheck

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Executor interface {
	Execute(ctx context.Context, probes []Probe) []ExecutionResult
}

type ExecutionResult struct {
	Probe Probe
	Ready bool
	Err   error
	Took  time.Duration
}

// Healthy reports whether the probe ran without error and was ready.
func (r ExecutionResult) Healthy() bool {
	return r.Err == nil && r.Ready
}

type executor struct{}

// Execute runs every probe concurrently and returns the results in the order of probes.
// A panicking check is reported as an ErrCheckFailed result.
func (e executor) Execute(ctx context.Context, probes []Probe) []ExecutionResult {
	var wg sync.WaitGroup

	rr := make([]ExecutionResult, len(probes))

	wg.Add(len(probes))

	for i, p := range probes {
		go func(i int, p Probe) {
			defer wg.Done()

			start := time.Now()

			defer func() {
				if r := recover(); r != nil {
					rr[i] = ExecutionResult{
						Probe: p,
						Err:   errors.Wrapf(ErrCheckFailed, "panic: %v", r),
						Took:  time.Since(start),
					}
				}
			}()

			ready, err := p.Execute(ctx)

			rr[i] = ExecutionResult{
				Probe: p,
				Ready: ready,
				Err:   err,
				Took:  time.Since(start),
			}
		}(i, p)
	}

	wg.Wait()

	return rr
}

func NewExecutor() Executor {
	var e Executor = &executor{}

	return e
}
