package readiness

import "github.com/pkg/errors"

var (
	ErrConfiguration      = errors.New("readiness: invalid configuration")
	ErrCheckFailure       = errors.New("readiness: check failed")
	ErrCheckTimeout       = errors.New("readiness: check timed out")
	ErrReadinessExhausted = errors.New("readiness: all readiness checks failed")
	ErrInterrupted        = errors.New("readiness: blocking wait interrupted")
)
