package readiness

import "context"

// Check reports whether a dependency is ready.
// It may fail instead of producing a result; a failure counts as not ready.
type Check interface {
	Ready(ctx context.Context) (bool, error)
}

// CheckFunc adapts a plain function to Check.
type CheckFunc func(ctx context.Context) (bool, error)

func (f CheckFunc) Ready(ctx context.Context) (bool, error) {
	return f(ctx)
}

// FromErrorFunc turns a ping style function into a CheckFunc.
// A nil error means ready, any error is reported as a check failure.
func FromErrorFunc(fn func(context.Context) error) CheckFunc {
	return func(ctx context.Context) (bool, error) {
		if err := fn(ctx); err != nil {
			return false, err
		}

		return true, nil
	}
}
