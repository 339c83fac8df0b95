package readiness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysReady(context.Context) (bool, error) { return true, nil }

func TestBuilder_Defaults(t *testing.T) {
	p, err := NewBuilder(CheckFunc(alwaysReady)).Build()
	require.NoError(t, err)

	assert.Equal(t, DefaultMinSampleInterval, p.minSampleInterval)
	assert.Equal(t, DefaultBlockingMaxAttempts, p.blockingMaxAttempts)
	assert.Equal(t, DefaultAttemptTimeout, p.attemptTimeout)
	assert.Equal(t, DefaultRetryDelay, p.retryDelay)
	assert.NotNil(t, p.clock)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.metrics)
	assert.NotNil(t, p.onError)
}

func TestBuilder_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		builder *Builder
	}{
		{
			name:    "nil check",
			builder: NewBuilder(nil),
		},
		{
			name:    "nil CheckFunc",
			builder: NewBuilder(CheckFunc(nil)),
		},
		{
			name:    "nil pointer check",
			builder: NewBuilder((*countingCheck)(nil)),
		},
		{
			name:    "negative sample interval",
			builder: NewBuilder(CheckFunc(alwaysReady)).WithMinSampleInterval(-time.Second),
		},
		{
			name:    "zero attempts",
			builder: NewBuilder(CheckFunc(alwaysReady)).WithBlockingMaxAttempts(0),
		},
		{
			name:    "zero attempt timeout",
			builder: NewBuilder(CheckFunc(alwaysReady)).WithAttemptTimeout(0),
		},
		{
			name:    "negative retry delay",
			builder: NewBuilder(CheckFunc(alwaysReady)).WithRetryDelay(-time.Millisecond),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.builder.Build()
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrConfiguration))

			assert.Panics(t, func() { tc.builder.MustBuild() })
		})
	}
}

func TestBuilder_WithConfig(t *testing.T) {
	p := NewBuilder(CheckFunc(alwaysReady)).
		WithConfig(Config{
			MinSampleInterval:   30 * time.Second,
			BlockingMaxAttempts: 3,
		}).
		MustBuild()

	assert.Equal(t, 30*time.Second, p.minSampleInterval)
	assert.Equal(t, 3, p.blockingMaxAttempts)
	assert.Equal(t, DefaultAttemptTimeout, p.attemptTimeout, "zero fields keep their defaults")
	assert.Equal(t, DefaultRetryDelay, p.retryDelay)
}

func TestBuilder_WithCheckReplacesCheck(t *testing.T) {
	p := NewBuilder(nil).WithCheck(CheckFunc(alwaysReady)).WithBlockingMaxAttempts(1).MustBuild()

	require.NoError(t, p.BlockingWait(context.Background()))
	assert.True(t, p.Sample().Ready)
}

func TestFromErrorFunc(t *testing.T) {
	ready, err := FromErrorFunc(func(context.Context) error { return nil }).Ready(context.Background())
	require.NoError(t, err)
	assert.True(t, ready)

	ready, err = FromErrorFunc(func(context.Context) error { return errUnreachable }).Ready(context.Background())
	assert.ErrorIs(t, err, errUnreachable)
	assert.False(t, ready)
}

func TestSample_IsStale(t *testing.T) {
	now := time.Now()
	s := Sample{Ready: true, ObservedAt: now.Add(-2 * time.Second)}

	assert.Equal(t, 2*time.Second, s.Age(now))
	assert.True(t, s.IsStale(now, time.Second))
	assert.False(t, s.IsStale(now, 2*time.Second))
	assert.False(t, s.IsStale(now, time.Minute))
}
