package readiness

import (
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultMinSampleInterval   = 5 * time.Second
	DefaultBlockingMaxAttempts = 10
	DefaultAttemptTimeout      = time.Second
	DefaultRetryDelay          = time.Second
)

// Config holds the tunables of a Probe.
// Zero fields are left at their defaults when applied through Builder.WithConfig.
type Config struct {
	MinSampleInterval   time.Duration `mapstructure:"minSampleInterval" json:"minSampleInterval"`
	BlockingMaxAttempts int           `mapstructure:"blockingMaxAttempts" json:"blockingMaxAttempts"`
	AttemptTimeout      time.Duration `mapstructure:"attemptTimeout" json:"attemptTimeout"`
	RetryDelay          time.Duration `mapstructure:"retryDelay" json:"retryDelay"`
}

func DefaultConfig() Config {
	return Config{
		MinSampleInterval:   DefaultMinSampleInterval,
		BlockingMaxAttempts: DefaultBlockingMaxAttempts,
		AttemptTimeout:      DefaultAttemptTimeout,
		RetryDelay:          DefaultRetryDelay,
	}
}

// Validate returns an ErrConfiguration wrapped error for the first invalid field.
func (c Config) Validate() error {
	if c.MinSampleInterval < 0 {
		return errors.Wrapf(ErrConfiguration, "min sample interval must not be negative, got %s", c.MinSampleInterval)
	}

	if c.BlockingMaxAttempts < 1 {
		return errors.Wrapf(ErrConfiguration, "blocking max attempts must be positive, got %d", c.BlockingMaxAttempts)
	}

	if c.AttemptTimeout <= 0 {
		return errors.Wrapf(ErrConfiguration, "attempt timeout must be positive, got %s", c.AttemptTimeout)
	}

	if c.RetryDelay < 0 {
		return errors.Wrapf(ErrConfiguration, "retry delay must not be negative, got %s", c.RetryDelay)
	}

	return nil
}
