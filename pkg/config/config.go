// Package config loads the settings of a process that embeds readiness probes.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mpdred/readiness/pkg/readiness"
)

const envPrefix = "READINESS"

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// LumberjackConfig configures log file rotation.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

type MetricsConfig struct {
	Enable    bool   `mapstructure:"enable"`
	Namespace string `mapstructure:"namespace"`
}

type Config struct {
	HTTP    HTTPConfig       `mapstructure:"http"`
	Logging LoggingConfig    `mapstructure:"logging"`
	Metrics MetricsConfig    `mapstructure:"metrics"`
	Probe   readiness.Config `mapstructure:"probe"`
}

// Load reads a YAML, TOML or JSON file and READINESS_* environment overrides.
//
// With an empty path, READINESS_CONFIG is used, then readiness.yaml in the
// working directory or ./configs. A missing file is only an error when the
// path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		path = v.GetString("config")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("readiness")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.Probe.Validate(); err != nil {
		return nil, errors.Wrap(err, "probe config")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":5090")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.namespace", "app")

	v.SetDefault("probe.minSampleInterval", readiness.DefaultMinSampleInterval)
	v.SetDefault("probe.blockingMaxAttempts", readiness.DefaultBlockingMaxAttempts)
	v.SetDefault("probe.attemptTimeout", readiness.DefaultAttemptTimeout)
	v.SetDefault("probe.retryDelay", readiness.DefaultRetryDelay)
}
