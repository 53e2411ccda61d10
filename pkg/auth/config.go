package auth

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the authorization subsystem settings.
type Config struct {
	// Enabled switches authentication on. When false, sessions get the
	// disabled-auth subject and every check succeeds.
	Enabled bool `mapstructure:"enabled"`
	// RolesFile points at the roles/permissions definition file loaded
	// at startup.
	RolesFile string `mapstructure:"roles_file"`
	// MinPasswordLength is the credential policy enforced on password
	// changes.
	MinPasswordLength int `mapstructure:"min_password_length"`

	RateLimit RateLimiterConfig `mapstructure:"rate_limit"`
}

// DefaultConfig returns the default subsystem settings.
func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		MinPasswordLength: 8,
		RateLimit:         *DefaultRateLimiterConfig(),
	}
}

// LoadConfig reads the auth section of a configuration file. Settings not
// present in the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	cfg := DefaultConfig()
	v.SetDefault("auth.enabled", cfg.Enabled)
	v.SetDefault("auth.min_password_length", cfg.MinPasswordLength)
	v.SetDefault("auth.rate_limit.enabled", cfg.RateLimit.Enabled)
	v.SetDefault("auth.rate_limit.max_attempts", cfg.RateLimit.MaxAttempts)
	v.SetDefault("auth.rate_limit.window_size", cfg.RateLimit.WindowSize)
	v.SetDefault("auth.rate_limit.lockout_period", cfg.RateLimit.LockoutPeriod)
	v.SetDefault("auth.rate_limit.max_tracked", cfg.RateLimit.MaxTracked)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	if err := v.UnmarshalKey("auth", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling auth config")
	}
	return cfg, nil
}
