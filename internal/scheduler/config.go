package scheduler

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultInterval = 15 * time.Minute
	DefaultFlex     = 5 * time.Minute
)

type Config struct {
	Enabled  bool
	Interval time.Duration
	Flex     time.Duration
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Interval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Flex, validation.Min(time.Duration(0)), validation.Max(c.Interval)),
	)
}

func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{
		Enabled:  true,
		Interval: DefaultInterval,
		Flex:     DefaultFlex,
	}

	if v := os.Getenv("CHECK_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CHECK_ENABLED: %w", err)
		}
		cfg.Enabled = enabled
	}

	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CHECK_INTERVAL: %w", err)
		}
		cfg.Interval = interval
	}

	if v := os.Getenv("CHECK_FLEX"); v != "" {
		flex, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CHECK_FLEX: %w", err)
		}
		cfg.Flex = flex
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid check schedule: %w", err)
	}
	return cfg, nil
}
