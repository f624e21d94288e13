package newsapi

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2"
	DefaultCountry = "us"
	DefaultTimeout = 15 * time.Second
)

type Config struct {
	APIKey            string
	BaseURL           string
	Country           string
	Timeout           time.Duration
	RequestsPerMinute int
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Country, validation.Required, validation.Length(2, 2)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.RequestsPerMinute, validation.Min(0)),
	)
}

// LoadConfigFromEnv reads the NEWS_API_* variables. A missing key is not an error here:
// the client reports it on every call so the cache stays usable offline.
func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:  os.Getenv("NEWS_API_KEY"),
		BaseURL: os.Getenv("NEWS_API_BASE_URL"),
		Country: os.Getenv("NEWS_API_COUNTRY"),
		Timeout: DefaultTimeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = DefaultCountry
	}

	if v := os.Getenv("NEWS_API_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid NEWS_API_TIMEOUT: %w", err)
		}
		cfg.Timeout = timeout
	}

	if v := os.Getenv("NEWS_API_REQUESTS_PER_MINUTE"); v != "" {
		rpm, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid NEWS_API_REQUESTS_PER_MINUTE: %w", err)
		}
		cfg.RequestsPerMinute = rpm
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid news api config: %w", err)
	}
	return cfg, nil
}
