// Package config loads the client configuration from a YAML file and FNE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/imrishuroy/fne-certify/internal/fne"
	"github.com/imrishuroy/fne-certify/internal/mapping"
	"github.com/imrishuroy/fne-certify/internal/transport"
)

// Modes and their default API base URLs.
const (
	ModeTest       = "test"
	ModeProduction = "production"

	TestBaseURL       = "https://fne-api-mock.test"
	ProductionBaseURL = "https://fne.dgi.gouv.ci/ws"
)

// Config is the full client configuration.
type Config struct {
	APIKey  string `yaml:"api_key" validate:"required"`
	BaseURL string `yaml:"base_url" validate:"required,url"`
	Mode    string `yaml:"mode" validate:"oneof=test production"`
	// Timeout is the request timeout in seconds.
	Timeout int    `yaml:"timeout" validate:"gte=1"`
	Locale  string `yaml:"locale" validate:"oneof=fr en"`

	Cache   CacheConfig   `yaml:"cache"`
	Retry   RetryConfig   `yaml:"retry"`
	Mapping MappingConfig `yaml:"mapping"`
	Storage StorageConfig `yaml:"storage"`
	Events  EventsConfig  `yaml:"events"`
	Metrics MetricsConfig `yaml:"metrics"`
	Worker  WorkerConfig  `yaml:"worker"`
}

// CacheConfig selects the response cache. TTL is in seconds; 0 stores
// forever.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     int    `yaml:"ttl" validate:"gte=0"`
	Backend string `yaml:"backend" validate:"oneof=memory dynamodb"`
	Table   string `yaml:"table" validate:"required_if=Backend dynamodb"`
}

type RetryConfig struct {
	MaxAttempts    int     `yaml:"max_attempts" validate:"gte=1"`
	InitialDelayMS int     `yaml:"initial_delay_ms" validate:"gte=0"`
	Multiplier     float64 `yaml:"multiplier" validate:"gte=1"`
}

// MappingConfig holds the custom field mapping of each document type.
type MappingConfig struct {
	Invoice  mapping.Config `yaml:"invoice"`
	Purchase mapping.Config `yaml:"purchase"`
	Refund   mapping.Config `yaml:"refund"`
}

// StorageConfig selects where certification audit rows go.
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"oneof=none dynamodb postgres"`
	Table  string `yaml:"table" validate:"required_if=Driver dynamodb"`
	DSN    string `yaml:"dsn" validate:"required_if=Driver postgres"`
}

type EventsConfig struct {
	QueueURL string `yaml:"queue_url" validate:"omitempty,url"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// WorkerConfig configures the queue consumer. An empty JobsTable disables
// duplicate-job detection.
type WorkerConfig struct {
	JobsTable string `yaml:"jobs_table"`
	// JobTTL is how long, in hours, a handled job blocks redeliveries.
	JobTTL int `yaml:"job_ttl" validate:"gte=1"`
}

// Default returns the configuration used for every unset value.
func Default() Config {
	return Config{
		Mode:    ModeTest,
		Timeout: 30,
		Locale:  "fr",
		Cache: CacheConfig{
			Enabled: true,
			TTL:     3600,
			Backend: "memory",
		},
		Retry: RetryConfig{
			MaxAttempts:    3,
			InitialDelayMS: 1000,
			Multiplier:     2.0,
		},
		Storage: StorageConfig{Driver: "none"},
		Worker:  WorkerConfig{JobTTL: 48},
	}
}

// Load reads path (skipped when empty), applies FNE_* overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL(cfg.Mode)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultBaseURL(mode string) string {
	if mode == ModeProduction {
		return ProductionBaseURL
	}
	return TestBaseURL
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		"FNE_API_KEY":           &cfg.APIKey,
		"FNE_BASE_URL":          &cfg.BaseURL,
		"FNE_MODE":              &cfg.Mode,
		"FNE_LOCALE":            &cfg.Locale,
		"FNE_CACHE_BACKEND":     &cfg.Cache.Backend,
		"FNE_CACHE_TABLE":       &cfg.Cache.Table,
		"FNE_STORAGE_DRIVER":    &cfg.Storage.Driver,
		"FNE_STORAGE_TABLE":     &cfg.Storage.Table,
		"FNE_STORAGE_DSN":       &cfg.Storage.DSN,
		"FNE_EVENTS_QUEUE_URL":  &cfg.Events.QueueURL,
		"FNE_METRICS_NAMESPACE": &cfg.Metrics.Namespace,
		"FNE_JOBS_TABLE":        &cfg.Worker.JobsTable,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"FNE_TIMEOUT":   &cfg.Timeout,
		"FNE_CACHE_TTL": &cfg.Cache.TTL,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := lookup("FNE_CACHE_ENABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid FNE_CACHE_ENABLED: %w", err)
		}
		cfg.Cache.Enabled = b
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate returns a *fne.ConfigError listing every invalid field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	fields := map[string][]string{}
	for _, fe := range verrs {
		name := fe.Namespace()
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		fields[name] = append(fields[name], message(fe))
	}
	return &fne.ConfigError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	}
	return "failed " + fe.Tag()
}

// IsProduction reports whether the production API is targeted.
func (c *Config) IsProduction() bool { return c.Mode == ModeProduction }

// RequestTimeout is Timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// CacheTTL is Cache.TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// JobTTL is Worker.JobTTL as a duration.
func (c *Config) JobTTL() time.Duration {
	return time.Duration(c.Worker.JobTTL) * time.Hour
}

// NeedsAWS reports whether any configured component talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.Cache.Backend == "dynamodb" ||
		c.Storage.Driver == "dynamodb" ||
		c.Events.QueueURL != "" ||
		c.Metrics.Namespace != "" ||
		c.Worker.JobsTable != ""
}

// RetryPolicy converts Retry for the transport.
func (c *Config) RetryPolicy() transport.RetryPolicy {
	return transport.RetryPolicy{
		MaxAttempts:  c.Retry.MaxAttempts,
		InitialDelay: time.Duration(c.Retry.InitialDelayMS) * time.Millisecond,
		Multiplier:   c.Retry.Multiplier,
	}
}
