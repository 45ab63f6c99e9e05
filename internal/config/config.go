// Package config provides application configuration loaded from environment
// variables (and an optional .env file) with defaults and validation. It
// centralizes store selection, seeding volumes, logging, metrics output and
// observability settings.
package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/tbourn/articora-seed/internal/sysutil"
)

// Flag is a boolean that accepts 1/true/yes/y/on (case-insensitive) as true
// and anything else as false.
type Flag bool

// Decode implements envconfig.Decoder.
func (f *Flag) Decode(v string) error {
	*f = Flag(sysutil.IsTruthy(v))
	return nil
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     Flag    `envconfig:"ENABLED" default:"false"`                           // OTEL_ENABLED
	Endpoint    string  `envconfig:"EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`   // OTEL_EXPORTER_OTLP_ENDPOINT
	Insecure    Flag    `envconfig:"EXPORTER_OTLP_INSECURE" default:"true"`             // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  `envconfig:"SERVICE_NAME" default:"articora-seed"`              // OTEL_SERVICE_NAME
	Sampler     string  `envconfig:"TRACES_SAMPLER" default:"parentbased_traceidratio"` // OTEL_TRACES_SAMPLER
	SampleRatio float64 `envconfig:"TRACES_SAMPLER_ARG" default:"1.0"`                  // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Sampler names accepted in OTEL_TRACES_SAMPLER.
const (
	SamplerAlwaysOn                = "always_on"
	SamplerAlwaysOff               = "always_off"
	SamplerTraceIDRatio            = "traceidratio"
	SamplerParentBasedAlwaysOn     = "parentbased_always_on"
	SamplerParentBasedAlwaysOff    = "parentbased_always_off"
	SamplerParentBasedTraceIDRatio = "parentbased_traceidratio"
)

// SeedConfig sets how many rows the count-driven generators attempt.
type SeedConfig struct {
	Users           int `envconfig:"USERS" default:"20"`            // SEED_USERS
	Sources         int `envconfig:"SOURCES" default:"50"`          // SEED_SOURCES
	ContactRequests int `envconfig:"CONTACT_REQUESTS" default:"15"` // SEED_CONTACT_REQUESTS
	Chats           int `envconfig:"CHATS" default:"10"`            // SEED_CHATS (confirmed contacts used)
	Reports         int `envconfig:"REPORTS" default:"10"`          // SEED_REPORTS
}

// Config holds all configuration values for the application.
type Config struct {
	// Store
	DBDriver          string `envconfig:"DB_DRIVER" default:"sqlite"`          // sqlite|postgres
	DBPath            string `envconfig:"DB_PATH" default:"articora-data.db"`  // SQLite file
	DBDSN             string `envconfig:"DB_DSN"`                              // PostgreSQL DSN
	AutoMigrate       Flag   `envconfig:"AUTO_MIGRATE" default:"false"`        // create/upgrade tables first
	SeedReferenceData Flag   `envconfig:"SEED_REFERENCE_DATA" default:"false"` // insert categories & source types
	LogSQL            Flag   `envconfig:"LOG_SQL" default:"false"`             // GORM statement logging

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error|fatal|panic
	LogPretty Flag   `envconfig:"LOG_PRETTY" default:"false"`

	// Seeding volumes
	Seed SeedConfig `envconfig:"SEED"`

	// Metrics: node_exporter textfile written at the end of the run
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE"`

	// Observability
	OTEL OTELConfig `envconfig:"OTEL"`
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads an optional .env file, then environment variables, applies
// defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}

	// --- normalization ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.OTEL.Sampler = strings.ToLower(strings.TrimSpace(cfg.OTEL.Sampler))

	return cfg, cfg.Validate()
}

// Validate checks the invariants Load relies on.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	switch c.DBDriver {
	case "sqlite":
		if strings.TrimSpace(c.DBPath) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(c.DBDSN) == "" {
			return errors.New("DB_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if c.Seed.Users < 0 || c.Seed.Sources < 0 || c.Seed.ContactRequests < 0 ||
		c.Seed.Chats < 0 || c.Seed.Reports < 0 {
		return errors.New("SEED_* counts must be >= 0")
	}
	switch c.OTEL.Sampler {
	case SamplerAlwaysOn, SamplerAlwaysOff, SamplerTraceIDRatio,
		SamplerParentBasedAlwaysOn, SamplerParentBasedAlwaysOff, SamplerParentBasedTraceIDRatio:
	default:
		return errors.New("OTEL_TRACES_SAMPLER must be one of: always_on, always_off, traceidratio, " +
			"parentbased_always_on, parentbased_always_off, parentbased_traceidratio")
	}
	if c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// WithPathArg returns c with DB_PATH replaced by the first positional
// argument, when one is given.
func (c Config) WithPathArg(args []string) Config {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	c.DBPath = sysutil.FirstNonEmpty(arg, c.DBPath)
	return c
}
