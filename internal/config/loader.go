package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// CONFIGURATION LOADER
// ============================================================================

// Loader loads configuration from defaults, files and the environment.
type Loader struct {
	// basePath is the directory holding base.yaml and <environment>.yaml
	basePath    string
	environment Environment
	sources     []string
	getenv      func(string) string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithGetenv replaces os.Getenv, mostly for tests.
func WithGetenv(getenv func(string) string) LoaderOption {
	return func(l *Loader) { l.getenv = getenv }
}

// NewLoader creates a loader reading files from basePath.
func NewLoader(basePath string, env Environment, opts ...LoaderOption) *Loader {
	if basePath == "" {
		basePath = "config"
	}
	l := &Loader{
		basePath:    basePath,
		environment: env,
		getenv:      os.Getenv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load applies every layer and validates the result.
func (l *Loader) Load() (*Config, error) {
	l.sources = l.sources[:0]

	cfg := Default(l.environment)
	l.sources = append(l.sources, "defaults")

	if err := l.loadFile("base", cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load base config: %w", err)
	}

	envFile := strings.ToLower(string(l.environment))
	if err := l.loadFile(envFile, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s config: %w", envFile, err)
	}

	if err := l.loadEnvironmentVariables(cfg); err != nil {
		return nil, err
	}
	l.sources = append(l.sources, "environment")

	// The environment is chosen before files are read; files cannot change it.
	cfg.Environment = l.environment
	cfg.LoadedFrom = append([]string(nil), l.sources...)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays <name>.yaml, <name>.yml or <name>.json, whichever exists first.
// JSON is valid YAML, so a single decoder handles all three.
func (l *Loader) loadFile(name string, cfg *Config) error {
	for _, ext := range []string{"yaml", "yml", "json"} {
		path := filepath.Join(l.basePath, name+"."+ext)
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		err = decodeInto(f, cfg)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		l.sources = append(l.sources, path)
		return nil
	}
	return os.ErrNotExist
}

func decodeInto(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// loadEnvironmentVariables overlays environment variables, the highest
// priority source.
func (l *Loader) loadEnvironmentVariables(cfg *Config) error {
	var errs []error

	str := func(key string, dst *string) {
		if val := l.getenv(key); val != "" {
			*dst = val
		}
	}
	boolean := func(key string, dst *bool) {
		if val := l.getenv(key); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if val := l.getenv(key); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	list := func(key string, dst *[]string) {
		if val := l.getenv(key); val != "" {
			parts := strings.Split(val, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			*dst = out
		}
	}

	// Server configuration
	str("SERVER_HOST", &cfg.Server.Host)
	if val := l.getenv("SERVER_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("SERVER_PORT: %w", err))
		} else {
			cfg.Server.Port = port
		}
	}
	duration("REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)

	// Dataset configuration
	str("DATASET_SOURCE", &cfg.Dataset.Source)
	str("DATASET_PATH", &cfg.Dataset.Path)
	str("DATASET_DSN", &cfg.Dataset.DSN)
	str("DATASET_TABLE", &cfg.Dataset.Table)
	str("DATASET_BUCKET", &cfg.Dataset.Bucket)
	str("DATASET_KEY", &cfg.Dataset.Key)
	boolean("DATASET_WATCH", &cfg.Dataset.Watch)

	// AWS configuration
	str("AWS_REGION", &cfg.AWS.Region)
	str("AWS_ENDPOINT_URL", &cfg.AWS.Endpoint)

	// Observability
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	boolean("ENABLE_METRICS", &cfg.Metrics.Enabled)
	boolean("ENABLE_TRACING", &cfg.Tracing.Enabled)

	// CORS
	boolean("ENABLE_CORS", &cfg.CORS.Enabled)
	list("CORS_ALLOWED_ORIGINS", &cfg.CORS.AllowedOrigins)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment variables: %w", errors.Join(errs...))
	}
	return nil
}

// ============================================================================
// DEFAULTS
// ============================================================================

// Default returns a configuration that runs the demo without any files.
func Default(env Environment) *Config {
	cfg := &Config{
		Environment: env,
		Server: Server{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  10 * time.Second,
			MaxRequestSize:  64 * 1024,
		},
		Dataset: Dataset{
			Source:        SourceMemory,
			WatchDebounce: 500 * time.Millisecond,
			LoadTimeout:   30 * time.Second,
			Breaker: Breaker{
				MaxRequests:      1,
				Interval:         5 * time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 0.6,
				MinRequests:      3,
			},
		},
		AWS: AWS{
			Region: "ap-south-1",
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: "samarth",
			Path:      "/metrics",
		},
		Tracing: Tracing{
			ServiceName: "samarth",
		},
		CORS: CORS{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		},
	}
	if env == Development {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}
	if env == Production {
		cfg.CORS.AllowedOrigins = nil
	}
	return cfg
}

// GetEnvironment reads ENVIRONMENT, defaulting to development.
func GetEnvironment() Environment {
	switch Environment(strings.ToLower(os.Getenv("ENVIRONMENT"))) {
	case Production:
		return Production
	case Staging:
		return Staging
	default:
		return Development
	}
}

// Load loads configuration for the current environment from CONFIG_DIR
// (default ./config).
func Load() (*Config, error) {
	return NewLoader(os.Getenv("CONFIG_DIR"), GetEnvironment()).Load()
}
