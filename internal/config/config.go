// Package config provides configuration management for the samarth service.
//
// Configuration is layered, lowest priority first: code defaults, base.yaml,
// <environment>.yaml, then environment variables. The result is validated
// with struct tags and a few cross-field rules.
package config

import (
	"net"
	"strconv"
	"time"
)

// Environment is the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Dataset source kinds.
const (
	SourceMemory   = "memory"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceDynamoDB = "dynamodb"
	SourceS3       = "s3"
)

// Config is the complete application configuration.
type Config struct {
	Environment Environment `yaml:"environment" validate:"required,oneof=development staging production"`
	Server      Server      `yaml:"server"`
	Dataset     Dataset     `yaml:"dataset"`
	AWS         AWS         `yaml:"aws"`
	Logging     Logging     `yaml:"logging"`
	Metrics     Metrics     `yaml:"metrics"`
	Tracing     Tracing     `yaml:"tracing"`
	CORS        CORS        `yaml:"cors"`

	// LoadedFrom lists the sources applied, in order.
	LoadedFrom []string `yaml:"-"`
}

// Server configures the HTTP server.
type Server struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gt=0"`
	MaxRequestSize  int64         `yaml:"max_request_size" validate:"gt=0"`
}

// Dataset selects and configures the dataset source.
type Dataset struct {
	Source string `yaml:"source" validate:"required,oneof=memory file sqlite postgres dynamodb s3"`
	// Path of the YAML/JSON document for the file source.
	Path string `yaml:"path" validate:"required_if=Source file"`
	// DSN for the sqlite and postgres sources.
	DSN string `yaml:"dsn" validate:"required_if=Source sqlite,required_if=Source postgres"`
	// Table for the dynamodb source.
	Table string `yaml:"table" validate:"required_if=Source dynamodb"`
	// Bucket and Key locate the document for the s3 source.
	Bucket string `yaml:"bucket" validate:"required_if=Source s3"`
	Key    string `yaml:"key" validate:"required_if=Source s3"`
	// Watch reloads the file source when it changes.
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce" validate:"gte=0"`
	LoadTimeout   time.Duration `yaml:"load_timeout" validate:"gt=0"`
	Breaker       Breaker       `yaml:"breaker"`
}

// Breaker configures the circuit breaker around remote sources.
type Breaker struct {
	MaxRequests      uint32        `yaml:"max_requests" validate:"gte=1"`
	Interval         time.Duration `yaml:"interval" validate:"gte=0"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	FailureThreshold float64       `yaml:"failure_threshold" validate:"gt=0,lte=1"`
	MinRequests      uint32        `yaml:"min_requests" validate:"gte=1"`
}

// AWS configures the SDK clients used by the dynamodb and s3 sources.
type AWS struct {
	Region string `yaml:"region"`
	// Endpoint overrides the service endpoint (LocalStack, MinIO).
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	PathStyle bool   `yaml:"path_style"`
}

// Logging configures zap.
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required_if=Enabled true"`
	Path      string `yaml:"path" validate:"omitempty,startswith=/"`
}

// Tracing configures OpenTelemetry spans.
type Tracing struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name" validate:"required_if=Enabled true"`
}

// CORS configures cross-origin access for the browser front end.
type CORS struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age" validate:"gte=0"`
}

// IsProduction reports whether the configuration targets production.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// Address is the host:port the HTTP server listens on.
func (s Server) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
