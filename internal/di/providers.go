package di

import (
	"context"
	"fmt"

	"samarth/internal/application/answer"
	"samarth/internal/application/commands"
	cmdbus "samarth/internal/application/commands/bus"
	"samarth/internal/application/ports"
	"samarth/internal/application/queries"
	"samarth/internal/application/queries/bus"
	"samarth/internal/config"
	"samarth/internal/domain/intent"
	infradataset "samarth/internal/infrastructure/dataset"
	"samarth/internal/infrastructure/observability"
	"samarth/internal/infrastructure/persistence/breaker"
	ddbstore "samarth/internal/infrastructure/persistence/dynamodb"
	"samarth/internal/infrastructure/persistence/file"
	"samarth/internal/infrastructure/persistence/memory"
	s3store "samarth/internal/infrastructure/persistence/s3"
	"samarth/internal/infrastructure/persistence/sqlstore"
	"samarth/internal/interfaces/http/handlers"
	"samarth/internal/interfaces/http/rest"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/wire"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ============================================================================
// PROVIDER SETS
// ============================================================================

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	InfrastructureProviders,
	ApplicationProviders,
	InterfaceProviders,
	wire.Struct(new(Container), "*"),
)

// InfrastructureProviders provides logging, telemetry and dataset storage.
var InfrastructureProviders = wire.NewSet(
	ProvideLogger,
	ProvideCollector,
	ProvideTracerProvider,
	ProvideBackend,
	ProvideDatasetSource,
	ProvideHolder,
	ProvideWatcher,
)

// ApplicationProviders provides the question engine.
var ApplicationProviders = wire.NewSet(
	ProvideQueryBus,
	ProvideDispatcher,
	ProvideCommandBus,
)

// InterfaceProviders provides the HTTP layer.
var InterfaceProviders = wire.NewSet(
	ProvideQuestionHandler,
	ProvideHealthHandler,
	ProvideRouter,
)

// ============================================================================
// INFRASTRUCTURE
// ============================================================================

// ProvideLogger builds the zap logger from the logging section.
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.Encoding = cfg.Logging.Format
	if cfg.Logging.Format == "json" {
		zapConfig.EncoderConfig = zap.NewProductionEncoderConfig()
	}

	logger, err := zapConfig.Build(zap.Fields(zap.String("environment", string(cfg.Environment))))
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideCollector creates the Prometheus collector. It is always created so
// answer and reload outcomes are recorded; the endpoint is only mounted when
// metrics are enabled.
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(cfg.Metrics.Namespace)
}

// ProvideTracerProvider installs the global tracer provider when tracing is
// enabled. It returns nil otherwise.
func ProvideTracerProvider(cfg *config.Config, logger *zap.Logger) (*sdktrace.TracerProvider, func()) {
	if !cfg.Tracing.Enabled {
		return nil, func() {}
	}
	tp := observability.NewTracerProvider(cfg.Tracing.ServiceName, logger)
	return tp, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}
}

// Backend is the configured dataset store before any decoration.
type Backend struct {
	Source ports.DatasetSource
	// Writer is nil for sources that cannot be written to.
	Writer ports.SnapshotWriter
	// Remote sources are guarded by the circuit breaker.
	Remote bool
}

// ProvideBackend opens the store selected by dataset.source.
func ProvideBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, func(), error) {
	noop := func() {}
	ds := cfg.Dataset

	switch ds.Source {
	case config.SourceMemory:
		return &Backend{Source: memory.NewSource()}, noop, nil

	case config.SourceFile:
		src := file.NewSource(ds.Path)
		return &Backend{Source: src, Writer: src}, noop, nil

	case config.SourceSQLite, config.SourcePostgres:
		driver := sqlstore.DriverSQLite
		if ds.Source == config.SourcePostgres {
			driver = sqlstore.DriverPostgres
		}
		store, err := sqlstore.Open(ctx, driver, ds.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close dataset database", zap.Error(err))
			}
		}
		return &Backend{
			Source: store,
			Writer: ports.SnapshotWriterFunc(store.Replace),
			Remote: true,
		}, cleanup, nil

	case config.SourceDynamoDB:
		awsCfg, err := newAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, nil, err
		}
		client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			}
		})
		src := ddbstore.NewSource(client, ds.Table, logger)
		return &Backend{Source: src, Writer: ports.SnapshotWriterFunc(src.Put), Remote: true}, noop, nil

	case config.SourceS3:
		awsCfg, err := newAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, nil, err
		}
		client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			}
			o.UsePathStyle = cfg.AWS.PathStyle
		})
		src := s3store.NewSource(client, ds.Bucket, ds.Key)
		return &Backend{Source: src, Writer: ports.SnapshotWriterFunc(src.Put), Remote: true}, noop, nil
	}
	return nil, nil, fmt.Errorf("unsupported dataset source %q", ds.Source)
}

func newAWSConfig(ctx context.Context, cfg config.AWS) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// ProvideDatasetSource decorates the backend with the circuit breaker (remote
// stores only) and load tracing.
func ProvideDatasetSource(cfg *config.Config, backend *Backend, logger *zap.Logger) ports.DatasetSource {
	source := backend.Source
	if backend.Remote {
		b := cfg.Dataset.Breaker
		source = breaker.Wrap(source, breaker.Config{
			MaxRequests:      b.MaxRequests,
			Interval:         b.Interval,
			Timeout:          b.Timeout,
			FailureThreshold: b.FailureThreshold,
			MinRequests:      b.MinRequests,
		}, logger)
	}
	return observability.NewTracedSource(source)
}

// ProvideHolder creates the snapshot holder. Nothing is loaded until
// Container.LoadDataset runs.
func ProvideHolder(source ports.DatasetSource, collector *observability.Collector, logger *zap.Logger) *infradataset.Holder {
	return infradataset.NewHolder(source, collector, logger)
}

// ProvideWatcher creates the file watcher when dataset.watch is set. It
// returns nil otherwise.
func ProvideWatcher(cfg *config.Config, holder *infradataset.Holder, logger *zap.Logger) (*infradataset.Watcher, func(), error) {
	if !cfg.Dataset.Watch || cfg.Dataset.Source != config.SourceFile {
		return nil, func() {}, nil
	}
	w, err := infradataset.NewWatcher(holder, cfg.Dataset.Path, cfg.Dataset.WatchDebounce, logger)
	if err != nil {
		return nil, nil, err
	}
	return w, w.Stop, nil
}

// ============================================================================
// APPLICATION
// ============================================================================

// ProvideQueryBus creates the query bus with metrics middleware.
func ProvideQueryBus(collector *observability.Collector) *bus.QueryBus {
	return bus.NewQueryBus(bus.NewMetricsMiddleware(collector))
}

// ProvideDispatcher registers the question handlers on the bus.
func ProvideDispatcher(
	queryBus *bus.QueryBus,
	holder *infradataset.Holder,
	collector *observability.Collector,
	logger *zap.Logger,
) (*queries.Dispatcher, error) {
	ask := queries.NewAskQuestionHandler(
		holder,
		intent.NewClassifier(),
		answer.NewSynthesizer(),
		collector,
		logger.Named("questions"),
	)
	return queries.NewDispatcher(queryBus, ask, queries.NewDatasetSummaryHandler(holder))
}

// ProvideCommandBus creates the command bus with the dataset import handler.
func ProvideCommandBus(backend *Backend, holder *infradataset.Holder, logger *zap.Logger) (*cmdbus.CommandBus, error) {
	importer := commands.NewImportDatasetHandler(backend.Writer, holder, logger)
	return commands.NewCommandBus(importer, cmdbus.LoggingMiddleware(logger.Named("commands")))
}

// ============================================================================
// INTERFACES
// ============================================================================

// ProvideQuestionHandler creates the question endpoints.
func ProvideQuestionHandler(dispatcher *queries.Dispatcher, cfg *config.Config, logger *zap.Logger) *handlers.QuestionHandler {
	return handlers.NewQuestionHandler(dispatcher, cfg.Server.MaxRequestSize, logger)
}

// ProvideHealthHandler creates the probes.
func ProvideHealthHandler(holder *infradataset.Holder) *handlers.HealthHandler {
	return handlers.NewHealthHandler(holder)
}

// ProvideRouter creates the router.
func ProvideRouter(
	questions *handlers.QuestionHandler,
	health *handlers.HealthHandler,
	collector *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(questions, health, collector, cfg, logger)
}

var (
	_ ports.SnapshotReader = (*infradataset.Holder)(nil)
	_ ports.SnapshotWriter = (*file.Source)(nil)
)
