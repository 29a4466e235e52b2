package di

import (
	"fmt"
	"net/http"

	"StockLens/internal/domain/repository"
	domsvc "StockLens/internal/domain/service"
	"StockLens/internal/handler/api"
	internalrepo "StockLens/internal/repository"
	svcmetrics "StockLens/internal/service/metrics"
	"StockLens/internal/service/polygon"
	"StockLens/internal/service/ratelimit"
	"StockLens/internal/service/yahoo"
	"StockLens/internal/services/chart"
	"StockLens/internal/services/normalize"
	"StockLens/internal/usecase"
	"StockLens/pkg/config"
	xhttp "StockLens/pkg/http"
	pkgkafka "StockLens/pkg/kafka"
	applogger "StockLens/pkg/logger"
	"StockLens/pkg/metrics"
	"StockLens/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideRegistry creates the Prometheus registry served on the metrics path.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideKafkaProducer creates a Kafka producer. It returns nil when neither
// analysis events nor log aggregation need one.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled && !cfg.Logging.Aggregate.Enabled {
		return nil, nil
	}
	p := cfg.Kafka.Producer
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(p.BatchSize, p.BatchBytes, p.Linger),
		pkgkafka.WithTimeouts(p.WriteTimeout, p.ReadTimeout),
		pkgkafka.WithMaxAttempts(p.MaxAttempts),
		pkgkafka.WithAsync(p.Async),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the application logger and attaches the warn/error
// collector when aggregation is enabled.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Logging.Aggregate.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Aggregate.Interval,
			CountThreshold: cfg.Logging.Aggregate.CountThreshold,
			Topic:          cfg.Logging.Aggregate.Topic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideHTTPClient creates the outbound client used by the Yahoo provider.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Provider.Timeout),
		xhttp.WithUserAgent(cfg.Provider.Yahoo.UserAgent),
	)
}

// ProvideMarketDataProvider selects the configured provider and wraps it
// with fetch metrics.
func ProvideMarketDataProvider(
	cfg *config.Config,
	hc *xhttp.Client,
	logger *applogger.Logger,
	reg *prometheus.Registry,
) (repository.MarketDataProvider, error) {
	var p repository.MarketDataProvider
	switch cfg.Provider.Name {
	case "yahoo":
		y := cfg.Provider.Yahoo
		p = yahoo.New(hc, logger,
			yahoo.WithBaseURL(y.BaseURL),
			yahoo.WithChunkYears(y.ChunkYears),
			yahoo.WithRetries(y.Retries),
			yahoo.WithBackoff(y.Backoff),
		)
	case "polygon":
		p = polygon.New(cfg.Provider.Polygon.APIKey, &http.Client{Timeout: cfg.Provider.Timeout}, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
	return svcmetrics.Instrument(p, svcmetrics.NewProviderMetrics(reg)), nil
}

func ProvideNormalizer(logger *applogger.Logger) domsvc.Normalizer {
	return normalize.NewNormalizer(logger)
}

func ProvideChartAssembler() domsvc.ChartAssembler {
	return chart.NewAssembler()
}

// ProvideEventPublisher publishes analysis events to Kafka, or drops them
// when Kafka is disabled.
func ProvideEventPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.EventPublisher {
	if !cfg.Kafka.Enabled || producer == nil {
		return internalrepo.NewNopEventPublisher()
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

// ProvideAnalysisUseCase creates the analysis use case.
func ProvideAnalysisUseCase(
	cfg *config.Config,
	provider repository.MarketDataProvider,
	normalizer domsvc.Normalizer,
	charts domsvc.ChartAssembler,
	events repository.EventPublisher,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(provider, normalizer, charts, logger,
		usecase.WithAdjust(cfg.Provider.Adjust),
		usecase.WithEvents(events),
		usecase.WithMetrics(m),
	)
}

func ProvideHandler(logger *applogger.Logger, uc *usecase.AnalysisUseCase) xhttp.Handler {
	return api.NewAnalysisEchoHandler(logger, uc)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.Server.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(
	cfg *config.Config,
	handler xhttp.Handler,
	logger *applogger.Logger,
	limiter *ratelimit.Limiter,
	reg *prometheus.Registry,
) *xhttp.Server {
	s := cfg.Server
	opts := []xhttp.ServerOption{
		xhttp.WithPort(s.Port),
		xhttp.WithTimeouts(s.ReadTimeout, s.WriteTimeout, s.ShutdownTimeout),
		xhttp.WithCORS(s.CORS.Enabled, s.CORS.AllowOrigins...),
		xhttp.WithSlowThreshold(s.SlowThreshold),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, reg))
	} else {
		opts = append(opts, xhttp.WithMetrics("", reg))
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithRateLimiter(limiter))
	}
	return xhttp.NewServer(handler, logger, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	srv *xhttp.Server,
	events repository.EventPublisher,
	limiter *ratelimit.Limiter,
	producer *pkgkafka.Producer,
) *server.App {
	opts := []server.Option{
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		// flush aggregated logs while the producer is still open
		server.WithCloser(logger),
	}
	if limiter != nil {
		opts = append(opts, server.WithJanitor(limiter))
	}
	if producer != nil && !cfg.Kafka.Enabled {
		opts = append(opts, server.WithCloser(producer))
	}
	return server.New(logger, srv, events, opts...)
}
