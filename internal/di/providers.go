package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/handler/api"
	mid "StockCast/internal/middleware"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/marketdata"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/services/evaluation"
	"StockCast/internal/services/features"
	"StockCast/internal/services/forecast"
	"StockCast/internal/usecase"
	xcache "StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	pkghttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	pkgqueue "StockCast/pkg/queue"
	"StockCast/pkg/server"
)

// CacheBundle carries the cache service plus the raw redis handle the job
// queue needs. Redis is nil for the memory backend.
type CacheBundle struct {
	Service xcache.Service
	Redis   *redis.Client
}

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment != "production" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache builds the configured cache backend.
func ProvideCache(cfg *config.Config) (*CacheBundle, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		opts := []xcache.MemoryOption{}
		if cfg.Cache.MaxSize > 0 {
			opts = append(opts, xcache.WithMemoryMaxSize(cfg.Cache.MaxSize))
		}
		return &CacheBundle{Service: xcache.NewMemoryCache(opts...)}, nil
	case "redis", "layered":
		rc, err := xcache.NewRedisCache(
			xcache.WithRedisHost(cfg.Cache.Redis.Host),
			xcache.WithRedisPort(cfg.Cache.Redis.Port),
			xcache.WithRedisPassword(cfg.Cache.Redis.Password),
			xcache.WithRedisDB(cfg.Cache.Redis.DB),
			xcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Backend == "layered" {
			layered := xcache.NewLayeredCache(rc, xcache.WithLayeredMemorySize(cfg.Cache.MaxSize))
			return &CacheBundle{Service: layered, Redis: rc.Client()}, nil
		}
		return &CacheBundle{Service: rc, Redis: rc.Client()}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideMarketData creates the daily-bars HTTP client with a local token
// bucket in front of the provider.
func ProvideMarketData(cfg *config.Config) domrepo.MarketData {
	httpClient := pkghttp.NewClient(pkghttp.WithTimeout(cfg.MarketData.Timeout))
	return marketdata.New(httpClient, cfg.MarketData.ChartURL, ratelimit.New(),
		marketdata.WithRateLimit(cfg.MarketData.RequestsPerSec, cfg.MarketData.Burst),
	)
}

// ProvideQuoteStream creates the realtime quote stream, nil when disabled.
func ProvideQuoteStream(cfg *config.Config, logger *applogger.Logger) domrepo.QuoteStream {
	if !cfg.MarketData.StreamEnabled {
		return nil
	}
	return marketdata.NewStream(
		cfg.MarketData.APIKey,
		cfg.MarketData.WebSocketURL,
		cfg.MarketData.Symbols,
		cfg.MarketData.ReconnectDelay,
		cfg.MarketData.PingInterval,
		logger,
	)
}

// ProvideClickHouseClient creates a ClickHouse client, nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBarStore creates the persistent bar store, nil without ClickHouse.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config) domrepo.BarStore {
	if chClient == nil {
		return nil
	}
	table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.Table
	return internalrepo.NewClickHouseBarStore(chClient.DB(), table)
}

// ProvideKafkaProducer creates a Kafka producer, nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReportPublisher creates the Kafka report publisher, nil without a
// producer.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.ReportPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.EvalTopic, cfg.Kafka.ForecastTopic)
}

// ProvideSeriesLoader creates the cached series loader.
func ProvideSeriesLoader(
	source domrepo.MarketData,
	store domrepo.BarStore,
	bundle *CacheBundle,
	m domrepo.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.SeriesLoader {
	loader := usecase.NewSeriesLoader(source, store, bundle.Service, cfg.Pipeline.SeriesTTL, m)
	loader.SetLogger(logger)
	return loader
}

// ProvideFeatureBuilder creates the feature builder.
func ProvideFeatureBuilder() domsvc.FeatureBuilder {
	return features.NewBuilder()
}

// ProvideEvaluator creates the walk-forward evaluator.
func ProvideEvaluator() domsvc.Evaluator {
	return evaluation.NewEvaluator()
}

// ProvideForecaster creates the horizon forecaster.
func ProvideForecaster() domsvc.Forecaster {
	return forecast.NewForecaster()
}

// ProvidePipeline creates the prediction pipeline.
func ProvidePipeline(
	loader *usecase.SeriesLoader,
	builder domsvc.FeatureBuilder,
	evaluator domsvc.Evaluator,
	forecaster domsvc.Forecaster,
	publisher domrepo.ReportPublisher,
	m domrepo.Metrics,
	logger *applogger.Logger,
) *usecase.PredictionPipeline {
	p := usecase.NewPredictionPipeline(loader, builder, evaluator, forecaster, publisher, m)
	p.SetLogger(logger)
	return p
}

// ProvideQuoteCollector creates the realtime collector, nil without a stream.
func ProvideQuoteCollector(
	stream domrepo.QuoteStream,
	loader *usecase.SeriesLoader,
	m domrepo.Metrics,
) *usecase.QuoteCollector {
	if stream == nil {
		return nil
	}
	handler := usecase.NewQuoteHandler(loader, m)
	pipe := mid.NewQuotePipeline(handler, m,
		mid.WithMinInterval(time.Second),
		mid.WithQuoteBuffer(512),
	)
	return usecase.NewQuoteCollector(stream, m, pipe)
}

// ProvideQueue creates the redis-backed job queue with the leaderboard job
// registered, nil when disabled or without redis.
func ProvideQueue(
	bundle *CacheBundle,
	pipeline *usecase.PredictionPipeline,
	logger *applogger.Logger,
	cfg *config.Config,
) *pkgqueue.RedisQueue {
	if !cfg.Queue.Enabled || bundle.Redis == nil {
		return nil
	}
	job := usecase.NewLeaderboardJob(pipeline, bundle.Service, logger)
	q := pkgqueue.NewRedisQueue(logger, &pkgqueue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, bundle.Redis, pkgqueue.ModeProducerConsumer)
	q.RegisterJob(job)
	q.RegisterJob(usecase.NewLogDrainJob(logger))
	return q
}

// ProvideHandler creates the HTTP handler with routes.
func ProvideHandler(
	logger *applogger.Logger,
	pipeline *usecase.PredictionPipeline,
	queue *pkgqueue.RedisQueue,
	bundle *CacheBundle,
) pkghttp.Handler {
	h := api.NewPipelineEchoHandler(logger, pipeline)
	if queue != nil {
		h.SetQueue(queue, bundle.Service)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.QuoteCollector,
	queue *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
	barStore domrepo.BarStore,
	publisher domrepo.ReportPublisher,
	handler pkghttp.Handler,
) *server.App {
	app := server.New(cfg, logger, collector, queue, chClient, barStore, publisher)
	app.SetHTTPHandler(handler)
	return app
}
