package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/usecase"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
	pkgqueue "StockCast/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	collector   *usecase.QuoteCollector // nil when the stream is disabled
	queue       *pkgqueue.RedisQueue    // nil when async jobs are disabled
	chClient    *pkgch.Client           // nil when persistence is disabled
	barStore    domrepo.BarStore        // nil when persistence is disabled
	publisher   domrepo.ReportPublisher // nil when kafka is disabled
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.QuoteCollector,
	queue *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
	barStore domrepo.BarStore,
	publisher domrepo.ReportPublisher,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		queue:     queue,
		chClient:  chClient,
		barStore:  barStore,
		publisher: publisher,
	}
}

// SetHTTPHandler allows DI to inject the HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger
	if l == nil {
		var err error
		l, err = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
		if err != nil {
			log.Printf("failed to create logger: %v", err)
			return err
		}
	}

	// Aggregate repeated error logs through the job queue in non-production
	// environments, where the queue doubles as a debugging firehose.
	if a.queue != nil && a.cfg.Environment != "production" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   time.Minute,
			CountThreshold: 100,
			Topic:          usecase.AggregatedLogTopic,
			Publisher:      a.queue,
		})
	}

	if a.barStore != nil {
		if err := a.barStore.Init(ctx); err != nil {
			l.Warn("bar store init failed", applogger.Error(err))
		}
	}

	// Wildcard CORS is a local convenience; production sits behind a gateway
	// that owns the policy.
	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(a.cfg.Environment != "production"),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
		xhttp.WithLogger(l),
	)

	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("quote collector error", applogger.Error(err))
			}
		}()
		l.Info("quote collector started", applogger.Strings("symbols", a.cfg.MarketData.Symbols))
	}

	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			l.Error("job queue start error", applogger.Error(err))
			return err
		}
		l.Info("job queue started")
		a.warmLeaderboards(ctx, l)
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx, l)
}

// warmLeaderboards queues one leaderboard run per tracked symbol so boards
// built with the configured defaults are cached before the first request.
func (a *App) warmLeaderboards(ctx context.Context, l *applogger.Logger) {
	for _, req := range warmupRequests(a.cfg) {
		if err := a.queue.PublishMessage(ctx, usecase.LeaderboardJobType, req); err != nil {
			l.Warn("leaderboard warmup enqueue failed",
				applogger.String("symbol", req.Symbol),
				applogger.Error(err),
			)
		}
	}
}

// warmupRequests builds the warmup runs from the pipeline defaults. Missing
// defaults disable the warmup entirely.
func warmupRequests(cfg *config.Config) []*models.LeaderboardRequest {
	p := cfg.Pipeline
	if p.DefaultHorizon <= 0 || p.DefaultSplits < 2 || p.DefaultScaling == "" || p.DefaultDuration <= 0 {
		return nil
	}
	reqs := make([]*models.LeaderboardRequest, 0, len(cfg.MarketData.Symbols))
	for _, s := range cfg.MarketData.Symbols {
		reqs = append(reqs, &models.LeaderboardRequest{
			Symbol:   s,
			Horizon:  p.DefaultHorizon,
			Splits:   p.DefaultSplits,
			Scaling:  p.DefaultScaling,
			Duration: p.DefaultDuration,
			Async:    true,
		})
	}
	return reqs
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context, l *applogger.Logger) error {
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("quote collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			l.Warn("report publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	l.Close() // final collector flush
	return nil
}
