package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// MarketData supplies daily OHLCV bars from an external provider.
type MarketData interface {
	DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
}

// QuoteStream delivers realtime price ticks used to invalidate cached series.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// BarStore persists and serves daily bars.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables exist
	Store(ctx context.Context, symbol string, bars []models.Bar) error
	GetDaily(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	GetLatestN(ctx context.Context, symbol string, n int) ([]models.Bar, error)
	Health(ctx context.Context) error
	Close() error
}

// ReportPublisher emits finished reports for downstream consumers.
type ReportPublisher interface {
	PublishEvaluation(ctx context.Context, r *models.EvaluationReport) error
	PublishForecast(ctx context.Context, r *models.ForecastReport) error
	Close() error
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordRun(stage, model string)
	RecordError(kind string)
	RecordScore(symbol, model string, meanR2 float64)
	RecordForecast(symbol, model string, price float64)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
