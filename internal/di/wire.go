//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideMarketData,
		ProvideQuoteStream,
		ProvideBarStore,
		ProvideReportPublisher,

		// Pipeline services
		ProvideFeatureBuilder,
		ProvideEvaluator,
		ProvideForecaster,

		// Use cases
		ProvideSeriesLoader,
		ProvidePipeline,
		ProvideQuoteCollector,
		ProvideQueue,

		// HTTP surface and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
