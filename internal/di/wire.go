//go:build wireinject
// +build wireinject

package di

import (
	"StockLens/pkg/config"
	"StockLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideRegistry,
		ProvideMetrics,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideHTTPClient,

		// Repositories and services
		ProvideMarketDataProvider,
		ProvideEventPublisher,
		ProvideNormalizer,
		ProvideChartAssembler,

		// Use cases and transport
		ProvideAnalysisUseCase,
		ProvideHandler,
		ProvideRateLimiter,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
