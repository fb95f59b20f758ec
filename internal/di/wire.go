//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"AdPulse/pkg/config"
	"AdPulse/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideClock,
		ProvideResolver,

		// Infrastructure clients, each nil when disabled
		ProvideRedisClient,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories and services
		ProvideHistoryStore,
		ProvideDataSource,
		ProvidePredictor,
		ProvideRenderer,
		ProvideBytesCache,
		ProvideStatsCache,
		ProvideEventPublisher,
		ProvideQueue,
		ProvideLimiter,

		// Use cases
		ProvideSessions,
		ProvideDashboardUseCase,
		ProvideForecastUseCase,
		ProvideTrainingUseCase,
		ProvideIngestHandler,

		// HTTP and application server
		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
