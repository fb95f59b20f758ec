package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/domain/repository"
	domsvc "AdPulse/internal/domain/service"
	"AdPulse/internal/handler/api"
	internalrepo "AdPulse/internal/repository"
	"AdPulse/internal/service/cache"
	"AdPulse/internal/service/ratelimit"
	"AdPulse/internal/services/analytics"
	"AdPulse/internal/services/history"
	"AdPulse/internal/services/period"
	"AdPulse/internal/services/render"
	"AdPulse/internal/services/series"
	"AdPulse/internal/usecase"
	pkgch "AdPulse/pkg/clickhouse"
	"AdPulse/pkg/config"
	xhttp "AdPulse/pkg/http"
	pkgkafka "AdPulse/pkg/kafka"
	"AdPulse/pkg/logger"
	"AdPulse/pkg/metrics"
	"AdPulse/pkg/queue"
	"AdPulse/pkg/server"
)

// DataSource pairs the dashboard series provider with the history loader
// feeding the prediction service. Both read the same backend.
type DataSource struct {
	Series  repository.SeriesProvider
	History usecase.HistoryLoader
}

func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func ProvideClock() period.Clock {
	return period.SystemClock{}
}

func ProvideResolver(cfg *config.Config, clock period.Clock) *period.Resolver {
	return period.NewResolver(clock, cfg.Location())
}

// ProvideRedisClient returns nil when redis is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
}

// ProvideClickHouseClient creates a ClickHouse client and the history table.
// It returns nil when clickhouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, false),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.HistorySchema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer returns nil when kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers...),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Producer.MaxAttempts, cfg.Kafka.Compression),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer returns nil when kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideHistoryStore returns nil without a clickhouse client.
func ProvideHistoryStore(ch *pkgch.Client, cfg *config.Config, l *logger.Logger) *internalrepo.CHHistoryStore {
	if ch == nil {
		return nil
	}
	return internalrepo.NewCHHistoryStore(ch, cfg.ClickHouse.Table, l)
}

func ProvideDataSource(cfg *config.Config, store *internalrepo.CHHistoryStore) (*DataSource, error) {
	if cfg.Dashboard.Source == config.SourceSynthetic {
		p := series.NewSyntheticProvider(newGenerator(cfg.Dashboard.Seed))
		return &DataSource{Series: p, History: p}, nil
	}

	var src repository.HistorySource
	switch cfg.History.Backend {
	case "clickhouse":
		if store == nil {
			return nil, fmt.Errorf("clickhouse history backend without a clickhouse client")
		}
		src = store
	default:
		base := analytics.NewHTTPServiceBase(cfg.History.URL, cfg.History.Timeout)
		src = history.NewHTTPSource(base, cfg.History.Path,
			history.WithAggregateChannel(models.Channel(cfg.History.AggregateChannel)))
	}
	p := history.NewProvider(src)
	return &DataSource{Series: p, History: p}, nil
}

func newGenerator(seed uint64) *series.Generator {
	if seed == 0 {
		return series.NewGenerator(nil)
	}
	return series.NewSeededGenerator(seed)
}

func ProvidePredictor(cfg *config.Config) domsvc.Predictor {
	return analytics.NewHTTPPredictor(analytics.NewHTTPServiceBase(cfg.ML.ServiceURL, cfg.ML.Timeout))
}

func ProvideRenderer() domsvc.Renderer {
	return render.PNGRenderer{}
}

// ProvideBytesCache shares the redis client when present.
func ProvideBytesCache(rdb *redis.Client) cache.BytesCache {
	if rdb == nil {
		return cache.NewMemoryBytesCache()
	}
	return cache.NewRedisCacheFromClient(rdb, "adpulse:cache:")
}

func ProvideStatsCache(p domsvc.Predictor, c cache.BytesCache, cfg *config.Config, l *logger.Logger) *usecase.StatsCache {
	return usecase.NewStatsCache(p, c, cfg.ML.StatsTTL, l)
}

// ProvideEventPublisher returns a nil interface without a producer.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic)
}

// ProvideQueue returns nil when the queue is disabled.
func ProvideQueue(cfg *config.Config, rdb *redis.Client, l *logger.Logger) *queue.RedisQueue {
	if !cfg.Queue.Enabled || rdb == nil {
		return nil
	}
	return queue.NewRedisQueue(l, queue.Config{
		Workers:    cfg.Queue.Workers,
		MaxRetries: cfg.Queue.MaxRetries,
		RetryDelay: cfg.Queue.RetryDelay,
	}, rdb)
}

func ProvideSessions(cfg *config.Config) *usecase.SessionManager {
	return usecase.NewSessionManager(cfg.Dashboard.SessionTTL)
}

func ProvideDashboardUseCase(resolver *period.Resolver, ds *DataSource, cfg *config.Config, m repository.Metrics, l *logger.Logger) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(resolver, ds.Series, cfg.Dashboard.Source, m, l)
}

func ProvideForecastUseCase(p domsvc.Predictor, stats *usecase.StatsCache, ds *DataSource, clock period.Clock, cfg *config.Config, m repository.Metrics, l *logger.Logger) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(p, stats, ds.History, cfg.ML.HistoryDays, clock, cfg.Location(), m, l)
}

func ProvideTrainingUseCase(p domsvc.Predictor, fc *usecase.ForecastUseCase, stats *usecase.StatsCache, events repository.EventPublisher, q *queue.RedisQueue, m repository.Metrics, l *logger.Logger) *usecase.TrainingUseCase {
	var tq usecase.TrainQueue
	if q != nil {
		tq = q
	}
	uc := usecase.NewTrainingUseCase(p, fc, stats, events, tq, m, l)
	if q != nil {
		q.RegisterJob(uc.Job())
	}
	return uc
}

// ProvideIngestHandler returns nil without a history store.
func ProvideIngestHandler(cfg *config.Config, store *internalrepo.CHHistoryStore, m repository.Metrics) *usecase.MetricsIngestHandler {
	if store == nil {
		return nil
	}
	return usecase.NewMetricsIngestHandler(cfg.Kafka.IngestTopic, store, m)
}

func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.TrainCapacity, cfg.RateLimit.TrainRefill)
}

func ProvideHandler(
	l *logger.Logger,
	cfg *config.Config,
	sessions *usecase.SessionManager,
	dashboard *usecase.DashboardUseCase,
	forecast *usecase.ForecastUseCase,
	training *usecase.TrainingUseCase,
	stats *usecase.StatsCache,
	p domsvc.Predictor,
	renderer domsvc.Renderer,
	limiter *ratelimit.Limiter,
) xhttp.Handler {
	return api.NewRoutes(
		api.NewDashboardEchoHandler(l, sessions, dashboard, renderer),
		api.NewMLEchoHandler(l, sessions, forecast, training, stats, p, limiter),
		api.NewLiveHandler(l, sessions, dashboard, cfg.Dashboard.RefreshInterval),
	)
}

func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *logger.Logger) *xhttp.Server {
	return xhttp.NewServer(h, l,
		xhttp.WithAddr(cfg.Server.Host, cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
	)
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	srv *xhttp.Server,
	sessions *usecase.SessionManager,
	consumer *pkgkafka.Consumer,
	ingest *usecase.MetricsIngestHandler,
	q *queue.RedisQueue,
	producer *pkgkafka.Producer,
	ch *pkgch.Client,
	rdb *redis.Client,
) *server.App {
	opts := []server.Option{}
	if consumer != nil && ingest != nil {
		opts = append(opts, server.WithConsumer(consumer, ingest))
	}
	if q != nil {
		opts = append(opts, server.WithQueue(q))
	}
	if producer != nil {
		opts = append(opts, server.WithCloser("kafka producer", producer))
	}
	if ch != nil {
		opts = append(opts, server.WithCloser("clickhouse", ch))
	}
	if rdb != nil {
		opts = append(opts, server.WithCloser("redis", rdb))
	}
	return server.New(cfg, l, srv, sessions, opts...)
}
