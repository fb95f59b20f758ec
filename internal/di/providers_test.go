package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/services/history"
	"AdPulse/internal/services/series"
	"AdPulse/pkg/config"
)

func TestDataSourceFollowsConfig(t *testing.T) {
	cfg := config.Default()
	ds, err := ProvideDataSource(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &series.SyntheticProvider{}, ds.Series)
	assert.Same(t, ds.Series, ds.History)

	cfg.Dashboard.Source = config.SourceLive
	cfg.History.URL = "http://history.local"
	ds, err = ProvideDataSource(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &history.Provider{}, ds.Series)

	cfg.History.Backend = "clickhouse"
	_, err = ProvideDataSource(cfg, nil)
	assert.Error(t, err)
}

func TestOptionalInfrastructureIsNilWhenDisabled(t *testing.T) {
	cfg := config.Default()

	assert.Nil(t, ProvideRedisClient(cfg))
	ch, err := ProvideClickHouseClient(cfg)
	require.NoError(t, err)
	assert.Nil(t, ch)
	producer, err := ProvideKafkaProducer(cfg)
	require.NoError(t, err)
	assert.Nil(t, producer)
	assert.Nil(t, ProvideEventPublisher(producer, cfg))
	assert.Nil(t, ProvideQueue(cfg, nil, nil))
	assert.Nil(t, ProvideIngestHandler(cfg, nil, nil))
}

func TestInitializeAppWithDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	app, err := InitializeApp(cfg)
	require.NoError(t, err)
	assert.NotNil(t, app)
}
