package di

import (
	"testing"

	internalrepo "StockLens/internal/repository"
	"StockLens/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func TestProvideMarketDataProvider(t *testing.T) {
	cfg := defaultConfig(t)
	reg := ProvideRegistry()
	logger, err := ProvideLogger(cfg, nil)
	require.NoError(t, err)

	p, err := ProvideMarketDataProvider(cfg, ProvideHTTPClient(cfg), logger, reg)
	require.NoError(t, err)
	assert.Equal(t, "yahoo", p.Name())

	cfg.Provider.Name = "polygon"
	cfg.Provider.Polygon.APIKey = "key"
	p, err = ProvideMarketDataProvider(cfg, ProvideHTTPClient(cfg), logger, ProvideRegistry())
	require.NoError(t, err)
	assert.Equal(t, "polygon", p.Name())

	cfg.Provider.Name = "other"
	_, err = ProvideMarketDataProvider(cfg, ProvideHTTPClient(cfg), logger, ProvideRegistry())
	assert.Error(t, err)
}

func TestProvideKafkaDisabled(t *testing.T) {
	cfg := defaultConfig(t)
	producer, err := ProvideKafkaProducer(cfg, ProvideRegistry())
	require.NoError(t, err)
	assert.Nil(t, producer)
	assert.IsType(t, internalrepo.NopEventPublisher{}, ProvideEventPublisher(cfg, producer))
}

func TestProvideRateLimiter(t *testing.T) {
	cfg := defaultConfig(t)
	assert.NotNil(t, ProvideRateLimiter(cfg))
	cfg.Server.RateLimit.Enabled = false
	assert.Nil(t, ProvideRateLimiter(cfg))
}

func TestInitializeApp(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Logging.Level = "error"
	app, err := InitializeApp(cfg)
	require.NoError(t, err)
	assert.NotNil(t, app)
}
