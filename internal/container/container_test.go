package container

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"storefront/client/internal/config"
	"storefront/client/internal/domain"

	"github.com/alicebob/miniredis/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		API:     config.APIConfig{BaseURL: "http://127.0.0.1:0", Timeout: 1},
		Storage: config.StorageConfig{Driver: config.StorageFile, Path: filepath.Join(t.TempDir(), "cart.json"), Key: "cart"},
		Catalog: config.CatalogConfig{Locale: "vi"},
		Log:     config.LogConfig{Level: "warn", Format: "text"},
	}
}

func TestNewWithFileStorage(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	app, err := New(ctx, cfg)
	require.NoError(t, err)
	defer app.Close()

	app.Cart.AddItem(ctx, domain.Product{ID: 1, Name: "Áo", Price: domain.PriceFromInt(100)}, 2, domain.Variant{})

	reopened, err := New(ctx, cfg)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 2, reopened.Cart.Count())
	assert.Equal(t, log.WarnLevel, log.GetLevel())
}

func TestNewWithRedisStorage(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Storage.Driver = config.StorageRedis
	cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: atoi(t, mr.Port())}

	app, err := New(ctx, cfg)
	require.NoError(t, err)
	defer app.Close()

	app.Cart.AddItem(ctx, domain.Product{ID: 7, Name: "Quần", Price: domain.PriceFromInt(50)}, 1, domain.Variant{Size: "M"})
	assert.True(t, mr.Exists("storefront:cart"))
}

func TestNewWithUnreachableRedis(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	host, port := mr.Host(), mr.Port()
	mr.Close()

	cfg := testConfig(t)
	cfg.Storage.Driver = config.StorageRedis
	cfg.Redis = config.RedisConfig{Host: host, Port: atoi(t, port)}

	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestSetupLogging(t *testing.T) {
	require.NoError(t, SetupLogging(config.LogConfig{Level: "debug", Format: "json"}))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	assert.Error(t, SetupLogging(config.LogConfig{Level: "loud"}))

	require.NoError(t, SetupLogging(config.LogConfig{Level: "info"}))
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
