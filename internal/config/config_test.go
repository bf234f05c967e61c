package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFile_Defaults(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, "server:\n  addr: \":9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Cart)
	assert.Equal(t, 0.20, cfg.Pricing.DiscountRate)
	assert.Equal(t, 200.0, cfg.Pricing.FreeShippingThreshold)
	assert.Equal(t, 15.0, cfg.Pricing.ShippingCost)
	assert.Equal(t, 2500*time.Millisecond, cfg.Checkout.ProcessingDelay)
	assert.Equal(t, 24*time.Hour, cfg.Redis.CartTTL)
	assert.False(t, cfg.NeedsMySQL())
}

func TestLoadConfigFile_Overrides(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, `
storage:
  cart: redis
  orders: mysql
checkout:
  processing_delay: 1s
  cancel_window: 500ms
  order_ids: uuid
pricing:
  currency: MOP
`))
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Cart)
	assert.Equal(t, time.Second, cfg.Checkout.ProcessingDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Checkout.CancelWindow)
	assert.Equal(t, "uuid", cfg.Checkout.OrderIDs)
	assert.Equal(t, "MOP", cfg.Pricing.Currency)
	assert.True(t, cfg.NeedsMySQL())
}

func TestLoadConfigFile_EnvOverride(t *testing.T) {
	t.Setenv("NATUREMAGIC_SERVER_ADDR", ":7070")
	t.Setenv("NATUREMAGIC_LOG_LEVEL", "debug")

	cfg, err := LoadConfigFile(writeConfig(t, "server:\n  addr: \":9090\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile_RejectsUnknownBackend(t *testing.T) {
	_, err := LoadConfigFile(writeConfig(t, "storage:\n  cart: memcached\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.cart")
}

func TestLoadConfigFile_RejectsDiscountRate(t *testing.T) {
	_, err := LoadConfigFile(writeConfig(t, "pricing:\n  discount_rate: 1.5\n"))
	assert.Error(t, err)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
