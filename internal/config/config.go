package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// RateLimit is requests per second allowed per client IP; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type RedisConfig struct {
	URL     string        `mapstructure:"url"`
	CartTTL time.Duration `mapstructure:"cart_ttl"`
}

// StorageConfig picks a backend per store.
type StorageConfig struct {
	Cart   string `mapstructure:"cart"`   // memory | redis
	Orders string `mapstructure:"orders"` // memory | mysql
	CMS    string `mapstructure:"cms"`    // file | mysql
	CMSDir string `mapstructure:"cms_dir"`
}

type PricingConfig struct {
	DiscountRate          float64 `mapstructure:"discount_rate"`
	FreeShippingThreshold float64 `mapstructure:"free_shipping_threshold"`
	ShippingCost          float64 `mapstructure:"shipping_cost"`
	Currency              string  `mapstructure:"currency"`
}

type CheckoutConfig struct {
	ProcessingDelay time.Duration `mapstructure:"processing_delay"`
	CancelWindow    time.Duration `mapstructure:"cancel_window"`
	OrderIDs        string        `mapstructure:"order_ids"` // random | sequence | uuid
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("db.dsn", "root:@tcp(127.0.0.1:3306)/naturemagic?parseTime=true&charset=utf8mb4")
	v.SetDefault("db.maxOpenConns", 10)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.cart_ttl", 24*time.Hour)

	v.SetDefault("storage.cart", "memory")
	v.SetDefault("storage.orders", "memory")
	v.SetDefault("storage.cms", "file")
	v.SetDefault("storage.cms_dir", "./data/cms")

	v.SetDefault("pricing.discount_rate", 0.20)
	v.SetDefault("pricing.free_shipping_threshold", 200.0)
	v.SetDefault("pricing.shipping_cost", 15.0)
	v.SetDefault("pricing.currency", "HKD")

	v.SetDefault("checkout.processing_delay", 2500*time.Millisecond)
	v.SetDefault("checkout.cancel_window", 0)
	v.SetDefault("checkout.order_ids", "random")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// Enable environment variable override with NATUREMAGIC_ prefix, e.g. NATUREMAGIC_SERVER_ADDR
	v.SetEnvPrefix("NATUREMAGIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from config.yaml and environment variables.
// A missing config file is not an error: defaults and the environment apply.
func LoadConfig() (*Config, error) {
	v := newViper()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.naturemagic/")
	v.AddConfigPath("/etc/naturemagic/")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadConfigFile loads configuration from an explicit file path.
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"storage.cart", c.Storage.Cart, []string{"memory", "redis"}},
		{"storage.orders", c.Storage.Orders, []string{"memory", "mysql"}},
		{"storage.cms", c.Storage.CMS, []string{"file", "mysql"}},
		{"checkout.order_ids", c.Checkout.OrderIDs, []string{"random", "sequence", "uuid"}},
	}
	for _, chk := range checks {
		if !contains(chk.allowed, chk.value) {
			return fmt.Errorf("invalid %s %q: must be one of %s", chk.name, chk.value, strings.Join(chk.allowed, ", "))
		}
	}

	if c.Pricing.DiscountRate < 0 || c.Pricing.DiscountRate >= 1 {
		return fmt.Errorf("invalid pricing.discount_rate %v: must be in [0, 1)", c.Pricing.DiscountRate)
	}
	if c.Pricing.ShippingCost < 0 || c.Pricing.FreeShippingThreshold < 0 {
		return fmt.Errorf("pricing amounts cannot be negative")
	}
	return nil
}

// NeedsMySQL reports whether any store is backed by MySQL.
func (c *Config) NeedsMySQL() bool {
	return c.Storage.Orders == "mysql" || c.Storage.CMS == "mysql"
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
