package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig holds the storefront REST API configuration
type APIConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	CategoriesPath       string `mapstructure:"categories_path"`
	ProductsPath         string `mapstructure:"products_path"`
	ProductPath          string `mapstructure:"product_path"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// StorageConfig selects where the cart is persisted
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // file, redis or postgres
	Path   string `mapstructure:"path"`
	Key    string `mapstructure:"key"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// CatalogConfig tunes catalog browsing
type CatalogConfig struct {
	Locale string `mapstructure:"locale"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Load reads config.yaml (or the file named by path), applies STOREFRONT_*
// environment overrides and then any flags bound by name. A missing config
// file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("storefront")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	// product_path is formatted with the product id
	if strings.Count(c.API.ProductPath, "%d") != 1 || strings.Count(c.API.ProductPath, "%") != 1 {
		return fmt.Errorf("api.product_path %q must contain exactly one %%d for the product id", c.API.ProductPath)
	}
	return nil
}

// flag name -> config key
var flagKeys = map[string]string{
	"api-url":   "api.base_url",
	"storage":   "storage.driver",
	"cart-file": "storage.path",
	"log-level": "log.level",
	"locale":    "catalog.locale",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.categories_path", "/api/categories/")
	v.SetDefault("api.products_path", "/api/products/")
	v.SetDefault("api.product_path", "/api/products/%d/")
	v.SetDefault("api.timeout", 15)
	v.SetDefault("api.max_retries", 0)
	v.SetDefault("api.max_requests_per_second", 10)

	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.path", "./cart.json")
	v.SetDefault("storage.key", "cart")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "storefront")
	v.SetDefault("database.user", "storefront_user")
	v.SetDefault("database.password", "storefront_pass")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("catalog.locale", "vi")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
