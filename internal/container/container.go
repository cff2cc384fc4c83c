package container

import (
	"context"
	"fmt"
	"os"

	"storefront/client/internal/cart"
	"storefront/client/internal/catalog"
	"storefront/client/internal/cli"
	"storefront/client/internal/client"
	"storefront/client/internal/config"
	"storefront/client/internal/repository"
	"storefront/client/internal/service"
	"storefront/client/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.StorefrontClient
	Storage cart.Storage
	Cart    *cart.Store

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if err := SetupLogging(cfg.Log); err != nil {
		return nil, err
	}

	container := &Container{
		Config: cfg,
	}

	storage, err := container.openStorage(ctx)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Storage = storage

	container.Client = client.NewStorefrontClient(cfg.API)
	container.Cart = cart.NewStore(ctx, storage)

	locale, err := language.Parse(cfg.Catalog.Locale)
	if err != nil {
		log.Warnf("⚠️ Unknown catalog locale %q, using root collation: %v", cfg.Catalog.Locale, err)
		locale = language.Und
	}

	container.Service = service.NewService(container.Client, container.Cart, catalog.NewFilter(locale))

	return container, nil
}

func (c *Container) openStorage(ctx context.Context) (cart.Storage, error) {
	cfg := c.Config

	switch cfg.Storage.Driver {
	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		c.redis = rdb

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Debug("✅ Connected to Redis successfully")

		return state.NewRedisStorage(rdb, cfg.Storage.Key), nil

	case config.StoragePostgres:
		db, err := pgxpool.New(ctx,
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.db = db

		repo := repository.NewCartRepository(db, cfg.Storage.Key)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Debug("✅ Connected to Postgres successfully")

		return repo, nil

	default:
		return state.NewFileStorage(cfg.Storage.Path), nil
	}
}

// Run executes one CLI command
func (c *Container) Run(ctx context.Context, args []string) error {
	return cli.New(c.Service, os.Stdout).Execute(ctx, args)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	log.Debug("Container shut down successfully")
	return nil
}

// SetupLogging applies the configured level and formatter to the standard
// logger.
func SetupLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
