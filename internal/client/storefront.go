package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/client/internal/config"
	"storefront/client/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

var errNotFound = errors.New("resource not found")

type StorefrontClient interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type storefrontClient struct {
	rl         ratelimit.Limiter
	config     config.APIConfig
	baseURL    string
	httpClient *resty.Client
	parser     *catalogParser
}

func NewStorefrontClient(cfg config.APIConfig) StorefrontClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(max(0, cfg.MaxRetries)).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "storefront-client/1.0")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &storefrontClient{
		rl:         rl,
		config:     cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
		parser:     newCatalogParser(),
	}
}

func (c *storefrontClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.fetchJSON(ctx, c.baseURL+c.config.CategoriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	categories, err := c.parser.ParseCategories(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	log.Debugf("Fetched %d categories", len(categories))
	return categories, nil
}

func (c *storefrontClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.fetchJSON(ctx, c.baseURL+c.config.ProductsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	products, err := c.parser.ParseProducts(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse products: %w", err)
	}

	log.Debugf("Fetched %d products", len(products))
	return products, nil
}

func (c *storefrontClient) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	url := c.baseURL + fmt.Sprintf(c.config.ProductPath, id)

	body, err := c.fetchJSON(ctx, url)
	if errors.Is(err, errNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}

	product, err := c.parser.ParseProduct(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product %d: %w", id, err)
	}

	log.Debugf("Fetched details for product %d", id)
	return product, nil
}

func (c *storefrontClient) fetchJSON(ctx context.Context, url string) ([]byte, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, errNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return []byte(resp.String()), nil
}
