package service

import (
	"context"
	"fmt"

	"storefront/client/internal/cart"
	"storefront/client/internal/catalog"
	"storefront/client/internal/client"
	"storefront/client/internal/domain"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	client client.StorefrontClient
	cart   *cart.Store
	filter *catalog.Filter
}

func NewService(
	client client.StorefrontClient,
	cart *cart.Store,
	filter *catalog.Filter,
) *Service {
	return &Service{
		client: client,
		cart:   cart,
		filter: filter,
	}
}

func (s *Service) Cart() *cart.Store {
	return s.cart
}

// LoadSnapshot fetches categories and products concurrently. Any failure
// abandons the whole load; there is no retry.
func (s *Service) LoadSnapshot(ctx context.Context) (catalog.Snapshot, error) {
	var snapshot catalog.Snapshot

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		categories, err := s.client.ListCategories(ctx)
		if err != nil {
			return err
		}
		snapshot.Categories = categories
		return nil
	})

	g.Go(func() error {
		products, err := s.client.ListProducts(ctx)
		if err != nil {
			return err
		}
		snapshot.Products = products
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Errorf("❌ Failed to load catalog: %v", err)
		return catalog.Snapshot{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	log.Debugf("Loaded catalog snapshot: %d categories, %d products",
		len(snapshot.Categories), len(snapshot.Products))
	return snapshot, nil
}

func (s *Service) Browse(ctx context.Context, criteria catalog.Criteria) (catalog.Result, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return catalog.Result{}, err
	}

	browser := catalog.NewBrowser(s.filter, snapshot, criteria)
	return browser.Result(), nil
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return s.client.GetProduct(ctx, id)
}

// AddToCart fetches the product, checks the variant selection and adds the
// requested quantity, bounded to [1, stock], to the cart.
func (s *Service) AddToCart(ctx context.Context, id int64, quantity int, variant domain.Variant) (*domain.Product, error) {
	product, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.ValidateVariant(variant); err != nil {
		return nil, err
	}

	quantity = product.ClampQuantity(quantity)
	s.cart.AddItem(ctx, *product, quantity, variant)

	log.Infof("🛒 Added %d x %s to cart", quantity, product.Name)
	return product, nil
}
