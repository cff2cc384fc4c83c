package cart

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"storefront/client/internal/domain"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Storage persists the serialized cart. Load returns nil data and a nil
// error when nothing has been saved yet.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store owns the cart lines and writes them through Storage on every
// mutation. Storage failures are logged, never returned.
type Store struct {
	mu      sync.Mutex
	storage Storage
	items   []domain.LineItem
}

// NewStore creates a store and rehydrates it from storage. Missing or
// unreadable data yields an empty cart.
func NewStore(ctx context.Context, storage Storage) *Store {
	s := &Store{
		storage: storage,
		items:   make([]domain.LineItem, 0),
	}
	s.items = s.load(ctx)
	return s
}

// AddItem merges quantity into the line with the same product and variant,
// or appends a new line priced at the product's current price. A quantity
// below 1 is treated as 1. Merges are not clamped to stock.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int, variant domain.Variant) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(variant.Key(product.ID)); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.NewLineItem(product, quantity, variant))
	}

	s.persist(ctx)
}

// UpdateQuantity sets the quantity of a line, capped at its stock (or
// domain.DefaultStockLimit when stock is unknown). A quantity of zero or
// less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int, variant domain.Variant) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID, variant)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(variant.Key(productID))
	if i < 0 {
		return
	}

	s.items[i].Quantity = min(quantity, s.items[i].StockLimit())
	s.persist(ctx)
}

// RemoveItem deletes the matching line. Unknown lines are ignored.
func (s *Store) RemoveItem(ctx context.Context, productID int64, variant domain.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := variant.Key(productID)
	s.items = slices.DeleteFunc(s.items, func(item domain.LineItem) bool {
		return item.Key() == key
	})

	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]domain.LineItem, 0)
	s.persist(ctx)
}

// Total is the sum of unit price times quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count is the number of units in the cart, not the number of lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in the order they were added.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Store) indexOf(key domain.LineKey) int {
	return slices.IndexFunc(s.items, func(item domain.LineItem) bool {
		return item.Key() == key
	})
}

func (s *Store) persist(ctx context.Context) {
	if s.storage == nil {
		return
	}

	data, err := Marshal(s.items)
	if err != nil {
		log.Warnf("⚠️ Failed to serialize cart: %v", err)
		return
	}

	if err := s.storage.Save(ctx, data); err != nil {
		log.Warnf("⚠️ Failed to persist cart: %v", err)
		return
	}

	log.Debugf("Persisted cart with %d lines", len(s.items))
}

func (s *Store) load(ctx context.Context) []domain.LineItem {
	if s.storage == nil {
		return make([]domain.LineItem, 0)
	}

	data, err := s.storage.Load(ctx)
	if err != nil {
		log.Warnf("⚠️ Failed to load saved cart, starting empty: %v", err)
		return make([]domain.LineItem, 0)
	}
	if len(data) == 0 {
		return make([]domain.LineItem, 0)
	}

	items, err := Unmarshal(data)
	if err != nil {
		log.Warnf("⚠️ Saved cart is corrupt, starting empty: %v", err)
		return make([]domain.LineItem, 0)
	}

	log.Debugf("Restored cart with %d lines", len(items))
	return items
}

// Marshal encodes lines in the persisted cart format: a JSON array of
// line records.
func Marshal(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = make([]domain.LineItem, 0)
	}
	return json.Marshal(items)
}

// Unmarshal decodes a persisted cart. Lines with a quantity below 1 are
// dropped.
func Unmarshal(data []byte) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return make([]domain.LineItem, 0), nil
	}

	return slices.DeleteFunc(items, func(item domain.LineItem) bool {
		return item.Quantity < 1
	}), nil
}
