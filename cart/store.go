// Package cart holds the authoritative local cart state for every shopper
// session and writes it through a pluggable persistence port.
package cart

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"tienda-gateway/models"
)

// StockResolver lets the store cap added quantities to known stock when a
// catalog snapshot is available. It is optional: without one, quantities
// are unbounded here and checkout enforces the real limit.
type StockResolver interface {
	Resolve(productID string) (models.Product, bool)
}

// Store is the single source of truth for what each session intends to
// buy. Carts live in memory and are persisted after every mutation; a
// persistence failure is logged and swallowed because the in-memory cart
// stays authoritative for the session.
type Store struct {
	persister Persister
	stock     StockResolver
	logger    zerolog.Logger

	mu     sync.RWMutex
	carts  map[string][]models.LineItem
	loaded map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithStockResolver enables the add-time stock cap.
func WithStockResolver(r StockResolver) Option {
	return func(s *Store) { s.stock = r }
}

func NewStore(persister Persister, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		logger:    logger.With().Str("component", "cart-store").Logger(),
		carts:     make(map[string][]models.LineItem),
		loaded:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddItem merges the reference into the session's cart: an existing line
// item for the same product has its quantity incremented, a new product is
// appended preserving insertion order. Quantities below 1 count as 1.
func (s *Store) AddItem(ctx context.Context, sessionID string, ref models.LineItem) {
	qty := ref.Quantity
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx, sessionID)

	items := s.carts[sessionID]
	merged := false
	for i := range items {
		if items[i].ProductID == ref.ProductID {
			items[i].Quantity = s.capToStock(ref.ProductID, items[i].Quantity+qty)
			merged = true
			break
		}
	}
	if !merged {
		ref.Quantity = s.capToStock(ref.ProductID, qty)
		items = append(items, ref)
	}

	s.carts[sessionID] = items
	s.persist(ctx, sessionID, items)
}

// RemoveItem deletes the line item entirely. Removing an absent product is
// a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, sessionID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx, sessionID)

	items := s.carts[sessionID]
	for i := range items {
		if items[i].ProductID == productID {
			items = append(items[:i], items[i+1:]...)
			s.carts[sessionID] = items
			s.persist(ctx, sessionID, items)
			return
		}
	}
}

// UpdateQuantity sets the quantity to max(1, floor(qty)). Updating a
// product that is not in the cart is a no-op. Removal is an explicit
// operation, never quantity zero.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, productID string, qty float64) {
	n := 1
	if !math.IsNaN(qty) && qty > 1 {
		n = int(math.Floor(qty))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx, sessionID)

	items := s.carts[sessionID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = s.capToStock(productID, n)
			s.persist(ctx, sessionID, items)
			return
		}
	}
}

// Clear empties the session's cart.
func (s *Store) Clear(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded[sessionID] = true
	delete(s.carts, sessionID)

	if err := s.persister.Delete(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to clear persisted cart")
	}
}

// Items returns the session's line items in insertion order. The returned
// slice is a copy; callers cannot mutate store state through it.
func (s *Store) Items(ctx context.Context, sessionID string) []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx, sessionID)

	items := s.carts[sessionID]
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out
}

// ensureLoaded restores a session's cart from the persister once. Callers
// must hold s.mu.
func (s *Store) ensureLoaded(ctx context.Context, sessionID string) {
	if s.loaded[sessionID] {
		return
	}
	s.loaded[sessionID] = true

	items, err := s.persister.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to restore cart, starting empty")
		return
	}
	if len(items) > 0 {
		s.carts[sessionID] = sanitize(items)
	}
}

func (s *Store) persist(ctx context.Context, sessionID string, items []models.LineItem) {
	if err := s.persister.Save(ctx, sessionID, items); err != nil {
		// Recoverable: the in-memory cart remains authoritative.
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("cart persistence failed")
	}
}

func (s *Store) capToStock(productID string, qty int) int {
	if qty < 1 {
		qty = 1
	}
	if s.stock == nil {
		return qty
	}
	product, ok := s.stock.Resolve(productID)
	if !ok {
		return qty
	}
	if product.Stock >= 1 && qty > product.Stock {
		return product.Stock
	}
	return qty
}

// sanitize enforces the cart invariants on restored data: quantity >= 1 and
// at most one line item per product id.
func sanitize(items []models.LineItem) []models.LineItem {
	seen := make(map[string]bool, len(items))
	out := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		out = append(out, item)
	}
	return out
}
