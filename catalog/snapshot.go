package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"tienda-gateway/models"
)

// Snapshot is a read-through cache of the upstream product list, used to
// resolve cart line items to display-time price and stock. It is a
// snapshot, not a live view: display totals computed from it may lag the
// server until checkout re-validates against fresh reads.
type Snapshot struct {
	client *Client
	logger zerolog.Logger

	mu      sync.RWMutex
	byID    map[string]models.Product
	order   []string
	fetched bool
}

func NewSnapshot(client *Client, logger zerolog.Logger) *Snapshot {
	return &Snapshot{
		client: client,
		logger: logger.With().Str("component", "catalog-snapshot").Logger(),
		byID:   make(map[string]models.Product),
	}
}

// Refresh replaces the snapshot with a fresh product list. On failure the
// previous snapshot (possibly empty) is kept: a catalog outage must never
// take down the cart view.
func (s *Snapshot) Refresh(ctx context.Context) error {
	products, err := s.client.FetchProducts(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("catalog refresh failed, keeping stale snapshot")
		return err
	}

	byID := make(map[string]models.Product, len(products))
	order := make([]string, 0, len(products))
	for _, p := range products {
		id := p.ID.String()
		if _, dup := byID[id]; dup {
			continue
		}
		byID[id] = p
		order = append(order, id)
	}

	s.mu.Lock()
	s.byID = byID
	s.order = order
	s.fetched = true
	s.mu.Unlock()
	return nil
}

// Products returns the snapshot's product list, fetching it on first use.
// A failed fetch degrades to whatever is cached, which may be empty.
func (s *Snapshot) Products(ctx context.Context) []models.Product {
	s.mu.RLock()
	fetched := s.fetched
	s.mu.RUnlock()

	if !fetched {
		// Best effort; Refresh already logged the failure.
		_ = s.Refresh(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		products = append(products, s.byID[id])
	}
	return products
}

// Resolve returns the snapshot's record for a product id, or false when the
// product is unknown to the snapshot.
func (s *Snapshot) Resolve(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}
