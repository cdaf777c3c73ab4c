package cart

import (
	"context"
	"sync"

	"tienda-gateway/models"
)

// Persister is the persistence port for cart snapshots. Implementations
// must treat an unknown session as an empty cart, not an error.
type Persister interface {
	Load(ctx context.Context, sessionID string) ([]models.LineItem, error)
	Save(ctx context.Context, sessionID string, items []models.LineItem) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryPersister keeps cart snapshots in process memory. It backs the
// CART_STORE=memory mode and the test suite.
type MemoryPersister struct {
	mu    sync.RWMutex
	carts map[string][]models.LineItem
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{carts: make(map[string][]models.LineItem)}
}

func (p *MemoryPersister) Load(_ context.Context, sessionID string) ([]models.LineItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	items := p.carts[sessionID]
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out, nil
}

func (p *MemoryPersister) Save(_ context.Context, sessionID string, items []models.LineItem) error {
	snapshot := make([]models.LineItem, len(items))
	copy(snapshot, items)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.carts[sessionID] = snapshot
	return nil
}

func (p *MemoryPersister) Delete(_ context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.carts, sessionID)
	return nil
}
