// Package checkout orchestrates the stock-validated purchase flow: fresh
// pre-commit reads, exhaustive validation, and the stock decrement against
// the upstream catalog. It is the only code allowed to mutate server-side
// stock.
package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tienda-gateway/cart"
	"tienda-gateway/catalog"
	"tienda-gateway/models"
	"tienda-gateway/pricing"
)

// Catalog is the slice of the upstream client the coordinator needs.
type Catalog interface {
	FetchProduct(ctx context.Context, id string) (models.Product, error)
	UpdateStock(ctx context.Context, product models.Product, newStock int) (models.Product, error)
}

// Coordinator runs checkouts. One instance serves all sessions; an
// in-flight guard rejects a second checkout for a session that already has
// one running.
type Coordinator struct {
	store   *cart.Store
	catalog Catalog
	logger  zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewCoordinator(store *cart.Store, cat Catalog, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:    store,
		catalog:  cat,
		logger:   logger.With().Str("component", "checkout").Logger(),
		inFlight: make(map[string]bool),
	}
}

// Checkout validates the session's cart against fresh upstream reads, then
// decrements stock for every item and clears the cart. The protocol is
// all-or-nothing in effect but not transactional on the server: a network
// failure during the commit phase surfaces as a PartialCommitError.
//
// The coupon, if any, only affects the totals on the returned summary. An
// invalid coupon never blocks checkout; callers pass nil for none.
func (c *Coordinator) Checkout(ctx context.Context, sessionID string, coupon *models.Coupon) (*models.PurchaseSummary, error) {
	if !c.acquire(sessionID) {
		return nil, ErrCheckoutInProgress
	}
	defer c.release(sessionID)

	items := c.store.Items(ctx, sessionID)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	products, err := c.preCommitRead(ctx, items)
	if err != nil {
		return nil, err
	}

	// Validation is exhaustive over the fan-in result: every item is
	// checked before any decrement is attempted, and the first failing
	// item (in cart order) aborts with no partial effects.
	if err := validate(items, products); err != nil {
		c.logger.Info().Err(err).Str("session", sessionID).Msg("checkout validation failed")
		return nil, err
	}

	if err := c.commit(ctx, sessionID, items, products); err != nil {
		return nil, err
	}

	summary := buildSummary(items, products, coupon)
	c.store.Clear(ctx, sessionID)
	c.logger.Info().
		Str("session", sessionID).
		Str("purchase", summary.ID.String()).
		Float64("total", summary.Total).
		Int("items", len(summary.Items)).
		Msg("checkout completed")
	return summary, nil
}

// preCommitRead fetches every product fresh from the upstream, bypassing
// the display snapshot. Reads fan out concurrently; a missing product is
// recorded as absent for validation, while a network failure aborts the
// whole read.
func (c *Coordinator) preCommitRead(ctx context.Context, items []models.LineItem) (map[string]models.Product, error) {
	var (
		mu       sync.Mutex
		products = make(map[string]models.Product, len(items))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		g.Go(func() error {
			product, err := c.catalog.FetchProduct(gctx, item.ProductID)
			if errors.Is(err, catalog.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			products[item.ProductID] = product
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn().Err(err).Msg("pre-commit read failed")
		return nil, &ConnectivityError{Err: err}
	}
	return products, nil
}

func validate(items []models.LineItem, products map[string]models.Product) error {
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return &ProductNotFoundError{ProductID: item.ProductID}
		}
		if item.Quantity <= 0 {
			return &InvalidQuantityError{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		if product.Stock < item.Quantity {
			return &InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   item.Quantity,
			}
		}
	}
	return nil
}

// commit decrements stock for every item. The writes are issued
// concurrently and independently; there is no cross-item transaction on
// the server, so a failure partway leaves earlier decrements applied.
// Every failed product is logged individually for operator reconciliation.
func (c *Coordinator) commit(ctx context.Context, sessionID string, items []models.LineItem, products map[string]models.Product) error {
	var (
		mu     sync.Mutex
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		product := products[item.ProductID]
		newStock := product.Stock - item.Quantity
		g.Go(func() error {
			if _, err := c.catalog.UpdateStock(gctx, product, newStock); err != nil {
				c.logger.Warn().Err(err).
					Str("session", sessionID).
					Str("product", item.ProductID).
					Msg("stock decrement failed")
				mu.Lock()
				failed = append(failed, item.ProductID)
				mu.Unlock()
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return &PartialCommitError{FailedProducts: failed, Err: err}
	}
	return nil
}

// buildSummary prices the purchase from the pre-commit read data and the
// requested quantities; no second fetch happens after the commit.
func buildSummary(items []models.LineItem, products map[string]models.Product, coupon *models.Coupon) *models.PurchaseSummary {
	purchased := make([]models.PurchasedItem, 0, len(items))
	var subtotal float64
	for _, item := range items {
		product := products[item.ProductID]
		lineTotal := product.Price * float64(item.Quantity)
		subtotal += lineTotal
		purchased = append(purchased, models.PurchasedItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  lineTotal,
		})
	}

	percent := 0
	if coupon != nil {
		percent = coupon.DiscountPercent
	}

	return &models.PurchaseSummary{
		ID:              uuid.New(),
		Items:           purchased,
		Subtotal:        subtotal,
		DiscountPercent: percent,
		Total:           pricing.ApplyDiscount(subtotal, percent),
		CompletedAt:     time.Now(),
	}
}

func (c *Coordinator) acquire(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[sessionID] {
		return false
	}
	c.inFlight[sessionID] = true
	return true
}

func (c *Coordinator) release(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, sessionID)
}
