package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects a checkout before any network call is made.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCheckoutInProgress guards against a double-submitted checkout for
	// the same session.
	ErrCheckoutInProgress = errors.New("a checkout is already in progress for this session")
)

// ProductNotFoundError means a cart line item references a product the
// upstream no longer knows.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError means a line item carried a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %s", e.Quantity, e.ProductID)
}

// InsufficientStockError aborts the whole checkout; no stock is decremented.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// ConnectivityError wraps a network failure during the pre-commit reads.
// Nothing has been written when it is returned.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("could not reach the catalog service: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// PartialCommitError reports a failure after some stock decrements may
// already have been applied. The cart is left intact so the shopper can
// retry; a retry re-validates against post-failure stock and therefore can
// only under-buy, never oversell.
type PartialCommitError struct {
	FailedProducts []string
	Err            error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("checkout failed while updating stock (products %v); some items may already be decremented: %v",
		e.FailedProducts, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }
