package ports

import (
	"context"
	"errors"
	"time"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
)

// ErrNotFound indicates the order does not exist in the repository.
var ErrNotFound = errors.New("order not found")

// CreateOrderInput carries the caller-supplied fields of a new order.
type CreateOrderInput struct {
	Buyer            string
	Supplier         string
	Product          string
	Quantity         int
	Total            int64
	Status           domain.Status
	Region           string
	ExpectedShipDate time.Time
}

// Repository is the canonical order store. It is the single source of
// truth; every copy held elsewhere is a cache.
type Repository interface {
	// List returns a snapshot of all orders sorted by creation time,
	// most recent first.
	List(ctx context.Context) ([]domain.Order, error)
	// GetByID returns the order or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus writes status, stamps UpdatedAt, and returns the
	// updated record. Returns ErrNotFound for an unknown id.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	// Create stores a new order and returns it.
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
}
