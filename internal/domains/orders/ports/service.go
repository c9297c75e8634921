package ports

import (
	"context"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
)

// Service exposes the order use cases consumed by the HTTP boundary and
// by tests.
type Service interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
}
