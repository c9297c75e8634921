package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
	"github.com/marketfront/orderflow/internal/domains/orders/ports"
)

// Service orchestrates the order use cases.
type Service struct {
	repo              ports.Repository
	strictTransitions bool
}

// Option configures a Service.
type Option func(*Service)

// WithStrictTransitions enables the validated lifecycle graph. Without
// it any of the four statuses may be written over any other, preserving
// the administrative-override behavior.
func WithStrictTransitions() Option {
	return func(s *Service) {
		s.strictTransitions = true
	}
}

// NewService wires the use cases to a repository.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListOrders returns the repository snapshot, most recent first.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// GetOrder returns the order or ports.ErrNotFound.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrBlankOrderID
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateOrderStatus validates the request and applies the transition.
// Validation failures never reach the repository.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrBlankOrderID
	}
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if s.strictTransitions {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !domain.CanTransition(current.Status, status) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, current.Status, status)
		}
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// CreateOrder stores a new order. Not reachable through the HTTP
// boundary in this deployment; kept for completeness and tests.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	input.Buyer = strings.TrimSpace(input.Buyer)
	input.Supplier = strings.TrimSpace(input.Supplier)
	input.Product = strings.TrimSpace(input.Product)
	return s.repo.Create(ctx, input)
}

var _ ports.Service = (*Service)(nil)
