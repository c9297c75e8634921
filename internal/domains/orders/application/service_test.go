package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
	"github.com/marketfront/orderflow/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	orders      map[string]*domain.Order
	updateCalls int
	createCalls int
}

func newFakeOrderRepo(orders ...domain.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: map[string]*domain.Order{}}
	for _, order := range orders {
		clone := order
		repo.orders[order.ID] = &clone
	}
	return repo
}

func (f *fakeOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	list := make([]domain.Order, 0, len(f.orders))
	for _, order := range f.orders {
		list = append(list, *order)
	}
	return list, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Order, error) {
	f.updateCalls++
	order, ok := f.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	clone.Status = status
	clone.UpdatedAt = clone.UpdatedAt.Add(time.Second)
	f.orders[id] = &clone
	result := clone
	return &result, nil
}

func (f *fakeOrderRepo) Create(_ context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	f.createCalls++
	order := domain.Order{
		ID:       "ORD-2001",
		Buyer:    input.Buyer,
		Supplier: input.Supplier,
		Product:  input.Product,
		Quantity: input.Quantity,
		Total:    input.Total,
		Status:   domain.StatusPending,
		Region:   input.Region,
	}
	f.orders[order.ID] = &order
	clone := order
	return &clone, nil
}

func pendingOrder(id string) domain.Order {
	return domain.Order{
		ID:       id,
		Buyer:    "Aurora Retail",
		Supplier: "Pacific Mills",
		Product:  "Canvas Tote",
		Quantity: 2,
		Total:    48,
		Status:   domain.StatusPending,
		Region:   "us-west",
	}
}

func TestUpdateOrderStatus_BlankIDRejectedBeforeRepository(t *testing.T) {
	repo := newFakeOrderRepo(pendingOrder("ORD-1001"))
	svc := NewService(repo)

	_, err := svc.UpdateOrderStatus(context.Background(), "   ", domain.StatusProcessing)
	require.ErrorIs(t, err, ErrBlankOrderID)
	require.Zero(t, repo.updateCalls)
}

func TestUpdateOrderStatus_InvalidStatusRejectedBeforeRepository(t *testing.T) {
	repo := newFakeOrderRepo(pendingOrder("ORD-1001"))
	svc := NewService(repo)

	_, err := svc.UpdateOrderStatus(context.Background(), "ORD-1001", domain.Status("shipped"))
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	require.Zero(t, repo.updateCalls)
}

func TestUpdateOrderStatus_NotFoundPropagates(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	_, err := svc.UpdateOrderStatus(context.Background(), "ORD-9999", domain.StatusProcessing)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateOrderStatus_AppliesTransition(t *testing.T) {
	repo := newFakeOrderRepo(pendingOrder("ORD-1001"))
	svc := NewService(repo)

	updated, err := svc.UpdateOrderStatus(context.Background(), "ORD-1001", domain.StatusProcessing)
	require.NoError(t, err)
	require.Equal(t, domain.StatusProcessing, updated.Status)
}

func TestUpdateOrderStatus_UnconstrainedByDefault(t *testing.T) {
	order := pendingOrder("ORD-1001")
	order.Status = domain.StatusFulfilled
	svc := NewService(newFakeOrderRepo(order))

	// Administrative override: fulfilled back to pending is accepted.
	updated, err := svc.UpdateOrderStatus(context.Background(), "ORD-1001", domain.StatusPending)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, updated.Status)
}

func TestUpdateOrderStatus_StrictModeRejectsIllegalTransition(t *testing.T) {
	order := pendingOrder("ORD-1001")
	order.Status = domain.StatusFulfilled
	repo := newFakeOrderRepo(order)
	svc := NewService(repo, WithStrictTransitions())

	_, err := svc.UpdateOrderStatus(context.Background(), "ORD-1001", domain.StatusPending)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)
	require.Zero(t, repo.updateCalls)
}

func TestUpdateOrderStatus_StrictModeAllowsLegalTransition(t *testing.T) {
	repo := newFakeOrderRepo(pendingOrder("ORD-1001"))
	svc := NewService(repo, WithStrictTransitions())

	updated, err := svc.UpdateOrderStatus(context.Background(), "ORD-1001", domain.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, updated.Status)
}

func TestGetOrder_BlankID(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	_, err := svc.GetOrder(context.Background(), "")
	require.ErrorIs(t, err, ErrBlankOrderID)
}

func TestCreateOrder_TrimsDescriptiveFields(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	order, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		Buyer:    "  Aurora Retail ",
		Supplier: " Pacific Mills",
		Product:  "Canvas Tote ",
		Quantity: 1,
		Total:    24,
	})
	require.NoError(t, err)
	require.Equal(t, "Aurora Retail", order.Buyer)
	require.Equal(t, "Pacific Mills", order.Supplier)
	require.Equal(t, "Canvas Tote", order.Product)
	require.Equal(t, 1, repo.createCalls)
}
