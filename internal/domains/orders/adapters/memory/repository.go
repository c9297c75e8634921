// Package memory holds the in-memory order repository. The process owns
// the canonical record set for its lifetime; nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
	"github.com/marketfront/orderflow/internal/domains/orders/ports"
	"github.com/marketfront/orderflow/internal/pubsub"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Every committed
// status change is announced on the domain event bus.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	bus    *pubsub.Bus[domain.Event]
	now    func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithBus sets the bus domain events are emitted on.
func WithBus(bus *pubsub.Bus[domain.Event]) Option {
	return func(r *Repository) {
		r.bus = bus
	}
}

// WithClock overrides the commit-time source. Used by tests to observe
// UpdatedAt progression deterministically.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository constructs an empty repository.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		orders: map[string]*domain.Order{},
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// List returns a snapshot of all orders sorted by CreatedAt descending.
func (r *Repository) List(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, *order)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// GetByID returns the order or ports.ErrNotFound.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

// UpdateStatus writes status over whatever status the order held, stamps
// UpdatedAt with the commit time, stores a full replacement record, and
// emits an order-updated event carrying the updated record.
func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	r.mu.Lock()
	current, ok := r.orders[id]
	if !ok {
		r.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	previous := current.Status
	clone := *current
	clone.Status = status
	clone.UpdatedAt = r.commitTime(current.UpdatedAt)
	r.orders[id] = &clone
	updated := clone
	r.mu.Unlock()

	r.emit(domain.OrderUpdated{
		BaseEvent:      domain.BaseEvent{Timestamp: updated.UpdatedAt},
		Order:          updated,
		PreviousStatus: previous,
	})
	return &updated, nil
}

// Create assigns an id derived from the current repository size, stores
// the record with UpdatedAt set to creation time, and emits an
// order-created event.
func (r *Repository) Create(_ context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	now := r.now()
	order := newOrder(input, now)
	if err := order.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	order.ID = nextID(len(r.orders))
	r.orders[order.ID] = &order
	created := order
	r.mu.Unlock()

	r.emit(domain.OrderCreated{
		BaseEvent: domain.BaseEvent{Timestamp: created.CreatedAt},
		Order:     created,
	})
	return &created, nil
}

// Len reports the number of stored orders.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

func newOrder(input ports.CreateOrderInput, createdAt time.Time) domain.Order {
	status := input.Status
	if status == "" {
		status = domain.StatusPending
	}
	shipDate := input.ExpectedShipDate
	if shipDate.IsZero() {
		shipDate = createdAt.AddDate(0, 0, defaultLeadDays)
	}
	return domain.Order{
		Buyer:            input.Buyer,
		Supplier:         input.Supplier,
		Product:          input.Product,
		Quantity:         input.Quantity,
		Total:            input.Total,
		Status:           status,
		Region:           input.Region,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
		ExpectedShipDate: shipDate,
	}
}

const (
	idBase          = 1000
	defaultLeadDays = 5
)

func nextID(size int) string {
	return fmt.Sprintf("ORD-%d", idBase+size+1)
}

// commitTime returns the current clock reading, nudged forward when the
// clock has not advanced past the record's last update so UpdatedAt stays
// strictly increasing.
func (r *Repository) commitTime(last time.Time) time.Time {
	now := r.now()
	if !now.After(last) {
		return last.Add(time.Nanosecond)
	}
	return now
}

func (r *Repository) emit(event domain.Event) {
	if r.bus != nil {
		r.bus.Emit(event.EventName(), event)
	}
}
