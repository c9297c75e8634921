// Package realtime keeps independently-mounted views of the order set
// eventually consistent with the server and with each other.
//
// Each view polls the service boundary on an interval and replaces its
// cache with the result. A status mutation is applied optimistically,
// rolled back on failure, and broadcast on the shared client-side bus so
// sibling views converge without re-fetching. After every mutation
// attempt one forced reconciliation fetch backstops any drift.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
	"github.com/marketfront/orderflow/internal/pubsub"
)

const (
	// DefaultPollInterval matches the 15 second reconciliation cadence
	// of the front end.
	DefaultPollInterval = 15 * time.Second
	// DefaultRequestTimeout bounds both the polling fetch and the
	// mutation request; a timeout counts as a transport failure.
	DefaultRequestTimeout = 10 * time.Second
)

// View is one UI surface's live, eventually-consistent order cache.
type View struct {
	id           string
	gateway      Gateway
	bus          *pubsub.Bus[domain.Event]
	logger       *slog.Logger
	pollInterval time.Duration
	timeout      time.Duration

	mu      sync.Mutex
	orders  []domain.Order
	loading bool
	lastErr error

	sub       *pubsub.Subscription[domain.Event]
	stop      chan struct{}
	closeOnce sync.Once
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithPollInterval overrides the reconciliation cadence.
func WithPollInterval(d time.Duration) ViewOption {
	return func(v *View) {
		if d > 0 {
			v.pollInterval = d
		}
	}
}

// WithRequestTimeout overrides the per-request deadline.
func WithRequestTimeout(d time.Duration) ViewOption {
	return func(v *View) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithViewLogger sets the view logger.
func WithViewLogger(logger *slog.Logger) ViewOption {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewView builds a view attached to the shared client bus and
// subscribes it to order-updated broadcasts.
func NewView(gateway Gateway, bus *pubsub.Bus[domain.Event], opts ...ViewOption) *View {
	v := &View{
		id:           uuid.NewString(),
		gateway:      gateway,
		bus:          bus,
		logger:       slog.Default(),
		pollInterval: DefaultPollInterval,
		timeout:      DefaultRequestTimeout,
		stop:         make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	if bus != nil {
		v.sub = bus.On(domain.EventOrderUpdated, v.onBroadcast)
	}
	return v
}

// ID identifies the view instance.
func (v *View) ID() string {
	return v.id
}

// Start performs the initial fetch and launches the polling loop. The
// loop runs until ctx is cancelled or Close is called.
func (v *View) Start(ctx context.Context) error {
	err := v.Refresh(ctx)
	go v.poll(ctx)
	return err
}

func (v *View) poll(ctx context.Context) {
	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := v.Refresh(ctx); err != nil {
				v.logger.Warn("order poll failed",
					slog.String("view.id", v.id),
					slog.String("error", err.Error()),
				)
			}
		case <-ctx.Done():
			return
		case <-v.stop:
			return
		}
	}
}

// Refresh re-fetches the full list and replaces the cache, discarding
// any optimistic state the result supersedes. It is also the hook for
// regained foreground focus.
func (v *View) Refresh(ctx context.Context) error {
	v.setLoading(true)
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	orders, err := v.gateway.ListOrders(ctx)
	v.mu.Lock()
	v.loading = false
	v.lastErr = err
	if err == nil {
		v.orders = orders
	}
	v.mu.Unlock()
	return err
}

// SetStatus applies status to one order optimistically, confirms it with
// the server, and broadcasts the outcome. On any failure the cache is
// rolled back to its pre-mutation value and exactly one failure event is
// emitted for the order. Either way one reconciliation fetch follows.
func (v *View) SetStatus(ctx context.Context, id string, status domain.Status) error {
	v.mu.Lock()
	var cached *domain.Order
	if idx := v.indexOf(id); idx >= 0 {
		clone := v.orders[idx]
		cached = &clone
	}
	m := beginMutation(id, cached, status)
	v.put(m.optimistic)
	v.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, v.timeout)
	confirmed, err := v.gateway.UpdateOrderStatus(reqCtx, id, status)
	cancel()

	if err != nil {
		v.mu.Lock()
		if previous, ok := m.rollback(); ok {
			v.put(previous)
		} else {
			v.remove(id)
		}
		v.lastErr = err
		v.mu.Unlock()
		v.emit(domain.OrderStatusFailed{
			BaseEvent: domain.BaseEvent{Timestamp: time.Now()},
			OrderID:   id,
			Message:   err.Error(),
		})
		v.reconcile(ctx)
		return fmt.Errorf("set status of order %s: %w", id, err)
	}

	committed := m.commit(*confirmed)
	v.mu.Lock()
	v.put(committed)
	v.lastErr = nil
	v.mu.Unlock()
	v.emit(domain.OrderUpdated{
		BaseEvent:      domain.BaseEvent{Timestamp: committed.UpdatedAt},
		Order:          committed,
		PreviousStatus: m.previous.Status,
	})
	v.reconcile(ctx)
	return nil
}

// reconcile is the post-mutation backstop fetch; its failure is logged,
// not propagated, because the mutation outcome already settled.
func (v *View) reconcile(ctx context.Context) {
	if err := v.Refresh(ctx); err != nil {
		v.logger.Warn("reconciliation fetch failed",
			slog.String("view.id", v.id),
			slog.String("error", err.Error()),
		)
	}
}

// onBroadcast merges a sibling view's confirmed update into the cache
// without a network request: replace by id, or prepend when unknown.
func (v *View) onBroadcast(event domain.Event) {
	updated, ok := event.(domain.OrderUpdated)
	if !ok {
		return
	}
	v.mu.Lock()
	v.put(updated.Order)
	v.mu.Unlock()
}

// Orders returns a snapshot of the cached list.
func (v *View) Orders() []domain.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	snapshot := make([]domain.Order, len(v.orders))
	copy(snapshot, v.orders)
	return snapshot
}

// Order returns the cached copy of one record.
func (v *View) Order(id string) (domain.Order, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if idx := v.indexOf(id); idx >= 0 {
		return v.orders[idx], true
	}
	return domain.Order{}, false
}

// Loading reports whether a fetch is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns the last fetch or mutation error, if any.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Close stops polling and detaches the view from the bus.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		close(v.stop)
		if v.sub != nil {
			v.sub.Off()
		}
	})
}

func (v *View) setLoading(loading bool) {
	v.mu.Lock()
	v.loading = loading
	v.mu.Unlock()
}

func (v *View) emit(event domain.Event) {
	if v.bus != nil {
		v.bus.Emit(event.EventName(), event)
	}
}

// put replaces the record with the same id, or prepends when the id is
// new to this view's cache. Callers hold v.mu.
func (v *View) put(order domain.Order) {
	if idx := v.indexOf(order.ID); idx >= 0 {
		v.orders[idx] = order
		return
	}
	v.orders = append([]domain.Order{order}, v.orders...)
}

// remove drops the record. Callers hold v.mu.
func (v *View) remove(id string) {
	if idx := v.indexOf(id); idx >= 0 {
		v.orders = append(v.orders[:idx], v.orders[idx+1:]...)
	}
}

// indexOf finds the cached record. Callers hold v.mu.
func (v *View) indexOf(id string) int {
	for i := range v.orders {
		if v.orders[i].ID == id {
			return i
		}
	}
	return -1
}
