package domain

import "time"

// Event names published on the order buses.
const (
	EventOrderCreated      = "orders.order.created"
	EventOrderUpdated      = "orders.order.updated"
	EventOrderStatusFailed = "orders.order.status_failed"
)

// Event is the base interface for all order events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderCreated is raised after a new order is stored.
type OrderCreated struct {
	BaseEvent
	Order Order
}

// EventName returns the event type identifier.
func (e OrderCreated) EventName() string {
	return EventOrderCreated
}

// OrderUpdated is raised after a status change is committed. It carries
// the full updated record so consumers can replace cached copies without
// a re-fetch.
type OrderUpdated struct {
	BaseEvent
	Order          Order
	PreviousStatus Status
}

// EventName returns the event type identifier.
func (e OrderUpdated) EventName() string {
	return EventOrderUpdated
}

// OrderStatusFailed is broadcast on the client-side bus when an
// optimistic status change could not be confirmed and was rolled back.
type OrderStatusFailed struct {
	BaseEvent
	OrderID string
	Message string
}

// EventName returns the event type identifier.
func (e OrderStatusFailed) EventName() string {
	return EventOrderStatusFailed
}
