package domain

import (
	"errors"
	"time"
)

// Status enumerates order lifecycle states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusFulfilled  Status = "fulfilled"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidTotal      = errors.New("total must not be negative")
	ErrIllegalTransition = errors.New("status transition is not allowed")
)

// Order models one purchase transaction between a buyer and a supplier.
// Status is the only field normal operation changes after creation.
type Order struct {
	ID               string    `json:"id"`
	Buyer            string    `json:"buyer"`
	Supplier         string    `json:"supplier"`
	Product          string    `json:"product"`
	Quantity         int       `json:"quantity"`
	Total            int64     `json:"total"`
	Status           Status    `json:"status"`
	Region           string    `json:"region"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	ExpectedShipDate time.Time `json:"expectedShipDate"`
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if o.Total < 0 {
		return ErrInvalidTotal
	}
	if !IsValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidStatus reports whether status is one of the four known states.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusFulfilled, StatusCancelled:
		return true
	default:
		return false
	}
}

// transitions is the validated lifecycle graph used in strict mode:
// pending -> processing -> fulfilled, with cancellation possible while
// the order is still pending or processing. Writing the current status
// over itself is always allowed.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusFulfilled, StatusCancelled},
	StatusFulfilled:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether the strict lifecycle graph permits
// moving from one status to another.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
