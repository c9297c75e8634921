package realtime

import (
	"github.com/marketfront/orderflow/internal/domains/orders/domain"
)

// mutation tracks one in-flight optimistic status change as an explicit
// three-state value: the pre-mutation record, the optimistic guess, and
// the server-confirmed record once it arrives. Rollback is then purely
// "restore previous".
type mutation struct {
	previous   domain.Order
	hadRecord  bool
	optimistic domain.Order
	committed  *domain.Order
}

// beginMutation captures the pre-mutation record and derives the
// optimistic copy. previous may be nil when the record is not cached.
func beginMutation(id string, previous *domain.Order, status domain.Status) mutation {
	m := mutation{}
	if previous != nil {
		m.previous = *previous
		m.hadRecord = true
		m.optimistic = *previous
	} else {
		m.optimistic = domain.Order{ID: id}
	}
	m.optimistic.Status = status
	return m
}

// commit records the authoritative server copy. The confirmed record,
// not the optimistic guess, is what lands in the cache.
func (m *mutation) commit(confirmed domain.Order) domain.Order {
	m.committed = &confirmed
	return confirmed
}

// rollback returns the pre-mutation record and whether one existed; a
// false result means the optimistic entry should simply be dropped.
func (m *mutation) rollback() (domain.Order, bool) {
	return m.previous, m.hadRecord
}
