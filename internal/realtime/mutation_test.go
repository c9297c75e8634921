package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
)

func TestBeginMutation_CapturesPreviousAndDerivesOptimistic(t *testing.T) {
	previous := domain.Order{ID: "ORD-1001", Status: domain.StatusPending, Quantity: 2}

	m := beginMutation("ORD-1001", &previous, domain.StatusProcessing)

	require.True(t, m.hadRecord)
	require.Equal(t, previous, m.previous)
	require.Equal(t, domain.StatusProcessing, m.optimistic.Status)
	// Everything except status carries over from the previous record.
	require.Equal(t, previous.Quantity, m.optimistic.Quantity)
	require.Nil(t, m.committed)
}

func TestBeginMutation_WithoutCachedRecord(t *testing.T) {
	m := beginMutation("ORD-1001", nil, domain.StatusCancelled)

	require.False(t, m.hadRecord)
	require.Equal(t, "ORD-1001", m.optimistic.ID)
	require.Equal(t, domain.StatusCancelled, m.optimistic.Status)

	_, ok := m.rollback()
	require.False(t, ok)
}

func TestRollback_IsRestoreOfPreviousValue(t *testing.T) {
	previous := domain.Order{ID: "ORD-1001", Status: domain.StatusPending}
	m := beginMutation("ORD-1001", &previous, domain.StatusProcessing)

	restored, ok := m.rollback()
	require.True(t, ok)
	require.Equal(t, previous, restored)
}

func TestCommit_PrefersServerRecordOverOptimisticGuess(t *testing.T) {
	previous := domain.Order{ID: "ORD-1001", Status: domain.StatusPending}
	m := beginMutation("ORD-1001", &previous, domain.StatusProcessing)

	confirmed := previous
	confirmed.Status = domain.StatusProcessing
	confirmed.UpdatedAt = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	got := m.commit(confirmed)
	require.Equal(t, confirmed, got)
	require.Equal(t, &confirmed, m.committed)
	require.NotEqual(t, m.optimistic.UpdatedAt, got.UpdatedAt)
}
