package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_RejectsBadFields(t *testing.T) {
	order := Order{Quantity: 0, Total: 10, Status: StatusPending}
	require.ErrorIs(t, order.Validate(), ErrInvalidQuantity)

	order = Order{Quantity: 1, Total: -1, Status: StatusPending}
	require.ErrorIs(t, order.Validate(), ErrInvalidTotal)

	order = Order{Quantity: 1, Total: 10, Status: Status("shipped")}
	require.ErrorIs(t, order.Validate(), ErrInvalidStatus)
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusProcessing, StatusFulfilled, StatusCancelled} {
		require.True(t, IsValidStatus(status), string(status))
	}
	require.False(t, IsValidStatus(""))
	require.False(t, IsValidStatus("shipped"))
}

func TestCanTransition_LifecycleGraph(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusFulfilled, false},
		{StatusProcessing, StatusFulfilled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusFulfilled, StatusPending, false},
		{StatusFulfilled, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusFulfilled, StatusFulfilled, true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
