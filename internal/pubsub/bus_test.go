package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmit_InvokesHandlersInRegistrationOrder(t *testing.T) {
	bus := NewBus[string]()
	var got []string
	bus.On("ping", func(p string) { got = append(got, "first:"+p) })
	bus.On("ping", func(p string) { got = append(got, "second:"+p) })

	bus.Emit("ping", "a")
	bus.Emit("ping", "b")

	require.Equal(t, []string{"first:a", "second:a", "first:b", "second:b"}, got)
}

func TestEmit_OnlyReachesMatchingEvent(t *testing.T) {
	bus := NewBus[int]()
	var got []int
	bus.On("one", func(p int) { got = append(got, p) })
	bus.On("two", func(p int) { got = append(got, p*10) })

	bus.Emit("one", 1)

	require.Equal(t, []int{1}, got)
}

func TestOff_RemovesHandlerAndIsIdempotent(t *testing.T) {
	bus := NewBus[int]()
	calls := 0
	sub := bus.On("tick", func(int) { calls++ })

	bus.Emit("tick", 1)
	sub.Off()
	sub.Off()
	bus.Off(sub)
	bus.Emit("tick", 2)

	require.Equal(t, 1, calls)
	require.Zero(t, bus.Len("tick"))
}

func TestOnce_DeliversExactlyOnce(t *testing.T) {
	bus := NewBus[int]()
	calls := 0
	bus.Once("tick", func(int) { calls++ })

	bus.Emit("tick", 1)
	bus.Emit("tick", 2)

	require.Equal(t, 1, calls)
}

func TestEmit_PanickingHandlerDoesNotStopLaterHandlers(t *testing.T) {
	bus := NewBus[int]()
	var got []int
	bus.On("tick", func(int) { panic("boom") })
	bus.On("tick", func(p int) { got = append(got, p) })

	require.NotPanics(t, func() { bus.Emit("tick", 7) })
	require.Equal(t, []int{7}, got)
}

func TestEmit_HandlerRemovedMidEmitIsSkipped(t *testing.T) {
	bus := NewBus[int]()
	var second *Subscription[int]
	calls := 0
	bus.On("tick", func(int) { second.Off() })
	second = bus.On("tick", func(int) { calls++ })

	bus.Emit("tick", 1)
	bus.Emit("tick", 2)

	require.Zero(t, calls)
}

func TestEmit_HandlerRegisteredMidEmitWaitsForNextEmit(t *testing.T) {
	bus := NewBus[int]()
	lateCalls := 0
	bus.Once("tick", func(int) {
		bus.On("tick", func(int) { lateCalls++ })
	})

	bus.Emit("tick", 1)
	require.Zero(t, lateCalls)

	bus.Emit("tick", 2)
	require.Equal(t, 1, lateCalls)
}

func TestClear_DropsAllRegistrations(t *testing.T) {
	bus := NewBus[int]()
	calls := 0
	bus.On("a", func(int) { calls++ })
	bus.On("b", func(int) { calls++ })

	bus.Clear()
	bus.Emit("a", 1)
	bus.Emit("b", 1)

	require.Zero(t, calls)
	require.Zero(t, bus.Len("a"))
	require.Zero(t, bus.Len("b"))
}
