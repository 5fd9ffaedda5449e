package ring

import (
	"github.com/stretchr/testify/require"
	"testing"
)

// TestRing_Init verifies ring initialization.
func TestRing_Init(t *testing.T) {
	var r Ring[int]
	r.Init(10)

	require.NotNil(t, r.buf)
	require.Equal(t, 10, r.Cap())
	require.Equal(t, 0, r.Len())
	require.True(t, r.Empty())
}

// TestRing_Init_MinSize verifies that Init enforces minimum capacity.
func TestRing_Init_MinSize(t *testing.T) {
	var r Ring[int]
	r.Init(0)

	require.Equal(t, 1, r.Cap())
}

// TestRing_TryPushTryPop verifies basic push/pop operations.
func TestRing_TryPushTryPop(t *testing.T) {
	var r Ring[string]
	r.Init(3)

	require.True(t, r.TryPush("a"))
	require.True(t, r.TryPush("b"))
	require.True(t, r.TryPush("c"))

	v, ok := r.TryPop()
	require.True(t, ok)
	require.Equal(t, "a", v)

	v, ok = r.TryPop()
	require.True(t, ok)
	require.Equal(t, "b", v)

	v, ok = r.TryPop()
	require.True(t, ok)
	require.Equal(t, "c", v)

	_, ok = r.TryPop()
	require.False(t, ok)
}

// TestRing_Full verifies that the whole capacity is usable and nothing more.
func TestRing_Full(t *testing.T) {
	var r Ring[int]
	r.Init(2)

	require.True(t, r.TryPush(1))
	require.True(t, r.TryPush(2))
	require.True(t, r.Full())
	require.False(t, r.TryPush(3))
	require.Equal(t, 2, r.Len())
}

// TestRing_WrapAround verifies circular buffer behavior.
func TestRing_WrapAround(t *testing.T) {
	var r Ring[int]
	r.Init(3)

	require.True(t, r.TryPush(1))
	require.True(t, r.TryPush(2))
	v, _ := r.TryPop()
	require.Equal(t, 1, v)

	require.True(t, r.TryPush(3))
	require.True(t, r.TryPush(4))
	require.False(t, r.TryPush(5))

	for _, want := range []int{2, 3, 4} {
		v, ok := r.TryPop()
		require.True(t, ok)
		require.Equal(t, want, v)
	}
	require.True(t, r.Empty())
}
