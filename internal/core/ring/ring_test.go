package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopFIFO(t *testing.T) {
	b := New[int](4)
	for i := 1; i <= 4; i++ {
		require.True(t, b.TryPush(i))
	}
	for i := 1; i <= 4; i++ {
		v, ok := b.TryPop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := b.TryPop()
	assert.False(t, ok, "drained buffer must report empty")
}

func TestRejectWhenFull(t *testing.T) {
	b := New[string](2)
	require.True(t, b.TryPush("a"))
	require.True(t, b.TryPush("b"))

	assert.False(t, b.TryPush("c"), "full buffer must reject, not grow")
	assert.True(t, b.IsFull())
	assert.Equal(t, 2, b.Count())

	v, ok := b.TryPop()
	require.True(t, ok)
	assert.Equal(t, "a", v, "rejected push must not displace the oldest element")
}

func TestCapacityRounding(t *testing.T) {
	cases := []struct {
		requested int
		capacity  int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{1000, 1024},
		{1024, 1024},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.capacity, New[int](tc.requested).Capacity(), "requested %d", tc.requested)
	}
}

func TestWraparound(t *testing.T) {
	b := New[int](4)
	for i := 0; i < 3; i++ {
		require.True(t, b.TryPush(i))
	}
	// Cycle far more elements than the capacity so both indices wrap the
	// mask many times; order must hold throughout.
	next := 0
	for i := 3; i < 200; i++ {
		v, ok := b.TryPop()
		require.True(t, ok)
		require.Equal(t, next, v)
		next++
		require.True(t, b.TryPush(i))
	}
	assert.Equal(t, 3, b.Count())
}

func TestClear(t *testing.T) {
	b := New[int](8)
	for i := 0; i < 5; i++ {
		b.TryPush(i)
	}
	b.Clear()

	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, 8, b.Capacity(), "clear must not shrink the backing array")

	require.True(t, b.TryPush(42))
	v, ok := b.TryPop()
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestPopZeroesSlot(t *testing.T) {
	b := New[*int](2)
	x := 7
	require.True(t, b.TryPush(&x))
	v, ok := b.TryPop()
	require.True(t, ok)
	require.NotNil(t, v)

	// The vacated slot must not pin the handle.
	assert.Nil(t, b.slots[0])
}
