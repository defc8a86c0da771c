package ring

// Buffer is a fixed-capacity circular FIFO of payload handles.
//
// Capacity is rounded up to the next power of two at construction so that
// wraparound is a single mask operation, and the backing storage is
// allocated exactly once. A push against a full buffer is rejected rather
// than growing or overwriting; the caller keeps ownership of the rejected
// value. The simulation core is single-threaded per tick, so the buffer
// carries no locking.
type Buffer[T any] struct {
	slots []T
	mask  uint64
	head  uint64 // read index, increments monotonically
	tail  uint64 // write index, increments monotonically
}

// New allocates a buffer holding at least requested elements. Values below
// one are treated as one.
func New[T any](requested int) *Buffer[T] {
	capacity := nextPowerOfTwo(requested)
	return &Buffer[T]{
		slots: make([]T, capacity),
		mask:  uint64(capacity - 1),
	}
}

// TryPush appends v at the tail. It returns false without mutating the
// buffer when full; the caller is responsible for recycling v back to
// whatever pool owns it.
func (b *Buffer[T]) TryPush(v T) bool {
	if b.tail-b.head > b.mask {
		return false
	}
	b.slots[b.tail&b.mask] = v
	b.tail++
	return true
}

// TryPop removes and returns the oldest element. The boolean is false when
// the buffer is empty.
func (b *Buffer[T]) TryPop() (T, bool) {
	var zero T
	if b.tail == b.head {
		return zero, false
	}
	idx := b.head & b.mask
	v := b.slots[idx]
	b.slots[idx] = zero // unpin the handle
	b.head++
	return v, true
}

func (b *Buffer[T]) Count() int    { return int(b.tail - b.head) }
func (b *Buffer[T]) Capacity() int { return len(b.slots) }
func (b *Buffer[T]) IsEmpty() bool { return b.tail == b.head }
func (b *Buffer[T]) IsFull() bool  { return b.tail-b.head > b.mask }

// Clear resets the buffer to empty without deallocating backing storage.
// Slots are zeroed so popped-over payload handles are not kept reachable.
func (b *Buffer[T]) Clear() {
	var zero T
	for i := range b.slots {
		b.slots[i] = zero
	}
	b.head, b.tail = 0, 0
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		n = 1
	}
	c := 1
	for c < n {
		c <<= 1
	}
	return c
}
