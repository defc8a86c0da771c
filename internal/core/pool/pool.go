package pool

// Pool recycles records of a single type so steady-state ticks allocate
// nothing. New instances come from the injected factory; Release runs the
// injected reset before an instance re-enters the free set, so anything
// handed out by Acquire is indistinguishable from a factory-fresh record.
type Pool[T any] struct {
	free    []T
	factory func() T
	reset   func(T)
}

// New builds a pool pre-populated with initial instances. The factory must
// be non-nil. reset may be nil for records that need no scrubbing.
func New[T any](initial int, factory func() T, reset func(T)) *Pool[T] {
	if initial < 0 {
		initial = 0
	}
	p := &Pool[T]{
		free:    make([]T, 0, initial),
		factory: factory,
		reset:   reset,
	}
	for i := 0; i < initial; i++ {
		p.free = append(p.free, factory())
	}
	return p
}

// Acquire pops a free instance, growing through the factory when none are
// available. Growth is rare once steady state is reached.
func (p *Pool[T]) Acquire() T {
	n := len(p.free)
	if n == 0 {
		return p.factory()
	}
	v := p.free[n-1]
	var zero T
	p.free[n-1] = zero // no stale alias in the free slice
	p.free = p.free[:n-1]
	return v
}

// Release resets v and returns it to the free set. Every acquired instance
// must be released exactly once; the caller must not retain v afterwards.
func (p *Pool[T]) Release(v T) {
	if p.reset != nil {
		p.reset(v)
	}
	p.free = append(p.free, v)
}

// AvailableCount reports how many instances are ready to hand out.
func (p *Pool[T]) AvailableCount() int { return len(p.free) }
