package roster

import "fmt"

// Entry pairs a registered id with its payload in the dense array.
type Entry[K comparable, V any] struct {
	ID      K
	Payload V
}

// Roster is a dense, hole-free active set supporting O(1) registration and
// O(1) removal by id. Removal overwrites the vacated slot with the tail
// entry and shrinks by one, so iteration over Entries never skips or
// revisits a live entry. The index map always points at the current slot of
// every registered id.
type Roster[K comparable, V any] struct {
	dense []Entry[K, V]
	index map[K]int
}

func New[K comparable, V any](capacityHint int) *Roster[K, V] {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Roster[K, V]{
		dense: make([]Entry[K, V], 0, capacityHint),
		index: make(map[K]int, capacityHint),
	}
}

// Register appends an entry for id. Duplicate registration is a no-op and
// returns false, so two collaborators may race to insert the same entity
// without ever creating twin entries.
func (r *Roster[K, V]) Register(id K, payload V) bool {
	if _, ok := r.index[id]; ok {
		return false
	}
	r.index[id] = len(r.dense)
	r.dense = append(r.dense, Entry[K, V]{ID: id, Payload: payload})
	return true
}

// Unregister removes id in O(1): the tail entry moves into the vacated slot
// and its index-map position is rewritten. Unknown ids are a no-op returning
// false.
func (r *Roster[K, V]) Unregister(id K) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	last := len(r.dense) - 1
	if i != last {
		moved := r.dense[last]
		r.dense[i] = moved
		r.index[moved.ID] = i
	}
	r.dense[last] = Entry[K, V]{} // unpin the payload
	r.dense = r.dense[:last]
	delete(r.index, id)
	return true
}

func (r *Roster[K, V]) Has(id K) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Roster[K, V]) Get(id K) (V, bool) {
	if i, ok := r.index[id]; ok {
		return r.dense[i].Payload, true
	}
	var zero V
	return zero, false
}

// Size reports the number of active entries.
func (r *Roster[K, V]) Size() int { return len(r.dense) }

// Entries exposes the dense backing array for in-place iteration. The slice
// is invalidated by any Register/Unregister/Clear call and must not be
// retained across them.
func (r *Roster[K, V]) Entries() []Entry[K, V] { return r.dense }

// Clear empties the roster without deallocating backing storage.
func (r *Roster[K, V]) Clear() {
	for i := range r.dense {
		r.dense[i] = Entry[K, V]{}
	}
	r.dense = r.dense[:0]
	clear(r.index)
}

// Validate checks the dense-array/index-map pairing. It exists for tests
// and debug assertions, not for per-tick use.
func (r *Roster[K, V]) Validate() error {
	if len(r.dense) != len(r.index) {
		return fmt.Errorf("roster: dense size %d != index size %d", len(r.dense), len(r.index))
	}
	for id, i := range r.index {
		if i < 0 || i >= len(r.dense) {
			return fmt.Errorf("roster: index %d for id %v out of range", i, id)
		}
		if r.dense[i].ID != id {
			return fmt.Errorf("roster: slot %d holds id %v, index map expects %v", i, r.dense[i].ID, id)
		}
	}
	return nil
}
