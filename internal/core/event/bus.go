package event

import "reflect"

// Bus is a typed in-process dispatcher. Publish delivers an event to every
// handler subscribed for its type, synchronously and in subscription order,
// before returning to the publisher. That synchronous contract is what lets
// death side effects (registry removal, reward hand-off) complete inside the
// damage call that caused them.
//
// The bus is owned by the tick goroutine like the rest of the core; it
// carries no locking, and handlers must not block.
type Bus struct {
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]any),
	}
}

// Subscribe registers a typed handler for events of type T. Subscriptions
// are made once at wiring time; subscribing from inside a handler is not
// supported.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Publish delivers event to all handlers of type T. The type key and the
// handler signature are pinned by Subscribe, so the assertion below cannot
// fail, and dispatching stays free of per-event allocation.
func Publish[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for _, h := range b.handlers[t] {
		h.(func(T))(event)
	}
}

// HandlerCount reports how many handlers are subscribed for the type of T.
func HandlerCount[T any](b *Bus) int {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return len(b.handlers[t])
}
