package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type hit struct {
	target string
	amount int
}

type killed struct {
	target string
}

func TestPublishReachesTypedHandlers(t *testing.T) {
	b := NewBus()
	var hits []hit
	var kills []killed

	Subscribe(b, func(ev hit) { hits = append(hits, ev) })
	Subscribe(b, func(ev killed) { kills = append(kills, ev) })

	Publish(b, hit{target: "a", amount: 3})
	Publish(b, hit{target: "b", amount: 5})
	Publish(b, killed{target: "a"})

	assert.Equal(t, []hit{{"a", 3}, {"b", 5}}, hits)
	assert.Equal(t, []killed{{"a"}}, kills, "handlers must only see their own type")
}

func TestHandlersRunInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(hit) { order = append(order, "first") })
	Subscribe(b, func(hit) { order = append(order, "second") })
	Subscribe(b, func(hit) { order = append(order, "third") })

	Publish(b, hit{})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPublishIsSynchronous(t *testing.T) {
	b := NewBus()
	done := false
	Subscribe(b, func(killed) { done = true })

	Publish(b, killed{target: "x"})
	assert.True(t, done, "handler side effects must land before Publish returns")
}

func TestPublishWithoutHandlers(t *testing.T) {
	b := NewBus()
	assert.NotPanics(t, func() { Publish(b, hit{target: "ghost"}) })
}

func TestHandlerCount(t *testing.T) {
	b := NewBus()
	assert.Equal(t, 0, HandlerCount[hit](b))
	Subscribe(b, func(hit) {})
	Subscribe(b, func(hit) {})
	assert.Equal(t, 2, HandlerCount[hit](b))
	assert.Equal(t, 0, HandlerCount[killed](b))
}
