package combat

import (
	"github.com/gravetide/server/internal/world"
)

const defaultTagCap = 4

// Event is the pooled damage record flowing through the queued path.
// Records belong to the service's pool: callers pass plain arguments to
// ApplyDamage and never touch a record; collaborators see its contents only
// through the notification structs below.
type Event struct {
	Target world.ID
	Base   float64
	Source string
	Tags   []string

	// Filled in during resolution.
	Final  float64
	IsCrit bool
}

func newEvent() *Event {
	return &Event{Tags: make([]string, 0, defaultTagCap)}
}

// resetEvent restores a record to factory-default state. Tags are truncated
// in place, never reallocated: the slice keeps its capacity but nothing from
// a prior use may survive into the next one.
func resetEvent(e *Event) {
	e.Target = ""
	e.Base = 0
	e.Source = ""
	for i := range e.Tags {
		e.Tags[i] = ""
	}
	e.Tags = e.Tags[:0]
	e.Final = 0
	e.IsCrit = false
}

// DamageApplied is published for every resolved hit. Tags aliases either the
// caller's slice or a pooled record, so handlers consume the notification
// synchronously and must not retain it.
type DamageApplied struct {
	Target world.ID
	Final  float64
	IsCrit bool
	Tags   []string
	Source string
}

// EntityKilled is published at most once per entity, synchronously inside
// the damage call that proved lethal. Reward is an opaque payload from the
// injected RewardSource; the pipeline never looks inside it.
type EntityKilled struct {
	Entity world.ID
	Kind   world.Kind
	Pos    world.Vec2
	Reward any
	Source string
}
