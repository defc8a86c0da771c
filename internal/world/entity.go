package world

import (
	"fmt"
	"math"
)

// ID is the stable opaque identifier of a tracked entity, unique for the
// entity's lifetime.
type ID string

// Kind tags an entity category. Immutable after registration.
type Kind string

const (
	KindEnemy Kind = "enemy"
	KindBoss  Kind = "boss"
	KindPylon Kind = "pylon"
)

// Vec2 is a position in arena space.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// DistSq is the squared distance to o. Range checks compare squared values
// to keep sqrt off the per-tick path.
func (v Vec2) DistSq(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Entity is the canonical record of one live simulation actor.
// HP and Alive are owned by the damage pipeline: every other collaborator
// treats them as read-only and routes damage through the combat service.
type Entity struct {
	ID    ID
	Kind  Kind
	Pos   Vec2
	HP    float64
	MaxHP float64
	Alive bool
	Tier  int // balance tier, 0 for plain units
}

// Spawn is the registration payload for a new entity. It is validated at
// registration; a record that exists is always well formed.
type Spawn struct {
	ID    ID
	Kind  Kind
	Pos   Vec2
	MaxHP float64
	Tier  int
}

func (s Spawn) validate() error {
	if s.ID == "" {
		return fmt.Errorf("empty id")
	}
	if s.Kind == "" {
		return fmt.Errorf("empty kind")
	}
	if s.MaxHP <= 0 {
		return fmt.Errorf("max hp %v must be positive", s.MaxHP)
	}
	return nil
}
