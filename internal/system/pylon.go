package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/gravetide/server/internal/combat"
	"github.com/gravetide/server/internal/core/event"
	"github.com/gravetide/server/internal/core/roster"
	coresys "github.com/gravetide/server/internal/core/system"
	"github.com/gravetide/server/internal/data"
	"github.com/gravetide/server/internal/world"
)

var boltTags = []string{"bolt"}

// pylonState is the per-emplacement runtime the tracker record does not
// carry: the static site definition and the shot cooldown.
type pylonState struct {
	site     data.PylonSite
	cooldown int
}

// PylonSystem runs the defensive emplacements: each live pylon fires one bolt
// at the nearest attacker in range every site.Cooldown ticks. Enemies are
// preferred over bosses when both are in range. A pylon that dies detaches
// from the active set inside the killing damage call and never fires again.
// Phase 1 (Update).
type PylonSystem struct {
	tracker *world.Tracker
	svc     *combat.Service
	sites   []data.PylonSite
	active  *roster.Roster[world.ID, *pylonState]
	log     *zap.Logger
}

func NewPylonSystem(tracker *world.Tracker, svc *combat.Service, arena *data.ArenaTable, bus *event.Bus, log *zap.Logger) *PylonSystem {
	s := &PylonSystem{
		tracker: tracker,
		svc:     svc,
		sites:   arena.Pylons(),
		active:  roster.New[world.ID, *pylonState](arena.PylonCount()),
		log:     log,
	}
	event.Subscribe(bus, s.onEntityKilled)
	return s
}

// Deploy registers every arena site as a live pylon entity and reports how
// many stood up. Called once before the tick loop starts; calling it again
// after a wipe restores the field.
func (s *PylonSystem) Deploy() int {
	n := 0
	for _, site := range s.sites {
		id := world.ID(site.ID)
		if !s.tracker.Register(world.Spawn{
			ID:    id,
			Kind:  world.KindPylon,
			Pos:   world.Vec2{X: site.X, Y: site.Y},
			MaxHP: site.HP,
		}) {
			continue
		}
		s.active.Register(id, &pylonState{site: site})
		n++
	}
	s.log.Info("pylons deployed", zap.Int("count", n))
	return n
}

func (s *PylonSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PylonSystem) Update(_ time.Duration) {
	for _, ent := range s.active.Entries() {
		ps := ent.Payload
		if ps.cooldown > 0 {
			ps.cooldown--
		}
		if ps.cooldown > 0 {
			continue
		}
		e := s.tracker.Get(ent.ID)
		if e == nil || !e.Alive {
			continue
		}
		target := s.tracker.NearestOfKind(world.KindEnemy, e.Pos, ps.site.Range, "")
		if target == nil {
			target = s.tracker.NearestOfKind(world.KindBoss, e.Pos, ps.site.Range, "")
		}
		if target == nil {
			continue
		}
		s.svc.ApplyDamage(target.ID, ps.site.Damage, string(ent.ID), boltTags)
		ps.cooldown = ps.site.Cooldown
	}
}

func (s *PylonSystem) onEntityKilled(ev combat.EntityKilled) {
	if ev.Kind != world.KindPylon {
		return
	}
	if s.active.Unregister(ev.Entity) {
		s.log.Warn("pylon destroyed",
			zap.String("id", string(ev.Entity)),
			zap.String("by", ev.Source),
			zap.Int("standing", s.active.Size()))
	}
}

// Nearest returns the live pylon closest to from. The boolean is false when
// none stand. Distance ties break toward the smaller id so steering stays
// deterministic under seeded runs.
func (s *PylonSystem) Nearest(from world.Vec2) (*world.Entity, bool) {
	var best *world.Entity
	bestD := 0.0
	for _, ent := range s.active.Entries() {
		e := s.tracker.Get(ent.ID)
		if e == nil || !e.Alive {
			continue
		}
		d := e.Pos.DistSq(from)
		if best != nil {
			if d > bestD {
				continue
			}
			if d == bestD && e.ID >= best.ID {
				continue
			}
		}
		best = e
		bestD = d
	}
	return best, best != nil
}

// Alive reports how many pylons still stand.
func (s *PylonSystem) Alive() int { return s.active.Size() }

// Reset detaches every pylon and removes the entities. Scene teardown path.
func (s *PylonSystem) Reset() {
	for _, ent := range s.active.Entries() {
		s.tracker.Unregister(ent.ID)
	}
	s.active.Clear()
}
