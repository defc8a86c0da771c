package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/gravetide/server/internal/combat"
	coresys "github.com/gravetide/server/internal/core/system"
	"github.com/gravetide/server/internal/world"
)

var contactTags = []string{"contact"}

// HordeSystem moves every live enemy toward the nearest standing pylon and
// lands contact strikes once in reach. It walks the spawner's dense slot
// roster, so per-tick order is the stable spawn order, not map order.
// Phase 1 (Update).
type HordeSystem struct {
	tracker *world.Tracker
	svc     *combat.Service
	spawner *SpawnerSystem
	pylons  *PylonSystem
	log     *zap.Logger
}

func NewHordeSystem(tracker *world.Tracker, svc *combat.Service, spawner *SpawnerSystem, pylons *PylonSystem, log *zap.Logger) *HordeSystem {
	return &HordeSystem{
		tracker: tracker,
		svc:     svc,
		spawner: spawner,
		pylons:  pylons,
		log:     log,
	}
}

func (s *HordeSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *HordeSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	for _, ent := range s.spawner.active.Entries() {
		sl := ent.Payload
		e := s.tracker.Get(ent.ID)
		if e == nil || !e.Alive {
			continue
		}
		if sl.strikeTimer > 0 {
			sl.strikeTimer--
		}

		target, ok := s.pylons.Nearest(e.Pos)
		if !ok {
			// Nothing left to break. The run is over; the loop owner notices.
			return
		}

		delta := target.Pos.Sub(e.Pos)
		dist := delta.Len()
		reach := sl.tmpl.Radius
		if dist > reach {
			step := sl.tmpl.Speed * secs
			if step > dist-reach {
				step = dist - reach
			}
			if dist > 0 {
				s.tracker.UpdatePosition(ent.ID, e.Pos.Add(delta.Scale(step/dist)))
			}
			continue
		}
		if sl.strikeTimer > 0 {
			continue
		}
		s.svc.ApplyDamage(target.ID, sl.tmpl.ContactDamage, string(ent.ID), contactTags)
		sl.strikeTimer = sl.tmpl.AttackInterval
	}
}
