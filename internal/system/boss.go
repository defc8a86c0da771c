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

var slamTags = []string{"slam"}

// Phase and enrage multipliers. Each crossed hp threshold speeds the boss up
// and hardens its strikes; enrage stacks on top.
const (
	phaseSpeedStep   = 0.10
	phaseDamageStep  = 0.15
	enrageDamageMult = 1.5
)

// bossState is the per-boss runtime: the template it was cut from, the threat
// ledger deciding who it hunts, and the phase/enrage track.
type bossState struct {
	tmpl        *data.CreatureTemplate
	threat      map[string]float64
	topSource   string
	phase       int // thresholds crossed so far
	enraged     bool
	ticksAlive  int
	strikeTimer int
}

// addThreat credits dmg to source and promotes it when it overtakes the
// current top aggressor.
func (st *bossState) addThreat(source string, dmg float64) {
	if source == "" || dmg <= 0 {
		return
	}
	st.threat[source] += dmg
	if st.topSource == "" {
		st.topSource = source
		return
	}
	if source != st.topSource && st.threat[source] > st.threat[st.topSource] {
		st.topSource = source
	}
}

// maxThreatSource rescans the ledger for the highest entry. Ties break toward
// the smaller source label so seeded runs pick the same target regardless of
// map order.
func (st *bossState) maxThreatSource() string {
	best := ""
	bestVal := 0.0
	for source, val := range st.threat {
		if val > bestVal || (val == bestVal && best != "" && source < best) {
			best = source
			bestVal = val
		}
	}
	return best
}

// dropThreat erases source from the ledger, re-electing the top aggressor if
// it was the one erased.
func (st *bossState) dropThreat(source string) {
	if _, ok := st.threat[source]; !ok {
		return
	}
	delete(st.threat, source)
	if st.topSource == source {
		st.topSource = st.maxThreatSource()
	}
}

// combatStats derives the current movement and strike numbers from the phase
// and enrage track.
func (st *bossState) combatStats() (speed, damage float64, interval int) {
	speed = st.tmpl.Speed * (1 + phaseSpeedStep*float64(st.phase))
	damage = st.tmpl.ContactDamage * (1 + phaseDamageStep*float64(st.phase))
	interval = st.tmpl.AttackInterval
	if st.enraged {
		damage *= enrageDamageMult
		interval /= 2
		if interval < 1 {
			interval = 1
		}
	}
	return speed, damage, interval
}

// BossSystem drives the wave bosses: each one hunts whichever pylon has hurt
// it most (falling back to the nearest), crosses phases as its hp ratio drops
// through the template thresholds, and enrages on low hp or old age. Phase
// transitions only tighten; healing does not exist in this pipeline, so a
// crossed threshold stays crossed. Phase 1 (Update).
type BossSystem struct {
	tracker *world.Tracker
	svc     *combat.Service
	pylons  *PylonSystem
	active  *roster.Roster[world.ID, *bossState]
	log     *zap.Logger
}

func NewBossSystem(tracker *world.Tracker, svc *combat.Service, pylons *PylonSystem, bus *event.Bus, log *zap.Logger) *BossSystem {
	s := &BossSystem{
		tracker: tracker,
		svc:     svc,
		pylons:  pylons,
		active:  roster.New[world.ID, *bossState](8),
		log:     log,
	}
	event.Subscribe(bus, s.onDamageApplied)
	event.Subscribe(bus, s.onEntityKilled)
	return s
}

// Admit takes ownership of a freshly spawned boss. The spawner registers the
// entity with the tracker first, then hands the id here.
func (s *BossSystem) Admit(id world.ID, tmpl *data.CreatureTemplate) bool {
	return s.active.Register(id, &bossState{
		tmpl:   tmpl,
		threat: make(map[string]float64, 8),
	})
}

func (s *BossSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *BossSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	for _, ent := range s.active.Entries() {
		st := ent.Payload
		e := s.tracker.Get(ent.ID)
		if e == nil || !e.Alive {
			continue
		}
		st.ticksAlive++
		if st.strikeTimer > 0 {
			st.strikeTimer--
		}

		s.advancePhase(e, st)
		s.checkEnrage(e, st)

		target := s.currentTarget(e, st)
		if target == nil {
			continue
		}

		speed, damage, interval := st.combatStats()
		delta := target.Pos.Sub(e.Pos)
		dist := delta.Len()
		reach := st.tmpl.Radius
		if dist > reach {
			step := speed * secs
			if step > dist-reach {
				step = dist - reach
			}
			if dist > 0 {
				s.tracker.UpdatePosition(ent.ID, e.Pos.Add(delta.Scale(step/dist)))
			}
			continue
		}
		if st.strikeTimer > 0 {
			continue
		}
		s.svc.ApplyDamage(target.ID, damage, string(ent.ID), slamTags)
		st.strikeTimer = interval
	}
}

// advancePhase crosses every threshold the hp ratio has fallen through. A
// single huge hit can skip phases; each crossing is still logged.
func (s *BossSystem) advancePhase(e *world.Entity, st *bossState) {
	ratio := e.HP / e.MaxHP
	for st.phase < len(st.tmpl.PhaseThresholds) && ratio <= st.tmpl.PhaseThresholds[st.phase] {
		st.phase++
		s.log.Info("boss phase shift",
			zap.String("id", string(e.ID)),
			zap.Int("phase", st.phase),
			zap.Float64("hp_ratio", ratio))
	}
}

func (s *BossSystem) checkEnrage(e *world.Entity, st *bossState) {
	if st.enraged {
		return
	}
	lowHP := st.tmpl.EnrageBelow > 0 && e.HP/e.MaxHP <= st.tmpl.EnrageBelow
	oldAge := st.tmpl.EnrageAfter > 0 && st.ticksAlive >= st.tmpl.EnrageAfter
	if !lowHP && !oldAge {
		return
	}
	st.enraged = true
	s.log.Warn("boss enraged",
		zap.String("id", string(e.ID)),
		zap.Bool("low_hp", lowHP),
		zap.Int("ticks_alive", st.ticksAlive))
}

// currentTarget resolves the top aggressor to a live pylon, re-electing from
// the ledger when the old top has died, and falls back to the nearest pylon
// for a boss nothing has shot yet.
func (s *BossSystem) currentTarget(e *world.Entity, st *bossState) *world.Entity {
	for st.topSource != "" {
		t := s.tracker.Get(world.ID(st.topSource))
		if t != nil && t.Alive && t.Kind == world.KindPylon {
			return t
		}
		st.dropThreat(st.topSource)
	}
	t, ok := s.pylons.Nearest(e.Pos)
	if !ok {
		return nil
	}
	return t
}

func (s *BossSystem) onDamageApplied(ev combat.DamageApplied) {
	if st, ok := s.active.Get(ev.Target); ok {
		st.addThreat(ev.Source, ev.Final)
	}
}

func (s *BossSystem) onEntityKilled(ev combat.EntityKilled) {
	switch ev.Kind {
	case world.KindBoss:
		if st, ok := s.active.Get(ev.Entity); ok {
			st.threat = nil
			s.active.Unregister(ev.Entity)
		}
	case world.KindPylon:
		// The dead pylon stops mattering to every boss hunting it.
		src := string(ev.Entity)
		for _, ent := range s.active.Entries() {
			ent.Payload.dropThreat(src)
		}
	}
}

// Size reports how many bosses are on the field.
func (s *BossSystem) Size() int { return s.active.Size() }

// Threat exposes a boss's ledger entry for one source. Diagnostics and tests.
func (s *BossSystem) Threat(id world.ID, source string) float64 {
	if st, ok := s.active.Get(id); ok {
		return st.threat[source]
	}
	return 0
}

// Reset drops every boss and its entity record. Scene teardown path.
func (s *BossSystem) Reset() {
	for _, ent := range s.active.Entries() {
		s.tracker.Unregister(ent.ID)
	}
	s.active.Clear()
}
