package system

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/gravetide/server/internal/balance"
	"github.com/gravetide/server/internal/combat"
	"github.com/gravetide/server/internal/core/event"
	"github.com/gravetide/server/internal/core/ring"
	"github.com/gravetide/server/internal/core/roster"
	coresys "github.com/gravetide/server/internal/core/system"
	"github.com/gravetide/server/internal/data"
	"github.com/gravetide/server/internal/world"
)

// slot is one preallocated enemy seat. The spawner owns a fixed number of
// them; an enemy occupies a slot from spawn to death, and the kill path
// returns it to the free stack for the next wave to reuse.
type slot struct {
	id          world.ID
	tmpl        *data.CreatureTemplate
	strikeTimer int
}

func (sl *slot) reset() {
	sl.id = ""
	sl.tmpl = nil
	sl.strikeTimer = 0
}

// pendingSpawn is a spawn that found no free slot and waits in the backlog.
// The origin wave rides along so hp scaling matches the wave that ordered it.
type pendingSpawn struct {
	tier int
	wave int
}

// SpawnStats counts spawner traffic since construction.
type SpawnStats struct {
	Spawned  uint64 // enemies placed on the field
	Bosses   uint64
	Deferred uint64 // parked in the backlog, placed later
	Dropped  uint64 // lost to a full backlog
}

// SpawnerSystem feeds the arena from the wave plan. The live population is
// capped by a fixed slot pool: when every slot is taken, surplus spawns park
// in a bounded backlog and enter as deaths free seats up; a full backlog
// sheds. Phase 0 (Spawn).
type SpawnerSystem struct {
	tracker  *world.Tracker
	bosses   *BossSystem
	engine   *balance.Engine
	arena    *data.ArenaTable
	bestiary *data.Bestiary
	rng      *rand.Rand
	log      *zap.Logger

	free    []*slot
	active  *roster.Roster[world.ID, *slot]
	pending *ring.Buffer[pendingSpawn]

	tick     int64
	wave     int
	nextWave int64 // tick the next wave starts on
	seq      int64 // id sequence, never reused

	stats SpawnStats
}

func NewSpawnerSystem(tracker *world.Tracker, bosses *BossSystem, engine *balance.Engine, arena *data.ArenaTable, bestiary *data.Bestiary, bus *event.Bus, rng *rand.Rand, maxActive int, log *zap.Logger) *SpawnerSystem {
	if maxActive < 1 {
		maxActive = 1
	}
	s := &SpawnerSystem{
		tracker:  tracker,
		bosses:   bosses,
		engine:   engine,
		arena:    arena,
		bestiary: bestiary,
		rng:      rng,
		log:      log,
		free:     make([]*slot, 0, maxActive),
		active:   roster.New[world.ID, *slot](maxActive),
		pending:  ring.New[pendingSpawn](maxActive),
	}
	for i := 0; i < maxActive; i++ {
		s.free = append(s.free, &slot{})
	}
	event.Subscribe(bus, s.onEntityKilled)
	return s
}

func (s *SpawnerSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnerSystem) Update(_ time.Duration) {
	s.tick++
	s.placeBacklog()
	if s.tick < s.nextWave {
		return
	}
	s.wave++
	s.nextWave = s.tick + int64(s.arena.Layout.WaveIntervalTicks)

	plan := s.arena.WavePlan(s.wave)
	if plan == nil {
		// A gap in the plan is a rest wave: nothing comes, defenders breathe.
		s.log.Debug("rest wave", zap.Int("wave", s.wave))
		return
	}
	placed := 0
	for _, batch := range plan.Spawns {
		for i := 0; i < batch.Count; i++ {
			if s.spawnEnemy(batch.Tier, s.wave) {
				placed++
			}
		}
	}
	if plan.Boss > 0 {
		s.spawnBoss(plan.Boss)
	}
	s.log.Info("wave started",
		zap.Int("wave", s.wave),
		zap.Int("placed", placed),
		zap.Int("backlog", s.pending.Count()),
		zap.Bool("boss", plan.Boss > 0))
}

// placeBacklog moves parked spawns into freed slots, oldest first. Runs at
// the top of every tick so deaths from the previous tick free seats before
// the next wave lands.
func (s *SpawnerSystem) placeBacklog() {
	for len(s.free) > 0 {
		p, ok := s.pending.TryPop()
		if !ok {
			return
		}
		s.spawnEnemy(p.tier, p.wave)
	}
}

func (s *SpawnerSystem) spawnEnemy(tier, wave int) bool {
	tmpl := s.bestiary.Get(string(world.KindEnemy), tier)
	if tmpl == nil {
		s.log.Warn("no enemy template", zap.Int("tier", tier))
		return false
	}
	n := len(s.free)
	if n == 0 {
		if !s.pending.TryPush(pendingSpawn{tier: tier, wave: wave}) {
			s.stats.Dropped++
			return false
		}
		s.stats.Deferred++
		return false
	}
	sl := s.free[n-1]
	s.free[n-1] = nil
	s.free = s.free[:n-1]

	s.seq++
	id := world.ID(fmt.Sprintf("en-%06d", s.seq))
	if !s.tracker.Register(world.Spawn{
		ID:    id,
		Kind:  world.KindEnemy,
		Pos:   s.ringPosition(),
		MaxHP: s.engine.ScaleHP(world.KindEnemy, tier, wave, tmpl.HP),
		Tier:  tier,
	}) {
		s.free = append(s.free, sl)
		return false
	}
	sl.id = id
	sl.tmpl = tmpl
	sl.strikeTimer = 0
	s.active.Register(id, sl)
	s.stats.Spawned++
	return true
}

func (s *SpawnerSystem) spawnBoss(tier int) {
	tmpl := s.bestiary.Get(string(world.KindBoss), tier)
	if tmpl == nil {
		s.log.Warn("no boss template", zap.Int("tier", tier))
		return
	}
	s.seq++
	id := world.ID(fmt.Sprintf("bs-%04d", s.seq))
	if !s.tracker.Register(world.Spawn{
		ID:    id,
		Kind:  world.KindBoss,
		Pos:   s.ringPosition(),
		MaxHP: s.engine.ScaleHP(world.KindBoss, tier, s.wave, tmpl.HP),
		Tier:  tier,
	}) {
		return
	}
	s.bosses.Admit(id, tmpl)
	s.stats.Bosses++
	s.log.Info("boss emerged",
		zap.String("id", string(id)),
		zap.String("name", tmpl.Name),
		zap.Int("wave", s.wave))
}

// ringPosition picks a random point on the spawn ring.
func (s *SpawnerSystem) ringPosition() world.Vec2 {
	angle := s.rng.Float64() * 2 * math.Pi
	r := s.arena.Layout.SpawnRadius
	return world.Vec2{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// onEntityKilled returns the dead enemy's slot to the free stack. Runs inside
// the killing damage call, so the seat is reusable the very next spawn pass.
func (s *SpawnerSystem) onEntityKilled(ev combat.EntityKilled) {
	if ev.Kind != world.KindEnemy {
		return
	}
	sl, ok := s.active.Get(ev.Entity)
	if !ok {
		return
	}
	s.active.Unregister(ev.Entity)
	sl.reset()
	s.free = append(s.free, sl)
}

// Wave reports the current wave number, 0 before the first wave lands.
func (s *SpawnerSystem) Wave() int { return s.wave }

// ActiveCount reports how many slots are occupied.
func (s *SpawnerSystem) ActiveCount() int { return s.active.Size() }

// FreeCount reports how many slots are open.
func (s *SpawnerSystem) FreeCount() int { return len(s.free) }

// BacklogCount reports how many spawns wait for a slot.
func (s *SpawnerSystem) BacklogCount() int { return s.pending.Count() }

// Stats returns a copy of the spawn counters.
func (s *SpawnerSystem) Stats() SpawnStats { return s.stats }

// Reset returns every slot, clears the backlog and removes the entities.
// Wave progression and counters keep their values. Scene teardown path.
func (s *SpawnerSystem) Reset() {
	for _, ent := range s.active.Entries() {
		s.tracker.Unregister(ent.ID)
		ent.Payload.reset()
		s.free = append(s.free, ent.Payload)
	}
	s.active.Clear()
	s.pending.Clear()
}
