package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/gravetide/server/internal/combat"
	coresys "github.com/gravetide/server/internal/core/system"
	"github.com/gravetide/server/internal/world"
)

// Snapshot is the periodic radar frame: who is on the field and how deep the
// damage backlog runs. Assembled every interval, logged, and kept for the
// shutdown summary.
type Snapshot struct {
	Tick       int64
	Wave       int
	Enemies    int
	Bosses     int
	Pylons     int
	QueueDepth int
}

// RadarSystem assembles a field snapshot every IntervalTicks ticks.
// Phase 3 (Snapshot).
type RadarSystem struct {
	tracker  *world.Tracker
	svc      *combat.Service
	spawner  *SpawnerSystem
	interval int
	tick     int64
	buf      []world.ID // reused across frames
	last     Snapshot
	log      *zap.Logger
}

func NewRadarSystem(tracker *world.Tracker, svc *combat.Service, spawner *SpawnerSystem, interval int, log *zap.Logger) *RadarSystem {
	return &RadarSystem{
		tracker:  tracker,
		svc:      svc,
		spawner:  spawner,
		interval: interval,
		log:      log,
	}
}

func (s *RadarSystem) Phase() coresys.Phase { return coresys.PhaseSnapshot }

func (s *RadarSystem) Update(_ time.Duration) {
	s.tick++
	if s.interval <= 0 || s.tick%int64(s.interval) != 0 {
		return
	}
	s.buf = s.tracker.KindIDsInto(world.KindEnemy, s.buf)
	s.last = Snapshot{
		Tick:       s.tick,
		Wave:       s.spawner.Wave(),
		Enemies:    len(s.buf),
		Bosses:     s.tracker.KindCount(world.KindBoss),
		Pylons:     s.tracker.KindCount(world.KindPylon),
		QueueDepth: s.svc.QueueDepth(),
	}
	s.log.Debug("radar",
		zap.Int64("tick", s.last.Tick),
		zap.Int("wave", s.last.Wave),
		zap.Int("enemies", s.last.Enemies),
		zap.Int("bosses", s.last.Bosses),
		zap.Int("pylons", s.last.Pylons),
		zap.Int("queue", s.last.QueueDepth))
}

// Last returns the most recent snapshot. Zero value until the first interval
// elapses.
func (s *RadarSystem) Last() Snapshot {
	return s.last
}
