package combat

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/gravetide/server/internal/core/event"
	"github.com/gravetide/server/internal/core/pool"
	"github.com/gravetide/server/internal/core/ring"
	"github.com/gravetide/server/internal/world"
)

// Mode selects how ApplyDamage resolves.
type Mode int

const (
	// ModeImmediate resolves against the tracker inside the call.
	ModeImmediate Mode = iota
	// ModeQueued parks a pooled record in the ring buffer and returns;
	// Drain resolves the backlog once per tick.
	ModeQueued
)

func (m Mode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeQueued:
		return "queued"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps the config spelling onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "immediate":
		return ModeImmediate, nil
	case "queued":
		return ModeQueued, nil
	}
	return ModeImmediate, fmt.Errorf("unknown damage mode %q", s)
}

// Params are the combat tunables handed over at construction and replaced
// wholesale on balance reload. The service holds no subscription to obtain
// them.
type Params struct {
	CritChance     float64 // probability per resolved hit, clamped to [0,1]
	CritMultiplier float64 // final = base * multiplier on a crit
}

func (p Params) normalized() Params {
	if p.CritChance < 0 {
		p.CritChance = 0
	}
	if p.CritChance > 1 {
		p.CritChance = 1
	}
	if p.CritMultiplier <= 0 {
		p.CritMultiplier = 1
	}
	return p
}

// RewardSource produces the opaque reward payload carried by EntityKilled.
// A nil source yields nil payloads.
type RewardSource interface {
	RewardFor(e *world.Entity) any
}

// Stats counts pipeline traffic since construction.
type Stats struct {
	Applied uint64 // resolved hits
	Crits   uint64
	Kills   uint64
	Queued  uint64 // accepted into the ring buffer
	Dropped uint64 // unknown or already-dead targets
	Shed    uint64 // rejected by a full queue
}

// Config sizes the queued path and seeds the initial tunables.
type Config struct {
	Mode          Mode
	QueueCapacity int // rounded up to a power of two
	PoolSize      int // pre-populated damage records
	Params        Params
}

// Service is the single entry point for all damage: no other code path may
// mutate entity hp. It runs on the tick goroutine with everything else and
// never blocks; over-capacity damage is shed, not queued unboundedly.
type Service struct {
	tracker *world.Tracker
	bus     *event.Bus
	rewards RewardSource
	rng     *rand.Rand
	log     *zap.Logger

	mode   Mode
	params Params

	queue  *ring.Buffer[*Event]
	events *pool.Pool[*Event]

	stats Stats
}

func NewService(tracker *world.Tracker, bus *event.Bus, rewards RewardSource, rng *rand.Rand, cfg Config, log *zap.Logger) *Service {
	if cfg.QueueCapacity < 1 {
		cfg.QueueCapacity = 1024
	}
	if cfg.PoolSize < 0 {
		cfg.PoolSize = 0
	}
	return &Service{
		tracker: tracker,
		bus:     bus,
		rewards: rewards,
		rng:     rng,
		log:     log,
		mode:    cfg.Mode,
		params:  cfg.Params.normalized(),
		queue:   ring.New[*Event](cfg.QueueCapacity),
		events:  pool.New(cfg.PoolSize, newEvent, resetEvent),
	}
}

// Mode reports the current execution mode.
func (s *Service) Mode() Mode { return s.mode }

// SetMode switches execution mode between ticks. Records already queued
// still drain in their original order on the next Drain.
func (s *Service) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.log.Info("damage mode switched",
		zap.String("from", s.mode.String()),
		zap.String("to", m.String()))
	s.mode = m
}

// Reconfigure replaces the combat tunables, typically after a balance
// reload.
func (s *Service) Reconfigure(p Params) {
	s.params = p.normalized()
}

// ApplyDamage routes one hit at target. amount is the base damage before
// the crit roll; source labels the attacker for notifications and threat;
// tags ride along opaquely. Negative amounts are treated as zero, since
// nothing in this pipeline heals.
func (s *Service) ApplyDamage(target world.ID, amount float64, source string, tags []string) {
	if s.mode == ModeQueued {
		s.enqueue(target, amount, source, tags)
		return
	}
	s.resolve(target, amount, source, tags)
}

func (s *Service) enqueue(target world.ID, amount float64, source string, tags []string) {
	ev := s.events.Acquire()
	ev.Target = target
	ev.Base = amount
	ev.Source = source
	ev.Tags = append(ev.Tags[:0], tags...)
	if !s.queue.TryPush(ev) {
		// Shedding policy: a full queue drops the hit and recycles the
		// record immediately so no pooled object leaks.
		s.events.Release(ev)
		s.stats.Shed++
		s.log.Debug("damage shed, queue full", zap.String("target", string(target)))
		return
	}
	s.stats.Queued++
}

// Drain resolves the queued backlog in FIFO order and reports how many
// records it processed. Runs once per tick; with an empty queue (immediate
// mode) it is a no-op.
func (s *Service) Drain() int {
	n := 0
	for {
		ev, ok := s.queue.TryPop()
		if !ok {
			break
		}
		s.resolve(ev.Target, ev.Base, ev.Source, ev.Tags)
		s.events.Release(ev)
		n++
	}
	return n
}

// resolve applies one hit. The lookup re-checks liveness per event, so a
// batch drained after a lethal hit cannot resurrect or re-kill the target.
func (s *Service) resolve(target world.ID, base float64, source string, tags []string) {
	e := s.tracker.Get(target)
	if e == nil || !e.Alive {
		s.stats.Dropped++
		s.log.Debug("damage dropped, no live target", zap.String("target", string(target)))
		return
	}
	if base < 0 {
		base = 0
	}

	final := base
	isCrit := false
	if s.params.CritChance > 0 && s.rng.Float64() < s.params.CritChance {
		isCrit = true
		final = base * s.params.CritMultiplier
	}

	e.HP -= final
	if e.HP < 0 {
		e.HP = 0
	}
	s.stats.Applied++
	if isCrit {
		s.stats.Crits++
	}

	event.Publish(s.bus, DamageApplied{
		Target: target,
		Final:  final,
		IsCrit: isCrit,
		Tags:   tags,
		Source: source,
	})

	if e.HP <= 0 {
		s.kill(e, source)
	}
}

// kill runs the death transition before the damage call returns: the entity
// leaves its kind view and spatial index, then the kill notification fans
// out so registries detach and rewards flow while the corpse is still
// readable.
func (s *Service) kill(e *world.Entity, source string) {
	pos := e.Pos
	s.tracker.MarkDead(e.ID)
	s.stats.Kills++

	var reward any
	if s.rewards != nil {
		reward = s.rewards.RewardFor(e)
	}
	event.Publish(s.bus, EntityKilled{
		Entity: e.ID,
		Kind:   e.Kind,
		Pos:    pos,
		Reward: reward,
		Source: source,
	})

	if e.Kind == world.KindBoss {
		s.log.Info("boss destroyed",
			zap.String("id", string(e.ID)),
			zap.String("by", source))
	}
}

// Stats returns a copy of the traffic counters.
func (s *Service) Stats() Stats { return s.stats }

// QueueDepth reports how many records currently wait in the ring buffer.
func (s *Service) QueueDepth() int { return s.queue.Count() }

// PoolAvailable reports how many pooled records are free, for diagnostics
// and leak checks.
func (s *Service) PoolAvailable() int { return s.events.AvailableCount() }
