package system

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gravetide/server/internal/balance"
	"github.com/gravetide/server/internal/combat"
	"github.com/gravetide/server/internal/core/event"
	"github.com/gravetide/server/internal/data"
	"github.com/gravetide/server/internal/world"
)

// Tables shared by the system tests. One pylon at the origin, tier 1 enemies,
// and two boss tiers: tier 1 enrages on low hp, tier 2 on age.
const testBestiaryYAML = `
creatures:
  - kind: enemy
    tier: 1
    name: Drudge
    hp: 40
    speed: 6.0
    radius: 1.2
    contact_damage: 4
    attack_interval: 5
  - kind: boss
    tier: 1
    name: Gravemaw
    hp: 100
    speed: 4.0
    radius: 2.0
    contact_damage: 10
    attack_interval: 4
    phase_thresholds: [0.5]
    enrage_below: 0.2
  - kind: boss
    tier: 2
    name: Colossus
    hp: 100
    speed: 4.0
    radius: 2.0
    contact_damage: 10
    attack_interval: 4
    enrage_after_ticks: 3
`

const testArenaYAML = `
arena:
  spawn_radius: 30.0
  wave_interval_ticks: 100
pylons:
  - id: py-main
    x: 0.0
    y: 0.0
    hp: 200
    range: 40.0
    damage: 25
    cooldown: 3
waves:
  - wave: 1
    spawns:
      - tier: 1
        count: 3
  - wave: 2
    boss: 1
`

// fastArenaYAML advances a wave every 2 ticks and leaves a gap at wave 2.
const fastArenaYAML = `
arena:
  spawn_radius: 30.0
  wave_interval_ticks: 2
pylons:
  - id: py-main
    x: 0.0
    y: 0.0
    hp: 200
    range: 40.0
    damage: 25
    cooldown: 3
waves:
  - wave: 1
    spawns:
      - tier: 1
        count: 3
  - wave: 3
    spawns:
      - tier: 1
        count: 2
    boss: 1
`

type harness struct {
	tracker  *world.Tracker
	bus      *event.Bus
	svc      *combat.Service
	engine   *balance.Engine
	arena    *data.ArenaTable
	bestiary *data.Bestiary
	pylons   *PylonSystem
	bosses   *BossSystem
	spawner  *SpawnerSystem
	horde    *HordeSystem
}

func loadTables(t *testing.T, bestiaryYAML, arenaYAML string) (*data.Bestiary, *data.ArenaTable) {
	t.Helper()
	dir := t.TempDir()
	bp := filepath.Join(dir, "bestiary.yaml")
	ap := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(bp, []byte(bestiaryYAML), 0o644))
	require.NoError(t, os.WriteFile(ap, []byte(arenaYAML), 0o644))

	bestiary, err := data.LoadBestiary(bp)
	require.NoError(t, err)
	arena, err := data.LoadArena(ap)
	require.NoError(t, err)
	return bestiary, arena
}

// newHarness wires the full system graph against the given tables. Crit
// chance is zero so damage numbers stay exact; the balance engine runs on
// its Go defaults (no scripts), so hp scaling is identity.
func newHarness(t *testing.T, mode combat.Mode, maxActive int, arenaYAML string) *harness {
	t.Helper()
	log := zap.NewNop()
	bestiary, arena := loadTables(t, testBestiaryYAML, arenaYAML)

	engine, err := balance.NewEngine(filepath.Join(t.TempDir(), "none"), log)
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	tracker := world.NewTracker(8, log)
	bus := event.NewBus()
	rng := rand.New(rand.NewSource(11))
	svc := combat.NewService(tracker, bus, engine, rng, combat.Config{
		Mode:          mode,
		QueueCapacity: 256,
		PoolSize:      32,
	}, log)

	pylons := NewPylonSystem(tracker, svc, arena, bus, log)
	bosses := NewBossSystem(tracker, svc, pylons, bus, log)
	spawner := NewSpawnerSystem(tracker, bosses, engine, arena, bestiary, bus, rng, maxActive, log)
	horde := NewHordeSystem(tracker, svc, spawner, pylons, log)

	pylons.Deploy()
	return &harness{
		tracker:  tracker,
		bus:      bus,
		svc:      svc,
		engine:   engine,
		arena:    arena,
		bestiary: bestiary,
		pylons:   pylons,
		bosses:   bosses,
		spawner:  spawner,
		horde:    horde,
	}
}

// placeEnemy registers an enemy at pos and seats it in the spawner roster so
// the horde system drives it. Tests that need exact geometry use this instead
// of the random spawn ring.
func (h *harness) placeEnemy(t *testing.T, id world.ID, pos world.Vec2) {
	t.Helper()
	tmpl := h.bestiary.Get(string(world.KindEnemy), 1)
	require.NotNil(t, tmpl)
	require.True(t, h.tracker.Register(world.Spawn{ID: id, Kind: world.KindEnemy, Pos: pos, MaxHP: tmpl.HP, Tier: 1}))
	require.True(t, h.spawner.active.Register(id, &slot{id: id, tmpl: tmpl}))
}

// placeBoss registers a boss at pos and admits it to the boss system.
func (h *harness) placeBoss(t *testing.T, id world.ID, tier int, pos world.Vec2) *data.CreatureTemplate {
	t.Helper()
	tmpl := h.bestiary.Get(string(world.KindBoss), tier)
	require.NotNil(t, tmpl)
	require.True(t, h.tracker.Register(world.Spawn{ID: id, Kind: world.KindBoss, Pos: pos, MaxHP: tmpl.HP, Tier: tier}))
	require.True(t, h.bosses.Admit(id, tmpl))
	return tmpl
}
