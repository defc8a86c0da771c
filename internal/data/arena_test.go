package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validArena = `
arena:
  spawn_radius: 100.0
  wave_interval_ticks: 300
pylons:
  - id: py-north
    x: 0.0
    y: 20.0
    hp: 500
    range: 40.0
    damage: 20
    cooldown: 10
  - id: py-south
    x: 0.0
    y: -20.0
    hp: 500
    range: 40.0
    damage: 20
    cooldown: 10
waves:
  - wave: 1
    spawns:
      - tier: 1
        count: 10
  - wave: 3
    spawns:
      - tier: 2
        count: 5
    boss: 1
`

func TestLoadArena(t *testing.T) {
	a, err := LoadArena(writeYAML(t, validArena))
	require.NoError(t, err)

	assert.Equal(t, 100.0, a.Layout.SpawnRadius)
	assert.Equal(t, 300, a.Layout.WaveIntervalTicks)
	assert.Equal(t, 2, a.PylonCount())
	assert.Equal(t, 2, a.WaveCount())
	assert.Equal(t, 3, a.MaxWave())

	pylons := a.Pylons()
	require.Len(t, pylons, 2)
	assert.Equal(t, "py-north", pylons[0].ID, "file order must hold")
}

func TestWavePlanLookup(t *testing.T) {
	a, err := LoadArena(writeYAML(t, validArena))
	require.NoError(t, err)

	w1 := a.WavePlan(1)
	require.NotNil(t, w1)
	assert.Equal(t, 10, w1.Spawns[0].Count)
	assert.Equal(t, 0, w1.Boss)

	assert.Nil(t, a.WavePlan(2), "a gap in the plan is a rest wave")

	w3 := a.WavePlan(3)
	require.NotNil(t, w3)
	assert.Equal(t, 1, w3.Boss)

	// Past the end the final entry repeats.
	assert.Same(t, w3, a.WavePlan(4))
	assert.Same(t, w3, a.WavePlan(100))
}

func TestLoadArenaMissingFile(t *testing.T) {
	_, err := LoadArena(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadArenaValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no pylons", `
arena:
  spawn_radius: 100.0
  wave_interval_ticks: 300
pylons: []
waves:
  - wave: 1
    spawns: [{tier: 1, count: 1}]
`},
		{"no waves", `
arena:
  spawn_radius: 100.0
  wave_interval_ticks: 300
pylons:
  - {id: p1, hp: 10, range: 5, damage: 1, cooldown: 1}
waves: []
`},
		{"zero spawn radius", `
arena:
  spawn_radius: 0
  wave_interval_ticks: 300
pylons:
  - {id: p1, hp: 10, range: 5, damage: 1, cooldown: 1}
waves:
  - wave: 1
    spawns: [{tier: 1, count: 1}]
`},
		{"duplicate pylon id", `
arena:
  spawn_radius: 100.0
  wave_interval_ticks: 300
pylons:
  - {id: p1, hp: 10, range: 5, damage: 1, cooldown: 1}
  - {id: p1, hp: 10, range: 5, damage: 1, cooldown: 1}
waves:
  - wave: 1
    spawns: [{tier: 1, count: 1}]
`},
		{"pylon zero cooldown", `
arena:
  spawn_radius: 100.0
  wave_interval_ticks: 300
pylons:
  - {id: p1, hp: 10, range: 5, damage: 1, cooldown: 0}
waves:
  - wave: 1
    spawns: [{tier: 1, count: 1}]
`},
		{"duplicate wave", `
arena:
  spawn_radius: 100.0
  wave_interval_ticks: 300
pylons:
  - {id: p1, hp: 10, range: 5, damage: 1, cooldown: 1}
waves:
  - wave: 1
    spawns: [{tier: 1, count: 1}]
  - wave: 1
    spawns: [{tier: 2, count: 1}]
`},
		{"wave spawns nothing", `
arena:
  spawn_radius: 100.0
  wave_interval_ticks: 300
pylons:
  - {id: p1, hp: 10, range: 5, damage: 1, cooldown: 1}
waves:
  - wave: 1
    spawns: []
`},
		{"zero spawn count", `
arena:
  spawn_radius: 100.0
  wave_interval_ticks: 300
pylons:
  - {id: p1, hp: 10, range: 5, damage: 1, cooldown: 1}
waves:
  - wave: 1
    spawns: [{tier: 1, count: 0}]
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadArena(writeYAML(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}
