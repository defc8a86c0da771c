package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validBestiary = `
creatures:
  - kind: enemy
    tier: 1
    name: Drudge
    hp: 40
    speed: 6.0
    radius: 1.2
    contact_damage: 4
    attack_interval: 20
  - kind: boss
    tier: 1
    name: Gravemaw
    hp: 2400
    speed: 3.0
    radius: 2.5
    contact_damage: 45
    attack_interval: 45
    phase_thresholds: [0.66, 0.33]
    enrage_below: 0.15
    enrage_after_ticks: 5400
`

func TestLoadBestiary(t *testing.T) {
	b, err := LoadBestiary(writeYAML(t, validBestiary))
	require.NoError(t, err)
	assert.Equal(t, 2, b.Count())

	c := b.Get("enemy", 1)
	require.NotNil(t, c)
	assert.Equal(t, "Drudge", c.Name)
	assert.Equal(t, 40.0, c.HP)
	assert.Equal(t, 20, c.AttackInterval)

	boss := b.Get("boss", 1)
	require.NotNil(t, boss)
	assert.Equal(t, []float64{0.66, 0.33}, boss.PhaseThresholds)
	assert.Equal(t, 0.15, boss.EnrageBelow)
	assert.Equal(t, 5400, boss.EnrageAfter)

	assert.Nil(t, b.Get("enemy", 9), "unknown tier")
	assert.Nil(t, b.Get("boss", 2), "unknown tier")
}

func TestLoadBestiaryMissingFile(t *testing.T) {
	_, err := LoadBestiary(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBestiaryValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad kind", `
creatures:
  - kind: minion
    tier: 1
    name: X
    hp: 10
    attack_interval: 5
`},
		{"zero tier", `
creatures:
  - kind: enemy
    tier: 0
    name: X
    hp: 10
    attack_interval: 5
`},
		{"zero hp", `
creatures:
  - kind: enemy
    tier: 1
    name: X
    hp: 0
    attack_interval: 5
`},
		{"zero attack interval", `
creatures:
  - kind: enemy
    tier: 1
    name: X
    hp: 10
    attack_interval: 0
`},
		{"ascending thresholds", `
creatures:
  - kind: boss
    tier: 1
    name: X
    hp: 10
    attack_interval: 5
    phase_thresholds: [0.33, 0.66]
`},
		{"threshold out of range", `
creatures:
  - kind: boss
    tier: 1
    name: X
    hp: 10
    attack_interval: 5
    phase_thresholds: [1.5]
`},
		{"enrage_below out of range", `
creatures:
  - kind: boss
    tier: 1
    name: X
    hp: 10
    attack_interval: 5
    enrage_below: 1.0
`},
		{"negative enrage_after", `
creatures:
  - kind: boss
    tier: 1
    name: X
    hp: 10
    attack_interval: 5
    enrage_after_ticks: -1
`},
		{"duplicate kind and tier", `
creatures:
  - kind: enemy
    tier: 1
    name: X
    hp: 10
    attack_interval: 5
  - kind: enemy
    tier: 1
    name: Y
    hp: 20
    attack_interval: 5
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBestiary(writeYAML(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}
