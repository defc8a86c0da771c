package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PylonSite is one defensive emplacement on the arena floor.
type PylonSite struct {
	ID       string  `yaml:"id"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	HP       float64 `yaml:"hp"`
	Range    float64 `yaml:"range"`
	Damage   float64 `yaml:"damage"`
	Cooldown int     `yaml:"cooldown"` // ticks between shots
}

func (p *PylonSite) validate() error {
	if p.ID == "" {
		return fmt.Errorf("id must not be empty")
	}
	if p.HP <= 0 {
		return fmt.Errorf("hp must be positive, got %g", p.HP)
	}
	if p.Range <= 0 {
		return fmt.Errorf("range must be positive, got %g", p.Range)
	}
	if p.Damage <= 0 {
		return fmt.Errorf("damage must be positive, got %g", p.Damage)
	}
	if p.Cooldown < 1 {
		return fmt.Errorf("cooldown must be >= 1, got %d", p.Cooldown)
	}
	return nil
}

// WaveSpawn is one creature batch within a wave.
type WaveSpawn struct {
	Tier  int `yaml:"tier"`
	Count int `yaml:"count"`
}

// Wave is a numbered entry in the spawn plan. Boss is a boss tier, 0 means
// no boss on that wave.
type Wave struct {
	Wave   int         `yaml:"wave"`
	Spawns []WaveSpawn `yaml:"spawns"`
	Boss   int         `yaml:"boss,omitempty"`
}

// ArenaLayout holds arena-wide geometry and pacing values.
type ArenaLayout struct {
	SpawnRadius       float64 `yaml:"spawn_radius"`        // enemies appear on this ring
	WaveIntervalTicks int     `yaml:"wave_interval_ticks"` // ticks between waves
}

type arenaFile struct {
	Arena  ArenaLayout `yaml:"arena"`
	Pylons []PylonSite `yaml:"pylons"`
	Waves  []Wave      `yaml:"waves"`
}

// ArenaTable holds the arena layout, pylon emplacements and the wave plan.
// Past the last defined wave the plan repeats its final entry; hp scaling
// keeps later repeats harder.
type ArenaTable struct {
	Layout  ArenaLayout
	pylons  []PylonSite
	waves   map[int]*Wave
	maxWave int
}

// LoadArena loads the arena definition from a YAML file.
func LoadArena(path string) (*ArenaTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arena: %w", err)
	}
	var f arenaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse arena: %w", err)
	}
	if f.Arena.SpawnRadius <= 0 {
		return nil, fmt.Errorf("arena: spawn_radius must be positive, got %g", f.Arena.SpawnRadius)
	}
	if f.Arena.WaveIntervalTicks < 1 {
		return nil, fmt.Errorf("arena: wave_interval_ticks must be >= 1, got %d", f.Arena.WaveIntervalTicks)
	}
	if len(f.Pylons) == 0 {
		return nil, fmt.Errorf("arena: at least one pylon required")
	}
	if len(f.Waves) == 0 {
		return nil, fmt.Errorf("arena: at least one wave required")
	}

	t := &ArenaTable{
		Layout: f.Arena,
		pylons: f.Pylons,
		waves:  make(map[int]*Wave, len(f.Waves)),
	}
	seen := make(map[string]struct{}, len(f.Pylons))
	for i := range f.Pylons {
		p := &f.Pylons[i]
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("pylon entry %d (%s): %w", i, p.ID, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("pylon entry %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	for i := range f.Waves {
		w := &f.Waves[i]
		if w.Wave < 1 {
			return nil, fmt.Errorf("wave entry %d: wave number must be >= 1, got %d", i, w.Wave)
		}
		if _, dup := t.waves[w.Wave]; dup {
			return nil, fmt.Errorf("wave entry %d: duplicate wave %d", i, w.Wave)
		}
		if len(w.Spawns) == 0 && w.Boss == 0 {
			return nil, fmt.Errorf("wave entry %d: wave %d spawns nothing", i, w.Wave)
		}
		for j, s := range w.Spawns {
			if s.Tier < 1 {
				return nil, fmt.Errorf("wave %d spawn %d: tier must be >= 1, got %d", w.Wave, j, s.Tier)
			}
			if s.Count < 1 {
				return nil, fmt.Errorf("wave %d spawn %d: count must be >= 1, got %d", w.Wave, j, s.Count)
			}
		}
		if w.Boss < 0 {
			return nil, fmt.Errorf("wave entry %d: boss tier must not be negative, got %d", i, w.Boss)
		}
		t.waves[w.Wave] = w
		if w.Wave > t.maxWave {
			t.maxWave = w.Wave
		}
	}
	return t, nil
}

// Pylons returns the emplacement list in file order.
func (t *ArenaTable) Pylons() []PylonSite {
	return t.pylons
}

// WavePlan returns the plan for wave n. Numbers past the last defined wave
// reuse the final entry; gaps inside the plan return nil (a rest wave).
func (t *ArenaTable) WavePlan(n int) *Wave {
	if n > t.maxWave {
		n = t.maxWave
	}
	return t.waves[n]
}

// PylonCount returns the number of pylon emplacements.
func (t *ArenaTable) PylonCount() int {
	return len(t.pylons)
}

// WaveCount returns the number of defined waves.
func (t *ArenaTable) WaveCount() int {
	return len(t.waves)
}

// MaxWave returns the highest defined wave number.
func (t *ArenaTable) MaxWave() int {
	return t.maxWave
}
