package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CreatureTemplate holds static data for one creature kind and tier loaded
// from YAML. Runtime hp may differ from HP once wave scaling is applied.
type CreatureTemplate struct {
	Kind           string  `yaml:"kind"` // enemy or boss
	Tier           int     `yaml:"tier"`
	Name           string  `yaml:"name"`
	HP             float64 `yaml:"hp"`
	Speed          float64 `yaml:"speed"`           // units per second
	Radius         float64 `yaml:"radius"`          // contact reach
	ContactDamage  float64 `yaml:"contact_damage"`  // per strike
	AttackInterval int     `yaml:"attack_interval"` // ticks between strikes

	// Boss fields. PhaseThresholds are hp ratios in descending order;
	// crossing one advances the boss phase.
	PhaseThresholds []float64 `yaml:"phase_thresholds,omitempty"`
	EnrageBelow     float64   `yaml:"enrage_below,omitempty"`       // hp ratio, 0 = never
	EnrageAfter     int       `yaml:"enrage_after_ticks,omitempty"` // ticks alive, 0 = never
}

func (c *CreatureTemplate) validate() error {
	if c.Kind != "enemy" && c.Kind != "boss" {
		return fmt.Errorf("kind must be enemy or boss, got %q", c.Kind)
	}
	if c.Tier < 1 {
		return fmt.Errorf("tier must be >= 1, got %d", c.Tier)
	}
	if c.HP <= 0 {
		return fmt.Errorf("hp must be positive, got %g", c.HP)
	}
	if c.ContactDamage < 0 {
		return fmt.Errorf("contact_damage must not be negative, got %g", c.ContactDamage)
	}
	if c.AttackInterval < 1 {
		return fmt.Errorf("attack_interval must be >= 1, got %d", c.AttackInterval)
	}
	prev := 1.0
	for _, ratio := range c.PhaseThresholds {
		if ratio <= 0 || ratio >= 1 {
			return fmt.Errorf("phase threshold %g outside (0,1)", ratio)
		}
		if ratio >= prev {
			return fmt.Errorf("phase thresholds must descend, %g follows %g", ratio, prev)
		}
		prev = ratio
	}
	if c.EnrageBelow < 0 || c.EnrageBelow >= 1 {
		return fmt.Errorf("enrage_below %g outside [0,1)", c.EnrageBelow)
	}
	if c.EnrageAfter < 0 {
		return fmt.Errorf("enrage_after_ticks must not be negative, got %d", c.EnrageAfter)
	}
	return nil
}

type bestiaryFile struct {
	Creatures []CreatureTemplate `yaml:"creatures"`
}

// creatureKey is the composite lookup key: (kind, tier).
type creatureKey struct {
	kind string
	tier int
}

// Bestiary holds all creature templates indexed by kind and tier.
type Bestiary struct {
	templates map[creatureKey]*CreatureTemplate
}

// LoadBestiary loads creature templates from a YAML file. Every template is
// validated here so the tick loop never has to.
func LoadBestiary(path string) (*Bestiary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bestiary: %w", err)
	}
	var f bestiaryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse bestiary: %w", err)
	}
	b := &Bestiary{templates: make(map[creatureKey]*CreatureTemplate, len(f.Creatures))}
	for i := range f.Creatures {
		c := &f.Creatures[i]
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("bestiary entry %d (%s): %w", i, c.Name, err)
		}
		key := creatureKey{kind: c.Kind, tier: c.Tier}
		if _, dup := b.templates[key]; dup {
			return nil, fmt.Errorf("bestiary entry %d: duplicate %s tier %d", i, c.Kind, c.Tier)
		}
		b.templates[key] = c
	}
	return b, nil
}

// Get returns the template for a kind and tier, or nil if not found.
func (b *Bestiary) Get(kind string, tier int) *CreatureTemplate {
	return b.templates[creatureKey{kind: kind, tier: tier}]
}

// Count returns the number of loaded templates.
func (b *Bestiary) Count() int {
	return len(b.templates)
}
