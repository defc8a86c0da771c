package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Sim     SimConfig     `toml:"sim"`
	Combat  CombatConfig  `toml:"combat"`
	Spawner SpawnerConfig `toml:"spawner"`
	Radar   RadarConfig   `toml:"radar"`
	Data    DataConfig    `toml:"data"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type SimConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks int64         `toml:"max_ticks"` // 0 = run until signalled
	Seed     int64         `toml:"seed"`      // 0 = seed from wall clock
	CellSize float64       `toml:"cell_size"` // spatial grid granularity
}

type CombatConfig struct {
	Mode          string `toml:"mode"` // "immediate" or "queued"
	QueueCapacity int    `toml:"queue_capacity"`
	EventPoolSize int    `toml:"event_pool_size"`
}

type SpawnerConfig struct {
	MaxActive int `toml:"max_active"` // enemy slot pool size
}

type RadarConfig struct {
	IntervalTicks int `toml:"interval_ticks"` // 0 disables snapshots
}

type DataConfig struct {
	Bestiary string `toml:"bestiary"`
	Arena    string `toml:"arena"`
	Scripts  string `toml:"scripts"` // balance script directory
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "Gravetide",
		},
		Sim: SimConfig{
			TickRate: 33 * time.Millisecond,
			MaxTicks: 0,
			Seed:     0,
			CellSize: 8.0,
		},
		Combat: CombatConfig{
			Mode:          "queued",
			QueueCapacity: 1024,
			EventPoolSize: 256,
		},
		Spawner: SpawnerConfig{
			MaxActive: 512,
		},
		Radar: RadarConfig{
			IntervalTicks: 30,
		},
		Data: DataConfig{
			Bestiary: "data/bestiary.yaml",
			Arena:    "data/arena.yaml",
			Scripts:  "scripts/balance",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
