package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gravetide/server/internal/balance"
	"github.com/gravetide/server/internal/combat"
	"github.com/gravetide/server/internal/config"
	"github.com/gravetide/server/internal/core/event"
	coresys "github.com/gravetide/server/internal/core/system"
	"github.com/gravetide/server/internal/data"
	"github.com/gravetide/server/internal/system"
	"github.com/gravetide/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            GRAVETIDE  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      headless horde arena simulation      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config.toml"
	if p := os.Getenv("GRAVETIDE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Load data tables
	printSection("data tables")

	bestiary, err := data.LoadBestiary(cfg.Data.Bestiary)
	if err != nil {
		return fmt.Errorf("bestiary: %w", err)
	}
	printStat("creature templates", bestiary.Count())

	arena, err := data.LoadArena(cfg.Data.Arena)
	if err != nil {
		return fmt.Errorf("arena: %w", err)
	}
	printStat("pylon emplacements", arena.PylonCount())
	printStat("waves planned", arena.WaveCount())

	// 4. Balance scripts (Lua)
	engine, err := balance.NewEngine(cfg.Data.Scripts, log)
	if err != nil {
		return fmt.Errorf("balance scripts: %w", err)
	}
	defer engine.Close()
	printOK("balance scripts loaded")
	fmt.Println()

	// 5. Wire the simulation core
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mode, err := combat.ParseMode(cfg.Combat.Mode)
	if err != nil {
		return fmt.Errorf("combat config: %w", err)
	}

	bus := event.NewBus()
	tracker := world.NewTracker(cfg.Sim.CellSize, log)
	params := engine.CombatParams()
	svc := combat.NewService(tracker, bus, engine, rng, combat.Config{
		Mode:          mode,
		QueueCapacity: cfg.Combat.QueueCapacity,
		PoolSize:      cfg.Combat.EventPoolSize,
		Params: combat.Params{
			CritChance:     params.CritChance,
			CritMultiplier: params.CritMultiplier,
		},
	}, log)

	pylons := system.NewPylonSystem(tracker, svc, arena, bus, log)
	bosses := system.NewBossSystem(tracker, svc, pylons, bus, log)
	spawner := system.NewSpawnerSystem(tracker, bosses, engine, arena, bestiary, bus, rng, cfg.Spawner.MaxActive, log)
	horde := system.NewHordeSystem(tracker, svc, spawner, pylons, log)
	radar := system.NewRadarSystem(tracker, svc, spawner, cfg.Radar.IntervalTicks, log)

	runner := coresys.NewRunner()
	runner.Register(spawner)
	runner.Register(horde)
	runner.Register(pylons)
	runner.Register(bosses)
	runner.Register(system.NewResolveSystem(svc, log))
	runner.Register(radar)
	runner.Register(system.NewSweepSystem(tracker, log))

	deployed := pylons.Deploy()

	// 6. Signals: INT/TERM stop the run, HUP reloads the balance scripts
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	reloadCh := make(chan os.Signal, 1)
	signal.Notify(reloadCh, syscall.SIGHUP)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("arena ready")
	printReady(fmt.Sprintf("%d pylons deployed", deployed))
	printReady(fmt.Sprintf("damage mode %s", mode))
	printReady(fmt.Sprintf("tick loop started (tick: %s, seed: %d)", cfg.Sim.TickRate, seed))
	fmt.Println()

	var tick int64
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
			tick++
			if pylons.Alive() == 0 {
				log.Info("all pylons destroyed, arena lost",
					zap.Int64("tick", tick),
					zap.Int("wave", spawner.Wave()))
				printSummary(svc, spawner, tick)
				return nil
			}
			if cfg.Sim.MaxTicks > 0 && tick >= cfg.Sim.MaxTicks {
				log.Info("max ticks reached", zap.Int64("tick", tick))
				printSummary(svc, spawner, tick)
				return nil
			}
		case <-reloadCh:
			if err := engine.Reload(); err != nil {
				log.Error("balance reload failed, keeping old scripts", zap.Error(err))
				continue
			}
			p := engine.CombatParams()
			svc.Reconfigure(combat.Params{
				CritChance:     p.CritChance,
				CritMultiplier: p.CritMultiplier,
			})
			log.Info("combat tunables reapplied",
				zap.Float64("crit_chance", p.CritChance),
				zap.Float64("crit_multiplier", p.CritMultiplier))
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			printSummary(svc, spawner, tick)
			return nil
		}
	}
}

func printSummary(svc *combat.Service, spawner *system.SpawnerSystem, tick int64) {
	st := svc.Stats()
	sp := spawner.Stats()
	fmt.Println()
	printSection("run summary")
	printStat("ticks simulated", int(tick))
	printStat("waves reached", spawner.Wave())
	printStat("enemies spawned", int(sp.Spawned))
	printStat("bosses spawned", int(sp.Bosses))
	printStat("spawns deferred", int(sp.Deferred))
	printStat("hits resolved", int(st.Applied))
	printStat("crits", int(st.Crits))
	printStat("kills", int(st.Kills))
	printStat("hits shed", int(st.Shed))
	fmt.Println()
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
