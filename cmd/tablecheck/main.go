// tablecheck validates the YAML data tables and Lua balance scripts without
// starting a simulation. It cross-checks the wave plan against the bestiary
// so a missing tier fails here instead of mid-run.
//
// Usage:
//
//	go run ./cmd/tablecheck [bestiary.yaml arena.yaml scripts-dir]
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gravetide/server/internal/balance"
	"github.com/gravetide/server/internal/data"
	"github.com/gravetide/server/internal/world"
)

func main() {
	bestiaryPath := "data/bestiary.yaml"
	arenaPath := "data/arena.yaml"
	scriptsDir := "scripts/balance"
	switch len(os.Args) {
	case 1:
	case 4:
		bestiaryPath, arenaPath, scriptsDir = os.Args[1], os.Args[2], os.Args[3]
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [bestiary.yaml arena.yaml scripts-dir]\n", os.Args[0])
		os.Exit(2)
	}

	bestiary, err := data.LoadBestiary(bestiaryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading %s: %v\n", bestiaryPath, err)
		os.Exit(1)
	}
	fmt.Printf("ok  %s: %d creature templates\n", bestiaryPath, bestiary.Count())

	arena, err := data.LoadArena(arenaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading %s: %v\n", arenaPath, err)
		os.Exit(1)
	}
	fmt.Printf("ok  %s: %d pylons, %d waves\n", arenaPath, arena.PylonCount(), arena.WaveCount())

	problems := 0

	// Every wave must reference templates the bestiary actually has.
	for w := 1; w <= arena.MaxWave(); w++ {
		plan := arena.WavePlan(w)
		if plan == nil {
			continue // rest wave
		}
		for _, spawn := range plan.Spawns {
			if bestiary.Get(string(world.KindEnemy), spawn.Tier) == nil {
				fmt.Fprintf(os.Stderr, "wave %d: no enemy template for tier %d\n", w, spawn.Tier)
				problems++
			}
		}
		if plan.Boss > 0 && bestiary.Get(string(world.KindBoss), plan.Boss) == nil {
			fmt.Fprintf(os.Stderr, "wave %d: no boss template for tier %d\n", w, plan.Boss)
			problems++
		}
	}

	eng, err := balance.NewEngine(scriptsDir, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading %s: %v\n", scriptsDir, err)
		os.Exit(1)
	}
	defer eng.Close()

	for _, fn := range []string{"combat_params", "scale_hp", "reward_for"} {
		if !eng.HasFunction(fn) {
			fmt.Fprintf(os.Stderr, "warning: lua function %s not defined, Go defaults apply\n", fn)
		}
	}

	p := eng.CombatParams()
	if p.CritChance < 0 || p.CritChance > 1 {
		fmt.Fprintf(os.Stderr, "combat_params: crit_chance %g outside [0,1]\n", p.CritChance)
		problems++
	}
	if p.CritMultiplier < 1 {
		fmt.Fprintf(os.Stderr, "combat_params: crit_multiplier %g below 1\n", p.CritMultiplier)
		problems++
	}
	if hp := eng.ScaleHP(world.KindEnemy, 1, 1, 100); hp <= 0 {
		fmt.Fprintf(os.Stderr, "scale_hp: wave 1 tier 1 returned %g\n", hp)
		problems++
	}
	fmt.Printf("ok  %s: crit %.2f x%.2f\n", scriptsDir, p.CritChance, p.CritMultiplier)

	if problems > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s) found\n", problems)
		os.Exit(1)
	}
	fmt.Println("all tables and scripts check out")
}
