package balance

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/gravetide/server/internal/world"
)

// Engine wraps a single gopher-lua VM holding the balance scripts. The
// simulation core treats everything it produces (crit tunables, hp scaling,
// rewards) as opaque numbers; the rules live in scripts/balance/*.lua.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	dir string
	log *zap.Logger
}

// CombatParams mirrors the table returned by the Lua combat_params()
// function.
type CombatParams struct {
	CritChance     float64
	CritMultiplier float64
}

// Reward is the payload attached to kill notifications. Collaborators that
// understand it unpack it; the damage pipeline just carries it.
type Reward struct {
	XP    int
	Scrap int
}

// NewEngine creates a balance engine and loads every .lua file in dir.
// A missing directory is tolerated: all queries then fall back to Go-side
// defaults, which keeps headless tests self-contained.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	e := &Engine{dir: dir, log: log}
	vm, err := e.newVM()
	if err != nil {
		return nil, err
	}
	e.vm = vm
	return e, nil
}

// Reload builds a fresh VM from the script directory and swaps it in,
// closing the old one. On error the running VM stays untouched.
func (e *Engine) Reload() error {
	vm, err := e.newVM()
	if err != nil {
		return err
	}
	e.vm.Close()
	e.vm = vm
	e.log.Info("balance scripts reloaded", zap.String("dir", e.dir))
	return nil
}

func (e *Engine) newVM() (*lua.LState, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	entries, err := os.ReadDir(e.dir)
	if err != nil {
		if os.IsNotExist(err) {
			e.log.Warn("balance script dir missing, using built-in defaults",
				zap.String("dir", e.dir))
			return vm, nil
		}
		vm.Close()
		return nil, fmt.Errorf("read balance dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(e.dir, entry.Name())
		if err := vm.DoFile(path); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded balance script", zap.String("file", path))
	}
	return vm, nil
}

// CombatParams calls Lua combat_params(). Called once at boot and on
// reload, never per hit.
func (e *Engine) CombatParams() CombatParams {
	def := CombatParams{CritChance: 0.05, CritMultiplier: 2.0}

	fn := e.vm.GetGlobal("combat_params")
	if fn == lua.LNil {
		e.log.Error("lua function combat_params not found")
		return def
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		e.log.Error("lua combat_params error", zap.Error(err))
		return def
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua combat_params returned non-table")
		return def
	}

	return CombatParams{
		CritChance:     lFloat(rt, "crit_chance"),
		CritMultiplier: lFloat(rt, "crit_multiplier"),
	}
}

// ScaleHP calls Lua scale_hp(ctx) to grow a creature's hp with the wave
// counter. Falls back to the unscaled template value.
func (e *Engine) ScaleHP(kind world.Kind, tier, wave int, baseHP float64) float64 {
	fn := e.vm.GetGlobal("scale_hp")
	if fn == lua.LNil {
		return baseHP
	}

	t := e.vm.NewTable()
	t.RawSetString("kind", lua.LString(kind))
	t.RawSetString("tier", lua.LNumber(tier))
	t.RawSetString("wave", lua.LNumber(wave))
	t.RawSetString("base_hp", lua.LNumber(baseHP))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua scale_hp error", zap.Error(err))
		return baseHP
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	hp := float64(lua.LVAsNumber(result))
	if hp <= 0 {
		return baseHP
	}
	return hp
}

// RewardFor calls Lua reward_for(ctx) and packages the result as the opaque
// kill payload. Satisfies the damage service's RewardSource.
func (e *Engine) RewardFor(ent *world.Entity) any {
	fn := e.vm.GetGlobal("reward_for")
	if fn == lua.LNil {
		return Reward{}
	}

	t := e.vm.NewTable()
	t.RawSetString("kind", lua.LString(ent.Kind))
	t.RawSetString("tier", lua.LNumber(ent.Tier))
	t.RawSetString("max_hp", lua.LNumber(ent.MaxHP))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua reward_for error", zap.Error(err))
		return Reward{}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return Reward{}
	}

	return Reward{
		XP:    lInt(rt, "xp"),
		Scrap: lInt(rt, "scrap"),
	}
}

// HasFunction reports whether the scripts define a global function name.
// Table validation tooling uses this to flag missing hooks before a run.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// --- Lua helpers ---

func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}
