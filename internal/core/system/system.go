package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseSpawn    Phase = iota // 0: admit new entities (waves, emplacements)
	PhaseUpdate                // 1: steering, fire control, boss logic
	PhaseResolve               // 2: drain the queued damage buffer
	PhaseSnapshot              // 3: cadence consumers (radar)
	PhaseCleanup               // 4: sweep dead records
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
