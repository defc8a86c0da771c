package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/gravetide/server/internal/core/system"
	"github.com/gravetide/server/internal/world"
)

// SweepSystem purges the tick's corpses from the tracker at tick end. Until
// this runs, dead entities stay readable by id so late observers in the same
// tick see the final hp. Phase 4 (Cleanup).
type SweepSystem struct {
	tracker *world.Tracker
	log     *zap.Logger
}

func NewSweepSystem(tracker *world.Tracker, log *zap.Logger) *SweepSystem {
	return &SweepSystem{tracker: tracker, log: log}
}

func (s *SweepSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *SweepSystem) Update(_ time.Duration) {
	if n := s.tracker.Sweep(); n > 0 {
		s.log.Debug("corpses swept", zap.Int("count", n))
	}
}
