package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/gravetide/server/internal/combat"
	coresys "github.com/gravetide/server/internal/core/system"
)

// ResolveSystem drains the queued damage backlog once per tick. In immediate
// mode the queue stays empty and this is a no-op. Phase 2 (Resolve).
type ResolveSystem struct {
	svc *combat.Service
	log *zap.Logger
}

func NewResolveSystem(svc *combat.Service, log *zap.Logger) *ResolveSystem {
	return &ResolveSystem{svc: svc, log: log}
}

func (s *ResolveSystem) Phase() coresys.Phase { return coresys.PhaseResolve }

func (s *ResolveSystem) Update(_ time.Duration) {
	if n := s.svc.Drain(); n > 0 {
		s.log.Debug("damage backlog drained", zap.Int("events", n))
	}
}
