package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/gravetide/server/internal/combat"
	"github.com/gravetide/server/internal/world"
)

func TestRadarSnapshotsOnInterval(t *testing.T) {
	h := newHarness(t, combat.ModeImmediate, 8, testArenaYAML)
	radar := NewRadarSystem(h.tracker, h.svc, h.spawner, 2, zap.NewNop())

	h.spawner.Update(dt) // wave 1: three enemies

	radar.Update(dt)
	assert.Zero(t, radar.Last(), "first frame waits out the interval")

	radar.Update(dt)
	snap := radar.Last()
	assert.Equal(t, int64(2), snap.Tick)
	assert.Equal(t, 1, snap.Wave)
	assert.Equal(t, 3, snap.Enemies)
	assert.Equal(t, 0, snap.Bosses)
	assert.Equal(t, 1, snap.Pylons)
	assert.Equal(t, 0, snap.QueueDepth)
}

func TestRadarDisabledByZeroInterval(t *testing.T) {
	h := newHarness(t, combat.ModeImmediate, 8, testArenaYAML)
	radar := NewRadarSystem(h.tracker, h.svc, h.spawner, 0, zap.NewNop())

	for i := 0; i < 5; i++ {
		radar.Update(dt)
	}
	assert.Zero(t, radar.Last())
}

func TestRadarSeesQueueDepth(t *testing.T) {
	h := newHarness(t, combat.ModeQueued, 8, testArenaYAML)
	radar := NewRadarSystem(h.tracker, h.svc, h.spawner, 1, zap.NewNop())

	h.placeEnemy(t, "en-1", world.Vec2{X: 5})
	h.svc.ApplyDamage("en-1", 5, "py-main", nil)
	h.svc.ApplyDamage("en-1", 5, "py-main", nil)

	radar.Update(dt)
	assert.Equal(t, 2, radar.Last().QueueDepth, "undrained backlog shows in the frame")
}
