package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravetide/server/internal/world"
)

func TestNewEventPreallocatesTags(t *testing.T) {
	ev := newEvent()
	assert.Empty(t, ev.Tags)
	assert.Equal(t, defaultTagCap, cap(ev.Tags))
}

func TestResetScrubsInPlace(t *testing.T) {
	ev := newEvent()
	ev.Target = "en-1"
	ev.Base = 10
	ev.Source = "py-1"
	ev.Tags = append(ev.Tags, "burn", "stun")
	ev.Final = 20
	ev.IsCrit = true
	require.Equal(t, defaultTagCap, cap(ev.Tags), "append must not have grown the slice")

	backing := ev.Tags[:cap(ev.Tags)]
	resetEvent(ev)

	assert.Equal(t, world.ID(""), ev.Target)
	assert.Zero(t, ev.Base)
	assert.Empty(t, ev.Source)
	assert.Empty(t, ev.Tags)
	assert.Zero(t, ev.Final)
	assert.False(t, ev.IsCrit)

	// Truncated, not reallocated, and no string survives behind the length.
	assert.Equal(t, defaultTagCap, cap(ev.Tags))
	assert.Equal(t, "", backing[0])
	assert.Equal(t, "", backing[1])
}
