package viewport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casegraph/domain/config"
	"casegraph/domain/core/valueobjects"
)

func settle(m *Manager, start time.Time) time.Time {
	now := start
	for m.Advance(now) {
		now = now.Add(16 * time.Millisecond)
	}
	// One extra frame past the duration lands the transition.
	now = now.Add(500 * time.Millisecond)
	m.Advance(now)
	return now
}

func TestManager_ZoomClamp(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	now := time.Unix(0, 0)

	t.Run("wheel zoom of 100x resolves to the upper bound", func(t *testing.T) {
		m := NewManager(cfg, "case-1", 800, 600)
		m.Wheel(100, valueobjects.NewVector(400, 300), now)
		assert.Equal(t, cfg.MaxScale, m.Transform().Scale)
	})

	t.Run("wheel zoom of 0.001x resolves to the lower bound", func(t *testing.T) {
		m := NewManager(cfg, "case-1", 800, 600)
		m.Wheel(0.001, valueobjects.NewVector(400, 300), now)
		assert.Equal(t, cfg.MinScale, m.Transform().Scale)
	})

	t.Run("repeated zoom steps saturate at the bound", func(t *testing.T) {
		m := NewManager(cfg, "case-1", 800, 600)
		for i := 0; i < 20; i++ {
			m.ZoomIn(now)
			now = settle(m, now)
		}
		assert.Equal(t, cfg.MaxScale, m.Transform().Scale)
	})
}

func TestManager_WheelKeepsPointerFixed(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	m := NewManager(cfg, "case-1", 800, 600)
	now := time.Unix(0, 0)

	pointer := valueobjects.NewVector(200, 150)
	before := m.Transform().Invert(pointer)

	m.Wheel(1.5, pointer, now)

	after := m.Transform().Invert(pointer)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestManager_Transitions(t *testing.T) {
	cfg := config.DefaultDomainConfig()

	t.Run("zoom in animates instead of snapping", func(t *testing.T) {
		m := NewManager(cfg, "case-1", 800, 600)
		start := time.Unix(0, 0)

		m.ZoomIn(start)
		require.True(t, m.Transitioning())
		assert.Equal(t, 1.0, m.Transform().Scale, "transform unchanged before the first frame")

		m.Advance(start.Add(cfg.TransitionDuration / 2))
		mid := m.Transform().Scale
		assert.Greater(t, mid, 1.0)
		assert.Less(t, mid, cfg.ZoomStepFactor)

		m.Advance(start.Add(cfg.TransitionDuration * 2))
		assert.False(t, m.Transitioning())
		assert.InDelta(t, cfg.ZoomStepFactor, m.Transform().Scale, 1e-9)
	})

	t.Run("reset lands exactly on identity", func(t *testing.T) {
		m := NewManager(cfg, "case-1", 800, 600)
		now := time.Unix(0, 0)
		m.Wheel(2, valueobjects.NewVector(100, 100), now)
		m.Pan(40, -25, now)

		m.Reset(now)
		settle(m, now)

		assert.True(t, m.Transform().Equals(valueobjects.IdentityTransform()))
	})

	t.Run("zoom to node centers the node at the focus scale", func(t *testing.T) {
		m := NewManager(cfg, "case-1", 800, 600)
		now := time.Unix(0, 0)
		target := valueobjects.NewVector(950, -120)

		m.ZoomToNode(target, now)
		settle(m, now)

		tr := m.Transform()
		assert.Equal(t, cfg.ZoomToNodeScale, tr.Scale)
		onScreen := tr.Apply(target)
		assert.InDelta(t, 400, onScreen.X, 1e-9)
		assert.InDelta(t, 300, onScreen.Y, 1e-9)
	})

	t.Run("a direct gesture cancels an in-flight transition", func(t *testing.T) {
		m := NewManager(cfg, "case-1", 800, 600)
		now := time.Unix(0, 0)

		m.ZoomIn(now)
		m.Pan(10, 10, now.Add(50*time.Millisecond))

		assert.False(t, m.Transitioning())
		assert.Equal(t, 1.0, m.Transform().Scale)
		assert.Equal(t, 10.0, m.Transform().TranslateX)
	})
}

func TestManager_Events(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	m := NewManager(cfg, "case-1", 800, 600)
	now := time.Unix(0, 0)

	m.Pan(5, 5, now)
	m.ZoomIn(now)
	settle(m, now)

	uncommitted := m.GetUncommittedEvents()
	require.Len(t, uncommitted, 2, "one per landed operation")
	assert.Equal(t, "viewport.changed", uncommitted[0].GetEventType())

	m.MarkEventsAsCommitted()
	assert.Empty(t, m.GetUncommittedEvents())
}
