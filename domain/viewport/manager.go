package viewport

import (
	"time"

	"casegraph/domain/config"
	"casegraph/domain/core/valueobjects"
	"casegraph/domain/events"
)

// transition is an in-flight animated transform change.
type transition struct {
	from     valueobjects.ViewTransform
	to       valueobjects.ViewTransform
	start    time.Time
	duration time.Duration
}

// Manager owns the pan/zoom transform for one view. Scale is clamped to the
// configured range on every update, no matter how large the requested delta.
// Programmatic operations animate over a short fixed duration; direct
// gestures (wheel zoom, pan) apply immediately and cancel any animation.
//
// Not safe for concurrent use; callers serialize viewport updates with
// simulation ticks.
type Manager struct {
	cfg     *config.DomainConfig
	caseID  string
	width   float64
	height  float64
	current valueobjects.ViewTransform
	anim    *transition
	events  []events.DomainEvent
}

// NewManager creates a viewport at the identity transform.
func NewManager(cfg *config.DomainConfig, caseID string, width, height float64) *Manager {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Manager{
		cfg:     cfg,
		caseID:  caseID,
		width:   width,
		height:  height,
		current: valueobjects.IdentityTransform(),
	}
}

// Transform returns the current transform.
func (m *Manager) Transform() valueobjects.ViewTransform {
	return m.current
}

// Center returns the viewport center in screen space.
func (m *Manager) Center() valueobjects.Vector {
	return valueobjects.NewVector(m.width/2, m.height/2)
}

// Size returns the viewport dimensions.
func (m *Manager) Size() (width, height float64) {
	return m.width, m.height
}

// Transitioning reports whether an animated transition is in flight.
func (m *Manager) Transitioning() bool {
	return m.anim != nil
}

// Resize records new viewport dimensions. The transform is left alone; the
// layout center moves with the viewport and the simulation absorbs it.
func (m *Manager) Resize(width, height float64) {
	m.width = width
	m.height = height
}

// ZoomIn animates one multiplicative zoom step about the viewport center.
func (m *Manager) ZoomIn(now time.Time) {
	m.animateScaleAbout(m.Center(), m.current.Scale*m.cfg.ZoomStepFactor, now)
}

// ZoomOut animates one multiplicative zoom step out about the viewport
// center.
func (m *Manager) ZoomOut(now time.Time) {
	m.animateScaleAbout(m.Center(), m.current.Scale/m.cfg.ZoomStepFactor, now)
}

// Reset animates back to the identity transform.
func (m *Manager) Reset(now time.Time) {
	m.beginTransition(valueobjects.IdentityTransform(), now)
}

// ZoomToNode animates the transform so the given model-space position lands
// on the viewport center at the fixed focus scale.
func (m *Manager) ZoomToNode(position valueobjects.Vector, now time.Time) {
	scale := clamp(m.cfg.ZoomToNodeScale, m.cfg.MinScale, m.cfg.MaxScale)
	center := m.Center()
	m.beginTransition(valueobjects.ViewTransform{
		TranslateX: center.X - position.X*scale,
		TranslateY: center.Y - position.Y*scale,
		Scale:      scale,
	}, now)
}

// Wheel applies an immediate zoom by the given factor, keeping the model
// point under the pointer fixed on screen. Factors above 1 zoom in.
func (m *Manager) Wheel(factor float64, pointer valueobjects.Vector, now time.Time) {
	m.cancelTransition()

	scale := clamp(m.current.Scale*factor, m.cfg.MinScale, m.cfg.MaxScale)
	ratio := scale / m.current.Scale
	m.current = valueobjects.ViewTransform{
		TranslateX: pointer.X - (pointer.X-m.current.TranslateX)*ratio,
		TranslateY: pointer.Y - (pointer.Y-m.current.TranslateY)*ratio,
		Scale:      scale,
	}
	m.settled(now)
}

// Pan applies an immediate screen-space translation.
func (m *Manager) Pan(dx, dy float64, now time.Time) {
	m.cancelTransition()
	m.current.TranslateX += dx
	m.current.TranslateY += dy
	m.settled(now)
}

// Advance progresses an in-flight transition. Returns true while the
// transform is still changing. The transition lands exactly on its target
// and emits the viewport change when it does.
func (m *Manager) Advance(now time.Time) bool {
	if m.anim == nil {
		return false
	}

	elapsed := now.Sub(m.anim.start)
	if elapsed >= m.anim.duration {
		m.current = m.anim.to
		m.anim = nil
		m.settled(now)
		return false
	}

	u := easeCubicInOut(float64(elapsed) / float64(m.anim.duration))
	m.current = m.anim.from.Lerp(m.anim.to, u)
	return true
}

// GetUncommittedEvents returns all uncommitted domain events
func (m *Manager) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(m.events))
	copy(all, m.events)
	return all
}

// MarkEventsAsCommitted clears all uncommitted events
func (m *Manager) MarkEventsAsCommitted() {
	m.events = nil
}

func (m *Manager) animateScaleAbout(anchor valueobjects.Vector, scale float64, now time.Time) {
	scale = clamp(scale, m.cfg.MinScale, m.cfg.MaxScale)
	ratio := scale / m.current.Scale
	m.beginTransition(valueobjects.ViewTransform{
		TranslateX: anchor.X - (anchor.X-m.current.TranslateX)*ratio,
		TranslateY: anchor.Y - (anchor.Y-m.current.TranslateY)*ratio,
		Scale:      scale,
	}, now)
}

func (m *Manager) beginTransition(to valueobjects.ViewTransform, now time.Time) {
	if to.Equals(m.current) {
		m.anim = nil
		return
	}
	m.anim = &transition{
		from:     m.current,
		to:       to,
		start:    now,
		duration: m.cfg.TransitionDuration,
	}
}

func (m *Manager) cancelTransition() {
	m.anim = nil
}

func (m *Manager) settled(now time.Time) {
	m.events = append(m.events, events.NewViewportChanged(
		m.caseID, m.current.TranslateX, m.current.TranslateY, m.current.Scale, now,
	))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// easeCubicInOut is the standard smooth easing used for programmatic
// transitions.
func easeCubicInOut(u float64) float64 {
	if u < 0.5 {
		return 4 * u * u * u
	}
	d := 2*u - 2
	return 1 + d*d*d/2
}
