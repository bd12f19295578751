package simulation

import (
	"math/rand"
	"time"

	"casegraph/domain/config"
	"casegraph/domain/core/aggregates"
	"casegraph/domain/events"
)

// State is the lifecycle state of the layout engine.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateRunning       State = "running"
	StateIdle          State = "idle"
	StateStopped       State = "stopped"
)

// Simulation is the iterative force layout engine. It owns alpha and the
// lifecycle state; node positions and velocities live on the graph's nodes.
//
// Not safe for concurrent use. Callers serialize ticks and state changes,
// so a reader never observes a partially integrated tick.
type Simulation struct {
	cfg    *config.DomainConfig
	graph  *aggregates.GraphView
	forces []Force
	rng    *rand.Rand

	state  State
	alpha  float64
	ticks  int
	events []events.DomainEvent
}

// NewSimulation creates an engine over the given graph with the standard
// force stack in its fixed application order.
func NewSimulation(cfg *config.DomainConfig, graph *aggregates.GraphView) *Simulation {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	s := &Simulation{
		cfg:   cfg,
		graph: graph,
		rng:   rand.New(rand.NewSource(42)),
		state: StateUninitialized,
	}

	s.forces = []Force{
		&LinkForce{cfg: cfg},
		&ManyBodyForce{cfg: cfg},
		&CenterForce{cfg: cfg},
		&CollideForce{cfg: cfg},
	}
	if cfg.EnableRadial {
		s.forces = append(s.forces, &RadialForce{cfg: cfg})
	}

	return s
}

// State returns the current lifecycle state.
func (s *Simulation) State() State {
	return s.state
}

// Alpha returns the current kinetic temperature.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Ticks returns how many ticks have run since creation.
func (s *Simulation) Ticks() int {
	return s.ticks
}

// IsFrozen reports whether the engine was stopped manually. While frozen,
// drags write resting positions directly instead of pinning and reheating.
func (s *Simulation) IsFrozen() bool {
	return s.state == StateStopped
}

// Start moves the engine from uninitialized to running at full temperature.
// Starting on an empty graph is a no-op: the engine stays uninitialized.
func (s *Simulation) Start() {
	if s.state != StateUninitialized {
		return
	}
	if s.graph.NodeCount() == 0 {
		return
	}
	s.alpha = 1
	s.transition(StateRunning)
}

// Tick runs one synchronous layout step: all forces in order, then damped
// integration, then alpha decay. Returns true if node positions may have
// moved. The engine idles itself once alpha falls below the minimum.
func (s *Simulation) Tick() bool {
	if s.state != StateRunning {
		return false
	}
	if s.graph.NodeCount() == 0 {
		s.transition(StateIdle)
		return false
	}

	frame := newFrame(s.graph, s.rng)
	for _, force := range s.forces {
		force.Apply(frame, s.alpha)
	}
	for _, node := range frame.nodes {
		node.Integrate(s.cfg.VelocityDecay)
	}

	s.ticks++
	s.alpha += (0 - s.alpha) * s.cfg.AlphaDecay
	if s.alpha < s.cfg.AlphaMin {
		s.alpha = 0
		s.transition(StateIdle)
	}

	return true
}

// Reheat raises alpha to at least the given temperature and restarts ticking
// if the engine had converged. A manual stop is not overridden: the frozen
// state survives data updates and drags.
func (s *Simulation) Reheat(to float64) {
	if s.state == StateStopped || s.state == StateUninitialized {
		return
	}
	if to > s.alpha {
		s.alpha = to
	}
	if s.state == StateIdle && s.alpha >= s.cfg.AlphaMin {
		s.transition(StateRunning)
	}
}

// Stop halts ticking immediately and zeroes alpha. Positions and velocities
// are left untouched so a later resume continues from the same layout.
func (s *Simulation) Stop() {
	if s.state != StateRunning && s.state != StateIdle {
		return
	}
	s.alpha = 0
	s.transition(StateStopped)
}

// Resume restarts a manually stopped engine with a gentle reheat, keeping
// all positions and velocities.
func (s *Simulation) Resume() {
	if s.state != StateStopped {
		return
	}
	s.alpha = s.cfg.DragReheat
	s.transition(StateRunning)
}

// OnGraphRebuilt reacts to a data update. A first non-empty build starts the
// engine; later rebuilds reheat so the layout absorbs the new nodes. A frozen
// engine stays frozen.
func (s *Simulation) OnGraphRebuilt() {
	if s.state == StateUninitialized {
		s.Start()
		return
	}
	s.Reheat(1)
}

// GetUncommittedEvents returns all uncommitted domain events
func (s *Simulation) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(s.events))
	copy(all, s.events)
	return all
}

// MarkEventsAsCommitted clears all uncommitted events
func (s *Simulation) MarkEventsAsCommitted() {
	s.events = nil
}

func (s *Simulation) transition(next State) {
	if s.state == next {
		return
	}
	s.state = next
	s.events = append(s.events, events.NewSimulationStateChanged(
		s.graph.CaseID(), string(next), s.alpha, s.ticks, time.Now(),
	))
}
