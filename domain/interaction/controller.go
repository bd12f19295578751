package interaction

import (
	"math"
	"time"

	"casegraph/domain/config"
	"casegraph/domain/core/aggregates"
	"casegraph/domain/core/valueobjects"
	"casegraph/domain/selection"
	"casegraph/domain/simulation"
	"casegraph/domain/viewport"
)

// pointerState tracks one press from down to release.
type pointerState struct {
	active   bool
	nodeID   string
	start    valueobjects.Vector
	dragging bool
}

// Controller disambiguates clicks from drags and routes pointer gestures to
// the right collaborator. A press on a node is reserved for node dragging and
// never pans the canvas; a press on empty canvas pans. Movement below the
// pixel threshold on both axes stays a click.
//
// During a drag the controller exclusively owns the grabbed node's position:
// it pins the node and reheats so neighbors react, or, while the engine is
// frozen, writes resting positions directly so the node stays exactly where
// it is dropped.
type Controller struct {
	cfg     *config.DomainConfig
	graph   *aggregates.GraphView
	sim     *simulation.Simulation
	sel     *selection.Engine
	view    *viewport.Manager
	pointer pointerState
}

// NewController wires the pointer state machine to its collaborators.
func NewController(cfg *config.DomainConfig, graph *aggregates.GraphView, sim *simulation.Simulation, sel *selection.Engine, view *viewport.Manager) *Controller {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Controller{
		cfg:   cfg,
		graph: graph,
		sim:   sim,
		sel:   sel,
		view:  view,
	}
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.pointer.dragging
}

// PointerDown starts tracking a press. nodeID is empty for a press on open
// canvas; an id that is not in the node set is treated the same way.
func (c *Controller) PointerDown(nodeID string, at valueobjects.Vector) {
	if nodeID != "" && !c.graph.HasNode(nodeID) {
		nodeID = ""
	}
	c.pointer = pointerState{
		active: true,
		nodeID: nodeID,
		start:  at,
	}
}

// PointerMove updates an active press. The press escalates to a drag once
// movement exceeds the threshold in either axis; before that it is ignored.
func (c *Controller) PointerMove(at valueobjects.Vector, now time.Time) {
	if !c.pointer.active {
		return
	}

	if !c.pointer.dragging {
		if math.Abs(at.X-c.pointer.start.X) <= c.cfg.DragThresholdPx &&
			math.Abs(at.Y-c.pointer.start.Y) <= c.cfg.DragThresholdPx {
			return
		}
		c.pointer.dragging = true
		c.beginDrag(at)
	}

	if c.pointer.nodeID != "" {
		c.dragNode(at)
		return
	}
	c.view.Pan(at.X-c.pointer.start.X, at.Y-c.pointer.start.Y, now)
	c.pointer.start = at
}

// PointerUp finishes a press. A release that never crossed the drag
// threshold dispatches a click: select for a node, clear selection for
// canvas. A node drag releases the pin unless the engine is frozen, in which
// case the node keeps its written resting position.
func (c *Controller) PointerUp(at valueobjects.Vector) {
	if !c.pointer.active {
		return
	}
	defer func() { c.pointer = pointerState{} }()

	if !c.pointer.dragging {
		if c.pointer.nodeID != "" {
			c.sel.Select(c.pointer.nodeID)
		} else {
			c.sel.Clear()
		}
		return
	}

	if c.pointer.nodeID == "" || c.sim.IsFrozen() {
		return
	}
	if node, ok := c.graph.Node(c.pointer.nodeID); ok {
		node.Unpin()
	}
}

func (c *Controller) beginDrag(at valueobjects.Vector) {
	if c.pointer.nodeID == "" {
		return
	}
	c.dragNode(at)
	if !c.sim.IsFrozen() {
		c.sim.Reheat(c.cfg.DragReheat)
	}
}

func (c *Controller) dragNode(at valueobjects.Vector) {
	node, ok := c.graph.Node(c.pointer.nodeID)
	if !ok {
		return
	}
	model := c.view.Transform().Invert(at)
	if c.sim.IsFrozen() {
		node.PlaceAt(model)
		return
	}
	node.Pin(model)
}
