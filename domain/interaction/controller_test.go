package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casegraph/domain/config"
	"casegraph/domain/core/aggregates"
	"casegraph/domain/core/valueobjects"
	"casegraph/domain/selection"
	"casegraph/domain/simulation"
	"casegraph/domain/viewport"
)

type fixture struct {
	graph *aggregates.GraphView
	sim   *simulation.Simulation
	sel   *selection.Engine
	view  *viewport.Manager
	ctrl  *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.DefaultDomainConfig()
	graph := aggregates.NewGraphView("case-1", cfg, valueobjects.NewVector(400, 300))
	graph.ApplyData(
		[]valueobjects.EntityRecord{
			{ID: "a", Type: "person", Name: "A", Degree: 1},
			{ID: "b", Type: "person", Name: "B", Degree: 1},
		},
		[]valueobjects.RelationshipRecord{
			{ID: "r1", SourceEntityID: "a", TargetEntityID: "b", Label: "knows"},
		},
	)

	sim := simulation.NewSimulation(cfg, graph)
	sim.Start()
	sel := selection.NewEngine(graph)
	view := viewport.NewManager(cfg, "case-1", 800, 600)

	return &fixture{
		graph: graph,
		sim:   sim,
		sel:   sel,
		view:  view,
		ctrl:  NewController(cfg, graph, sim, sel, view),
	}
}

func TestController_ClickVersusDrag(t *testing.T) {
	now := time.Unix(0, 0)

	t.Run("sub-threshold movement dispatches a select, not a drag", func(t *testing.T) {
		f := newFixture(t)

		f.ctrl.PointerDown("a", valueobjects.NewVector(100, 100))
		f.ctrl.PointerMove(valueobjects.NewVector(102, 101), now)
		f.ctrl.PointerUp(valueobjects.NewVector(102, 101))

		assert.Equal(t, "a", f.sel.SelectedNodeID())
		node, _ := f.graph.Node("a")
		assert.False(t, node.IsPinned())
	})

	t.Run("movement past the threshold becomes a drag and suppresses the click", func(t *testing.T) {
		f := newFixture(t)

		f.ctrl.PointerDown("a", valueobjects.NewVector(100, 100))
		f.ctrl.PointerMove(valueobjects.NewVector(110, 100), now)
		require.True(t, f.ctrl.Dragging())

		node, _ := f.graph.Node("a")
		assert.True(t, node.IsPinned())

		f.ctrl.PointerUp(valueobjects.NewVector(110, 100))
		assert.Empty(t, f.sel.SelectedNodeID())
		assert.False(t, node.IsPinned(), "pin released on drag end")
	})

	t.Run("threshold applies per axis", func(t *testing.T) {
		f := newFixture(t)

		f.ctrl.PointerDown("a", valueobjects.NewVector(100, 100))
		f.ctrl.PointerMove(valueobjects.NewVector(100, 106), now)
		assert.True(t, f.ctrl.Dragging())
	})

	t.Run("canvas click clears the selection", func(t *testing.T) {
		f := newFixture(t)
		f.sel.Select("a")

		f.ctrl.PointerDown("", valueobjects.NewVector(300, 300))
		f.ctrl.PointerUp(valueobjects.NewVector(300, 300))

		assert.Empty(t, f.sel.SelectedNodeID())
	})

	t.Run("press on an unknown node id behaves as a canvas press", func(t *testing.T) {
		f := newFixture(t)
		f.sel.Select("a")

		f.ctrl.PointerDown("ghost", valueobjects.NewVector(10, 10))
		f.ctrl.PointerUp(valueobjects.NewVector(10, 10))

		assert.Empty(t, f.sel.SelectedNodeID())
	})
}

func TestController_NodeDrag(t *testing.T) {
	now := time.Unix(0, 0)

	t.Run("dragging pins the node under the pointer and reheats", func(t *testing.T) {
		f := newFixture(t)
		for f.sim.State() == simulation.StateRunning {
			f.sim.Tick()
		}
		require.Equal(t, simulation.StateIdle, f.sim.State())

		f.ctrl.PointerDown("a", valueobjects.NewVector(100, 100))
		f.ctrl.PointerMove(valueobjects.NewVector(150, 150), now)

		assert.Equal(t, simulation.StateRunning, f.sim.State())

		node, _ := f.graph.Node("a")
		assert.True(t, node.IsPinned())
		assert.Equal(t, valueobjects.NewVector(150, 150), node.PinTarget())
	})

	t.Run("drag coordinates pass through the inverse viewport transform", func(t *testing.T) {
		f := newFixture(t)
		f.view.Wheel(2, valueobjects.NewVector(0, 0), now)
		require.Equal(t, 2.0, f.view.Transform().Scale)

		f.ctrl.PointerDown("a", valueobjects.NewVector(100, 100))
		f.ctrl.PointerMove(valueobjects.NewVector(200, 200), now)

		node, _ := f.graph.Node("a")
		assert.Equal(t, valueobjects.NewVector(100, 100), node.PinTarget())
	})

	t.Run("frozen drag writes the resting position exactly with no drift", func(t *testing.T) {
		f := newFixture(t)
		f.sim.Stop()

		f.ctrl.PointerDown("a", valueobjects.NewVector(0, 0))
		f.ctrl.PointerMove(valueobjects.NewVector(30, 30), now)
		f.ctrl.PointerMove(valueobjects.NewVector(50, 50), now)
		f.ctrl.PointerUp(valueobjects.NewVector(50, 50))

		node, _ := f.graph.Node("a")
		assert.Equal(t, valueobjects.NewVector(50, 50), node.Position())
		assert.False(t, node.IsPinned())
		assert.Equal(t, simulation.StateStopped, f.sim.State(), "no reheat while frozen")

		// Nothing ticks, so the position cannot drift afterwards.
		assert.False(t, f.sim.Tick())
		assert.Equal(t, valueobjects.NewVector(50, 50), node.Position())
	})
}

func TestController_CanvasPan(t *testing.T) {
	now := time.Unix(0, 0)

	t.Run("canvas drag pans the viewport", func(t *testing.T) {
		f := newFixture(t)

		f.ctrl.PointerDown("", valueobjects.NewVector(100, 100))
		f.ctrl.PointerMove(valueobjects.NewVector(130, 80), now)

		tr := f.view.Transform()
		assert.Equal(t, 30.0, tr.TranslateX)
		assert.Equal(t, -20.0, tr.TranslateY)
	})

	t.Run("node drag never pans the canvas", func(t *testing.T) {
		f := newFixture(t)

		f.ctrl.PointerDown("a", valueobjects.NewVector(100, 100))
		f.ctrl.PointerMove(valueobjects.NewVector(200, 200), now)

		tr := f.view.Transform()
		assert.Zero(t, tr.TranslateX)
		assert.Zero(t, tr.TranslateY)
	})
}

func TestPlaceTooltip(t *testing.T) {
	cfg := config.DefaultDomainConfig()

	t.Run("default placement offsets from the pointer", func(t *testing.T) {
		p := PlaceTooltip(cfg, 100, 100, 200, 80, 800, 600)
		assert.Equal(t, 100+cfg.TooltipOffsetPx, p.X)
		assert.Equal(t, 100+cfg.TooltipOffsetPx, p.Y)
	})

	t.Run("flips when the preferred side overflows", func(t *testing.T) {
		p := PlaceTooltip(cfg, 780, 580, 200, 80, 800, 600)
		assert.Equal(t, 780-cfg.TooltipOffsetPx-200, p.X)
		assert.Equal(t, 580-cfg.TooltipOffsetPx-80, p.Y)
	})

	t.Run("clamps inside the margin when flipping is not enough", func(t *testing.T) {
		p := PlaceTooltip(cfg, 5, 5, 200, 80, 800, 600)
		assert.GreaterOrEqual(t, p.X, cfg.TooltipMarginPx)
		assert.GreaterOrEqual(t, p.Y, cfg.TooltipMarginPx)

		p = PlaceTooltip(cfg, 810, 300, 400, 80, 800, 600)
		assert.Equal(t, 800-cfg.TooltipMarginPx-400, p.X)
	})
}
