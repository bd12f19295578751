package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casegraph/domain/config"
	"casegraph/domain/core/aggregates"
	"casegraph/domain/core/valueobjects"
)

func buildGraph(t *testing.T, entityCount int, rels [][2]string) *aggregates.GraphView {
	t.Helper()

	entityRecords := make([]valueobjects.EntityRecord, 0, entityCount)
	degree := make(map[string]int)
	for _, pair := range rels {
		degree[pair[0]]++
		degree[pair[1]]++
	}
	for i := 0; i < entityCount; i++ {
		id := string(rune('a' + i))
		entityRecords = append(entityRecords, valueobjects.EntityRecord{
			ID:     id,
			Type:   "person",
			Name:   "Entity " + id,
			Degree: degree[id],
		})
	}

	relationshipRecords := make([]valueobjects.RelationshipRecord, 0, len(rels))
	for i, pair := range rels {
		relationshipRecords = append(relationshipRecords, valueobjects.RelationshipRecord{
			ID:             string(rune('0' + i)),
			SourceEntityID: pair[0],
			TargetEntityID: pair[1],
			Label:          "knows",
		})
	}

	g := aggregates.NewGraphView("case-1", config.DefaultDomainConfig(), valueobjects.NewVector(400, 300))
	g.ApplyData(entityRecords, relationshipRecords)
	return g
}

func TestSimulation_Lifecycle(t *testing.T) {
	t.Run("starts running on first non-empty build", func(t *testing.T) {
		g := buildGraph(t, 3, [][2]string{{"a", "b"}, {"b", "c"}})
		s := NewSimulation(config.DefaultDomainConfig(), g)

		assert.Equal(t, StateUninitialized, s.State())
		s.OnGraphRebuilt()
		assert.Equal(t, StateRunning, s.State())
		assert.Equal(t, 1.0, s.Alpha())
	})

	t.Run("empty graph never starts", func(t *testing.T) {
		g := aggregates.NewGraphView("case-1", config.DefaultDomainConfig(), valueobjects.Vector{})
		g.ApplyData(nil, nil)
		s := NewSimulation(config.DefaultDomainConfig(), g)

		s.OnGraphRebuilt()
		assert.Equal(t, StateUninitialized, s.State())
		assert.False(t, s.Tick())
	})

	t.Run("alpha is non-increasing and engine idles below the minimum", func(t *testing.T) {
		g := buildGraph(t, 4, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}})
		s := NewSimulation(config.DefaultDomainConfig(), g)
		s.Start()

		prev := s.Alpha()
		for i := 0; i < 1000 && s.State() == StateRunning; i++ {
			s.Tick()
			require.LessOrEqual(t, s.Alpha(), prev)
			prev = s.Alpha()
		}

		assert.Equal(t, StateIdle, s.State())
		assert.Zero(t, s.Alpha())
		assert.False(t, s.Tick(), "idle engine must not tick")
	})

	t.Run("reheat restarts an idle engine", func(t *testing.T) {
		g := buildGraph(t, 2, [][2]string{{"a", "b"}})
		s := NewSimulation(config.DefaultDomainConfig(), g)
		s.Start()
		for s.State() == StateRunning {
			s.Tick()
		}

		s.Reheat(0.3)
		assert.Equal(t, StateRunning, s.State())
		assert.Equal(t, 0.3, s.Alpha())
	})

	t.Run("reheat never lowers alpha", func(t *testing.T) {
		g := buildGraph(t, 2, [][2]string{{"a", "b"}})
		s := NewSimulation(config.DefaultDomainConfig(), g)
		s.Start()

		s.Reheat(0.3)
		assert.Equal(t, 1.0, s.Alpha())
	})

	t.Run("stop zeroes alpha and freezes, resume reheats gently", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		g := buildGraph(t, 3, [][2]string{{"a", "b"}, {"b", "c"}})
		s := NewSimulation(cfg, g)
		s.Start()
		s.Tick()

		s.Stop()
		assert.Equal(t, StateStopped, s.State())
		assert.Zero(t, s.Alpha())
		assert.True(t, s.IsFrozen())
		assert.False(t, s.Tick())

		// A frozen engine ignores reheats from data updates and drags.
		s.OnGraphRebuilt()
		assert.Equal(t, StateStopped, s.State())

		s.Resume()
		assert.Equal(t, StateRunning, s.State())
		assert.Equal(t, cfg.DragReheat, s.Alpha())
	})

	t.Run("data update reheats a running engine to full temperature", func(t *testing.T) {
		g := buildGraph(t, 2, [][2]string{{"a", "b"}})
		s := NewSimulation(config.DefaultDomainConfig(), g)
		s.Start()
		for i := 0; i < 50; i++ {
			s.Tick()
		}
		require.Less(t, s.Alpha(), 1.0)

		s.OnGraphRebuilt()
		assert.Equal(t, 1.0, s.Alpha())
	})

	t.Run("emits state change events", func(t *testing.T) {
		g := buildGraph(t, 2, [][2]string{{"a", "b"}})
		s := NewSimulation(config.DefaultDomainConfig(), g)

		s.Start()
		s.Stop()
		s.Resume()

		uncommitted := s.GetUncommittedEvents()
		require.Len(t, uncommitted, 3)
		assert.Equal(t, "simulation.state_changed", uncommitted[0].GetEventType())

		s.MarkEventsAsCommitted()
		assert.Empty(t, s.GetUncommittedEvents())
	})
}

func TestSimulation_Physics(t *testing.T) {
	t.Run("connected pair settles near the link distance", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		cfg.EnableRadial = false
		g := buildGraph(t, 2, [][2]string{{"a", "b"}})
		s := NewSimulation(cfg, g)
		s.Start()
		for s.State() == StateRunning {
			s.Tick()
		}

		a, _ := g.Node("a")
		b, _ := g.Node("b")
		dist := a.Position().DistanceTo(b.Position())

		// Link attraction and charge repulsion balance in a band around
		// the target separation.
		assert.Greater(t, dist, cfg.LinkDistance*0.5)
		assert.Less(t, dist, cfg.LinkDistance*3)
	})

	t.Run("disconnected nodes do not collapse onto each other", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		g := buildGraph(t, 3, nil)
		s := NewSimulation(cfg, g)
		s.Start()
		for s.State() == StateRunning {
			s.Tick()
		}

		nodes := g.Nodes()
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				dist := nodes[i].Position().DistanceTo(nodes[j].Position())
				minSep := nodes[i].Radius() + nodes[j].Radius()
				assert.Greater(t, dist, minSep)
			}
		}
	})

	t.Run("pinned node is held exactly at its pin across ticks", func(t *testing.T) {
		g := buildGraph(t, 3, [][2]string{{"a", "b"}, {"b", "c"}})
		s := NewSimulation(config.DefaultDomainConfig(), g)
		s.Start()

		b, _ := g.Node("b")
		pin := valueobjects.NewVector(250, 250)
		b.Pin(pin)

		for i := 0; i < 100; i++ {
			s.Tick()
		}

		assert.Equal(t, pin, b.Position())
		assert.True(t, b.Velocity().IsZero())
	})

	t.Run("layout positions stay finite", func(t *testing.T) {
		g := buildGraph(t, 8, [][2]string{
			{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "e"},
			{"c", "f"}, {"d", "g"}, {"e", "h"},
		})
		s := NewSimulation(config.DefaultDomainConfig(), g)
		s.Start()
		for s.State() == StateRunning {
			s.Tick()
		}

		for _, node := range g.Nodes() {
			pos := node.Position()
			assert.False(t, pos.X != pos.X || pos.Y != pos.Y, "NaN position for %s", node.ID())
		}
	})
}
