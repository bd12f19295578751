package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casegraph/domain/config"
	"casegraph/domain/core/aggregates"
	"casegraph/domain/core/valueobjects"
	"casegraph/domain/events"
)

// star graph: a is the hub, b and c its neighbors, d unrelated.
func starGraph(t *testing.T) *aggregates.GraphView {
	t.Helper()

	g := aggregates.NewGraphView("case-1", config.DefaultDomainConfig(), valueobjects.Vector{})
	g.ApplyData(
		[]valueobjects.EntityRecord{
			{ID: "a", Type: "person", Name: "A", Degree: 2},
			{ID: "b", Type: "person", Name: "B", Degree: 1},
			{ID: "c", Type: "person", Name: "C", Degree: 1},
			{ID: "d", Type: "person", Name: "D", Degree: 0},
		},
		[]valueobjects.RelationshipRecord{
			{ID: "r1", SourceEntityID: "a", TargetEntityID: "b", Label: "knows"},
			{ID: "r2", SourceEntityID: "a", TargetEntityID: "c", Label: "knows"},
		},
	)
	return g
}

func TestEngine_Select(t *testing.T) {
	t.Run("cluster is the node plus its neighbors", func(t *testing.T) {
		e := NewEngine(starGraph(t))

		e.Select("a")

		cluster := e.Cluster()
		assert.Equal(t, "a", cluster.SelectedNodeID)
		assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, cluster.MemberIDs)
		assert.True(t, cluster.ContainsEdge("a|b"))
		assert.True(t, cluster.ContainsEdge("a|c"))
		assert.False(t, cluster.Contains("d"))
	})

	t.Run("selecting the selected node clears the selection", func(t *testing.T) {
		e := NewEngine(starGraph(t))

		e.Select("a")
		e.Select("a")

		assert.False(t, e.Cluster().Active())
		assert.Empty(t, e.SelectedNodeID())
	})

	t.Run("unknown id acts as a deselection", func(t *testing.T) {
		e := NewEngine(starGraph(t))

		e.Select("a")
		e.Select("ghost")

		assert.False(t, e.Cluster().Active())
	})

	t.Run("edges leaving the cluster are excluded", func(t *testing.T) {
		e := NewEngine(starGraph(t))

		e.Select("b")

		cluster := e.Cluster()
		assert.True(t, cluster.ContainsEdge("a|b"))
		assert.False(t, cluster.ContainsEdge("a|c"), "c is outside b's cluster")
	})

	t.Run("emits selection changed events with cluster size", func(t *testing.T) {
		e := NewEngine(starGraph(t))

		e.Select("a")
		e.Clear()

		uncommitted := e.GetUncommittedEvents()
		require.Len(t, uncommitted, 2)

		selected, ok := uncommitted[0].(events.SelectionChanged)
		require.True(t, ok)
		assert.Equal(t, "a", selected.EntityID)
		assert.Equal(t, 3, selected.ClusterSize)

		cleared, ok := uncommitted[1].(events.SelectionChanged)
		require.True(t, ok)
		assert.Empty(t, cleared.EntityID)
	})

	t.Run("clear without a selection emits nothing", func(t *testing.T) {
		e := NewEngine(starGraph(t))
		e.Clear()
		assert.Empty(t, e.GetUncommittedEvents())
	})
}

func TestEngine_Refresh(t *testing.T) {
	g := starGraph(t)
	e := NewEngine(g)
	e.Select("a")

	t.Run("selection survives a rebuild that keeps the node", func(t *testing.T) {
		g.ApplyData(
			[]valueobjects.EntityRecord{
				{ID: "a", Type: "person", Name: "A", Degree: 1},
				{ID: "b", Type: "person", Name: "B", Degree: 1},
			},
			[]valueobjects.RelationshipRecord{
				{ID: "r1", SourceEntityID: "a", TargetEntityID: "b", Label: "knows"},
			},
		)
		e.Refresh()

		assert.Equal(t, "a", e.SelectedNodeID())
		assert.Equal(t, map[string]bool{"a": true, "b": true}, e.Cluster().MemberIDs)
	})

	t.Run("selection clears when the node disappears", func(t *testing.T) {
		g.ApplyData(
			[]valueobjects.EntityRecord{{ID: "b", Type: "person", Name: "B", Degree: 0}},
			nil,
		)
		e.Refresh()

		assert.False(t, e.Cluster().Active())
	})
}

func TestDeriveEmphasis(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	e := NewEngine(starGraph(t))

	t.Run("no selection renders uniform default opacity", func(t *testing.T) {
		em := DeriveNodeEmphasis(cfg, e.Cluster(), nil, "a")
		assert.Equal(t, cfg.DefaultOpacity, em.Opacity)
		assert.False(t, em.Accent)

		edge := DeriveEdgeEmphasis(cfg, e.Cluster(), "a|b")
		assert.Equal(t, cfg.EdgeOpacity, edge.Opacity)
	})

	e.Select("a")
	cluster := e.Cluster()

	t.Run("cluster members render at full opacity, accent on selected only", func(t *testing.T) {
		selected := DeriveNodeEmphasis(cfg, cluster, nil, "a")
		assert.Equal(t, cfg.FullOpacity, selected.Opacity)
		assert.True(t, selected.Accent)

		neighbor := DeriveNodeEmphasis(cfg, cluster, nil, "b")
		assert.Equal(t, cfg.FullOpacity, neighbor.Opacity)
		assert.False(t, neighbor.Accent)
	})

	t.Run("non-members render at the fixed dimmed opacity", func(t *testing.T) {
		em := DeriveNodeEmphasis(cfg, cluster, nil, "d")
		assert.Equal(t, cfg.DimmedOpacity, em.Opacity)
	})

	t.Run("cluster edges render elevated, others dimmed", func(t *testing.T) {
		in := DeriveEdgeEmphasis(cfg, cluster, "a|b")
		assert.Equal(t, cfg.ClusterEdgeOpacity, in.Opacity)
		assert.True(t, in.Accent)
	})

	t.Run("selection suppresses search highlight", func(t *testing.T) {
		highlighted := map[string]bool{"d": true}

		em := DeriveNodeEmphasis(cfg, cluster, highlighted, "d")
		assert.False(t, em.Highlighted)

		e.Clear()
		em = DeriveNodeEmphasis(cfg, e.Cluster(), highlighted, "d")
		assert.True(t, em.Highlighted)
	})
}
