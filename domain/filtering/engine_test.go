package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casegraph/domain/config"
	"casegraph/domain/core/aggregates"
	"casegraph/domain/core/valueobjects"
)

func caseGraph(t *testing.T) *aggregates.GraphView {
	t.Helper()

	g := aggregates.NewGraphView("case-1", config.DefaultDomainConfig(), valueobjects.Vector{})
	g.ApplyData(
		[]valueobjects.EntityRecord{
			{ID: "e", Type: "person", Name: "Elena Vasquez", Domains: []string{"legal", "financial"}, Degree: 1, Aliases: []string{"EV"}},
			{ID: "f", Type: "person", Name: "Frank Moore", Domains: []string{"financial"}, Degree: 1},
			{ID: "o", Type: "organization", Name: "Oakmont Holdings", Domain: "financial", Degree: 1, Description: "shell company"},
			{ID: "u", Type: "document", Name: "Untagged Memo", Degree: 0},
		},
		[]valueobjects.RelationshipRecord{
			{ID: "r1", SourceEntityID: "e", TargetEntityID: "f", Label: "wired funds to"},
			{ID: "r2", SourceEntityID: "f", TargetEntityID: "o", Label: "director of"},
		},
	)
	return g
}

func TestEngine_Filtering(t *testing.T) {
	t.Run("fresh engine shows everything", func(t *testing.T) {
		e := NewEngine(caseGraph(t))

		visible := e.VisibleNodeIDs()
		assert.Len(t, visible, 4)
		assert.Len(t, e.VisibleEdgeIDs(), 2)
	})

	t.Run("type filter keeps only matching nodes and their edges", func(t *testing.T) {
		e := NewEngine(caseGraph(t))

		e.ToggleType("organization")
		e.ToggleType("document")

		visible := e.VisibleNodeIDs()
		assert.Equal(t, map[string]bool{"e": true, "f": true}, visible)

		edges := e.VisibleEdgeIDs()
		assert.True(t, edges["e|f"])
		assert.False(t, edges["f|o"], "edge to a filtered-out organization must drop")
	})

	t.Run("domain filter uses tag intersection", func(t *testing.T) {
		e := NewEngine(caseGraph(t))

		// Only legal remains active.
		e.ToggleDomain("financial")
		e.ToggleDomain(DomainUntagged)

		visible := e.VisibleNodeIDs()
		assert.True(t, visible["e"], "multi-domain entity intersects legal")
		assert.False(t, visible["f"], "financial-only entity is excluded")
		assert.False(t, e.VisibleEdgeIDs()["e|f"], "edge loses its excluded endpoint")
	})

	t.Run("untagged entities live in the fallback bucket", func(t *testing.T) {
		e := NewEngine(caseGraph(t))

		assert.True(t, e.VisibleNodeIDs()["u"])
		e.ToggleDomain(DomainUntagged)
		assert.False(t, e.VisibleNodeIDs()["u"])
	})

	t.Run("keyword matches names case-insensitively", func(t *testing.T) {
		e := NewEngine(caseGraph(t))

		e.SetKeyword("OAKMONT")
		visible := e.VisibleNodeIDs()
		assert.True(t, visible["o"])
		assert.False(t, visible["u"])
	})

	t.Run("keyword matches via incident relationship labels", func(t *testing.T) {
		e := NewEngine(caseGraph(t))

		e.SetKeyword("wired")
		visible := e.VisibleNodeIDs()
		assert.True(t, visible["e"])
		assert.True(t, visible["f"])
		assert.False(t, visible["o"])
	})

	t.Run("clearing the keyword restores the full set", func(t *testing.T) {
		e := NewEngine(caseGraph(t))

		e.SetKeyword("wired")
		e.SetKeyword("")
		assert.Len(t, e.VisibleNodeIDs(), 4)
	})
}

func TestEngine_Highlight(t *testing.T) {
	e := NewEngine(caseGraph(t))

	t.Run("matches name, aliases and description", func(t *testing.T) {
		e.SetSearchQuery("ev")
		highlighted := e.HighlightIDs()
		assert.True(t, highlighted["e"], "alias match")

		e.SetSearchQuery("shell")
		assert.True(t, e.HighlightIDs()["o"], "description match")

		e.SetSearchQuery("frank")
		assert.True(t, e.HighlightIDs()["f"], "name match")
	})

	t.Run("highlight never removes nodes from view", func(t *testing.T) {
		e.SetSearchQuery("frank")
		assert.Len(t, e.VisibleNodeIDs(), 4)
	})

	t.Run("empty query highlights nothing", func(t *testing.T) {
		e.SetSearchQuery("   ")
		assert.Empty(t, e.HighlightIDs())
	})
}

func TestCounts(t *testing.T) {
	g := caseGraph(t)
	e := NewEngine(g)
	e.ToggleType("person")
	e.ToggleDomain("financial")

	counts := Counts(g)

	t.Run("counts come from the unfiltered collection", func(t *testing.T) {
		assert.Equal(t, 2, counts.ByType["person"])
		assert.Equal(t, 1, counts.ByType["organization"])
		assert.Equal(t, 3, counts.ByDomain["financial"])
		assert.Equal(t, 1, counts.ByDomain["legal"])
		assert.Equal(t, 1, counts.ByDomain[DomainUntagged])
	})
}

func TestEngine_Refresh(t *testing.T) {
	g := caseGraph(t)
	e := NewEngine(g)
	e.ToggleType("person")
	require.False(t, e.State().ActiveTypes["person"])

	g.ApplyData(
		[]valueobjects.EntityRecord{
			{ID: "e", Type: "person", Name: "Elena Vasquez", Domains: []string{"legal"}, Degree: 0},
			{ID: "v", Type: "vehicle", Name: "Black Sedan", Domain: "surveillance", Degree: 0},
		},
		nil,
	)
	e.Refresh()

	t.Run("new categories start active", func(t *testing.T) {
		assert.True(t, e.State().ActiveTypes["vehicle"])
		assert.True(t, e.State().ActiveDomains["surveillance"])
	})

	t.Run("existing toggles survive", func(t *testing.T) {
		assert.False(t, e.State().ActiveTypes["person"])
		assert.False(t, e.VisibleNodeIDs()["e"])
		assert.True(t, e.VisibleNodeIDs()["v"])
	})
}
