package filtering

import (
	"strings"

	"casegraph/domain/core/aggregates"
	"casegraph/domain/core/entities"
)

// DomainUntagged is the bucket for entities carrying no domain tags, so they
// stay reachable through the domain filter instead of silently vanishing.
const DomainUntagged = "other"

// State holds the active inclusion sets and search terms. Filtering is
// inclusion based: an empty active set for a dimension means nothing of that
// dimension passes.
type State struct {
	ActiveDomains map[string]bool `json:"active_domains"`
	ActiveTypes   map[string]bool `json:"active_types"`
	KeywordTokens []string        `json:"keyword_tokens"`
	SearchQuery   string          `json:"search_query"`
}

// FacetCounts are per-type and per-domain entity counts for UI badges,
// always computed from the unfiltered collection.
type FacetCounts struct {
	ByType   map[string]int `json:"by_type"`
	ByDomain map[string]int `json:"by_domain"`
}

// Engine applies the destructive filter and the non-destructive search
// highlight over the current graph model.
type Engine struct {
	graph *aggregates.GraphView
	state State
}

// NewEngine creates a filter engine with every observed type and domain
// active, so a fresh view shows the whole graph.
func NewEngine(graph *aggregates.GraphView) *Engine {
	e := &Engine{graph: graph}
	e.ActivateAll()
	return e
}

// State returns the current filter state.
func (e *Engine) State() State {
	return e.state
}

// ActivateAll resets the inclusion sets to every type and domain present in
// the current graph and clears keyword and search terms.
func (e *Engine) ActivateAll() {
	e.state = State{
		ActiveDomains: make(map[string]bool),
		ActiveTypes:   make(map[string]bool),
	}
	for _, node := range e.graph.Nodes() {
		e.state.ActiveTypes[node.Source().Type] = true
		for _, tag := range domainTagsOf(node) {
			e.state.ActiveDomains[tag] = true
		}
	}
}

// Refresh admits types and domains that appeared in a rebuild while keeping
// existing toggles. Without this, newly ingested categories would start
// invisible.
func (e *Engine) Refresh() {
	seen := Counts(e.graph)
	for t := range seen.ByType {
		if _, known := e.state.ActiveTypes[t]; !known {
			e.state.ActiveTypes[t] = true
		}
	}
	for d := range seen.ByDomain {
		if _, known := e.state.ActiveDomains[d]; !known {
			e.state.ActiveDomains[d] = true
		}
	}
}

// ToggleDomain flips one domain's inclusion and returns the new value.
func (e *Engine) ToggleDomain(domain string) bool {
	e.state.ActiveDomains[domain] = !e.state.ActiveDomains[domain]
	return e.state.ActiveDomains[domain]
}

// ToggleType flips one entity type's inclusion and returns the new value.
func (e *Engine) ToggleType(entityType string) bool {
	e.state.ActiveTypes[entityType] = !e.state.ActiveTypes[entityType]
	return e.state.ActiveTypes[entityType]
}

// SetKeyword tokenizes a raw keyword string into lowercase terms. An empty
// string clears keyword matching.
func (e *Engine) SetKeyword(raw string) {
	e.state.KeywordTokens = nil
	for _, token := range strings.Fields(strings.ToLower(raw)) {
		e.state.KeywordTokens = append(e.state.KeywordTokens, token)
	}
}

// SetSearchQuery updates the non-destructive highlight query.
func (e *Engine) SetSearchQuery(query string) {
	e.state.SearchQuery = strings.TrimSpace(query)
}

// VisibleNodeIDs computes the set of node ids passing the active filters.
func (e *Engine) VisibleNodeIDs() map[string]bool {
	visible := make(map[string]bool)
	for _, node := range e.graph.Nodes() {
		if e.passes(node.ID()) {
			visible[node.ID()] = true
		}
	}
	return visible
}

// VisibleEdgeIDs computes the edges whose both endpoints pass the filters.
func (e *Engine) VisibleEdgeIDs() map[string]bool {
	nodes := e.VisibleNodeIDs()
	visible := make(map[string]bool)
	for _, edge := range e.graph.Edges() {
		if nodes[edge.EndpointA()] && nodes[edge.EndpointB()] {
			visible[edge.ID()] = true
		}
	}
	return visible
}

// HighlightIDs computes the search-highlight overlay: node ids whose name,
// aliases or description contain the query, case-insensitively. The overlay
// never removes elements from view.
func (e *Engine) HighlightIDs() map[string]bool {
	highlighted := make(map[string]bool)
	query := strings.ToLower(e.state.SearchQuery)
	if query == "" {
		return highlighted
	}

	for _, node := range e.graph.Nodes() {
		source := node.Source()
		if strings.Contains(strings.ToLower(source.Name), query) ||
			strings.Contains(strings.ToLower(source.Description), query) {
			highlighted[node.ID()] = true
			continue
		}
		for _, alias := range source.Aliases {
			if strings.Contains(strings.ToLower(alias), query) {
				highlighted[node.ID()] = true
				break
			}
		}
	}
	return highlighted
}

// Counts tallies entities per type and per domain over the unfiltered
// collection, so toggled-off categories still show their true size.
func Counts(graph *aggregates.GraphView) FacetCounts {
	counts := FacetCounts{
		ByType:   make(map[string]int),
		ByDomain: make(map[string]int),
	}
	for _, node := range graph.Nodes() {
		counts.ByType[node.Source().Type]++
		for _, tag := range domainTagsOf(node) {
			counts.ByDomain[tag]++
		}
	}
	return counts
}

func (e *Engine) passes(nodeID string) bool {
	node, ok := e.graph.Node(nodeID)
	if !ok {
		return false
	}
	source := node.Source()

	if !e.state.ActiveTypes[source.Type] {
		return false
	}

	domainHit := false
	for _, tag := range domainTagsOf(node) {
		if e.state.ActiveDomains[tag] {
			domainHit = true
			break
		}
	}
	if !domainHit {
		return false
	}

	if len(e.state.KeywordTokens) == 0 {
		return true
	}

	name := strings.ToLower(source.Name)
	for _, token := range e.state.KeywordTokens {
		if strings.Contains(name, token) {
			return true
		}
		if e.incidentEdgeMatches(nodeID, token) {
			return true
		}
	}
	return false
}

func (e *Engine) incidentEdgeMatches(nodeID, token string) bool {
	for _, edge := range e.graph.Edges() {
		if edge.Touches(nodeID) && edge.MatchesLabel(token) {
			return true
		}
	}
	return false
}

func domainTagsOf(node *entities.Node) []string {
	tags := node.Source().DomainTags()
	if len(tags) == 0 {
		return []string{DomainUntagged}
	}
	return tags
}
