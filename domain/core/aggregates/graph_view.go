package aggregates

import (
	"math"
	"time"

	"casegraph/domain/config"
	"casegraph/domain/core/entities"
	"casegraph/domain/core/valueobjects"
	"casegraph/domain/events"
)

// GraphView is the aggregate root for one case's visualized knowledge graph.
// It owns the deduplicated node/edge model and the adjacency index, and it is
// the consistency boundary for rebuilds: a rebuild must preserve the motion
// state of every node whose entity id survives the data update.
type GraphView struct {
	caseID     string
	cfg        *config.DomainConfig
	center     valueobjects.Vector
	nodes      map[string]*entities.Node
	nodeOrder  []string
	edges      map[string]*entities.Edge
	edgeOrder  []string
	adjacency  map[string]map[string]bool
	generation int
	events     []events.DomainEvent
}

// NewGraphView creates an empty graph view centered on the viewport center.
func NewGraphView(caseID string, cfg *config.DomainConfig, center valueobjects.Vector) *GraphView {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &GraphView{
		caseID:    caseID,
		cfg:       cfg,
		center:    center,
		nodes:     make(map[string]*entities.Node),
		edges:     make(map[string]*entities.Edge),
		adjacency: make(map[string]map[string]bool),
	}
}

// CaseID returns the owning case identifier.
func (g *GraphView) CaseID() string {
	return g.caseID
}

// Center returns the layout center (the viewport center in model space).
func (g *GraphView) Center() valueobjects.Vector {
	return g.center
}

// SetCenter updates the layout center after a viewport resize.
func (g *GraphView) SetCenter(center valueobjects.Vector) {
	g.center = center
}

// Generation returns how many times the model has been rebuilt.
func (g *GraphView) Generation() int {
	return g.generation
}

// ApplyData rebuilds the node/edge model from fresh upstream collections.
//
// Relationships sharing an unordered entity pair collapse into one edge;
// relationships referencing an unknown or identical entity are dropped
// silently. Nodes whose id existed in the previous generation keep their
// position, velocity and pin; only genuinely new nodes receive seeded
// positions, evenly spaced on a circle around the center.
func (g *GraphView) ApplyData(entityRecords []valueobjects.EntityRecord, relationshipRecords []valueobjects.RelationshipRecord) {
	previous := g.nodes

	nodes := make(map[string]*entities.Node, len(entityRecords))
	nodeOrder := make([]string, 0, len(entityRecords))

	maxDegree := 1
	for _, record := range entityRecords {
		if record.Degree > maxDegree {
			maxDegree = record.Degree
		}
	}

	var fresh []*entities.Node
	for _, record := range entityRecords {
		if record.ID == "" {
			continue
		}
		if _, dup := nodes[record.ID]; dup {
			continue
		}

		node, err := entities.NewNode(record, g.radiusFor(record.Degree, maxDegree), g.center)
		if err != nil {
			continue
		}

		if prev, ok := previous[record.ID]; ok {
			node.AdoptMotion(prev)
		} else {
			fresh = append(fresh, node)
		}

		nodes[record.ID] = node
		nodeOrder = append(nodeOrder, record.ID)
	}

	g.seedOnCircle(fresh)

	edges := make(map[string]*entities.Edge, len(relationshipRecords))
	edgeOrder := make([]string, 0, len(relationshipRecords))
	grouped := make(map[string][]valueobjects.RelationshipRecord, len(relationshipRecords))
	dropped := 0

	for _, rel := range relationshipRecords {
		if rel.SourceEntityID == rel.TargetEntityID {
			dropped++
			continue
		}
		if _, ok := nodes[rel.SourceEntityID]; !ok {
			dropped++
			continue
		}
		if _, ok := nodes[rel.TargetEntityID]; !ok {
			dropped++
			continue
		}

		key := entities.PairKey(rel.SourceEntityID, rel.TargetEntityID)
		if _, seen := grouped[key]; !seen {
			edgeOrder = append(edgeOrder, key)
		}
		grouped[key] = append(grouped[key], rel)
	}

	for _, key := range edgeOrder {
		backing := grouped[key]
		edges[key] = entities.NewEdge(backing[0].SourceEntityID, backing[0].TargetEntityID, backing)
	}

	adjacency := make(map[string]map[string]bool, len(nodes))
	for id := range nodes {
		adjacency[id] = make(map[string]bool)
	}
	for _, edge := range edges {
		adjacency[edge.EndpointA()][edge.EndpointB()] = true
		adjacency[edge.EndpointB()][edge.EndpointA()] = true
	}

	g.nodes = nodes
	g.nodeOrder = nodeOrder
	g.edges = edges
	g.edgeOrder = edgeOrder
	g.adjacency = adjacency
	g.generation++

	g.addEvent(events.NewGraphRebuilt(
		g.caseID, len(nodes), len(edges), len(fresh), dropped, time.Now(),
	))
}

// Node retrieves a node by entity id.
func (g *GraphView) Node(id string) (*entities.Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// HasNode checks if an entity id is present in the current generation.
func (g *GraphView) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in deterministic input order.
func (g *GraphView) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edge retrieves an edge by canonical pair key.
func (g *GraphView) Edge(id string) (*entities.Edge, bool) {
	edge, ok := g.edges[id]
	return edge, ok
}

// Edges returns all edges in first-seen order.
func (g *GraphView) Edges() []*entities.Edge {
	edges := make([]*entities.Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		edges = append(edges, g.edges[key])
	}
	return edges
}

// Neighbors returns the adjacency set for an entity id.
func (g *GraphView) Neighbors(id string) map[string]bool {
	neighbors := make(map[string]bool, len(g.adjacency[id]))
	for n := range g.adjacency[id] {
		neighbors[n] = true
	}
	return neighbors
}

// ConnectedDegree returns the number of distinct neighbors in the built model.
func (g *GraphView) ConnectedDegree(id string) int {
	return len(g.adjacency[id])
}

// MaxDegree returns the largest reported entity degree, floored at 1 so that
// scale domains never divide by zero on degree-uniform or empty graphs.
func (g *GraphView) MaxDegree() int {
	maxDegree := 1
	for _, node := range g.nodes {
		if d := node.Source().Degree; d > maxDegree {
			maxDegree = d
		}
	}
	return maxDegree
}

// NodeCount returns the number of nodes in the current generation.
func (g *GraphView) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of deduplicated edges.
func (g *GraphView) EdgeCount() int {
	return len(g.edges)
}

// GetUncommittedEvents returns all uncommitted domain events
func (g *GraphView) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(g.events))
	copy(all, g.events)
	return all
}

// MarkEventsAsCommitted clears all uncommitted events
func (g *GraphView) MarkEventsAsCommitted() {
	g.events = nil
}

// Private helper methods

func (g *GraphView) addEvent(event events.DomainEvent) {
	g.events = append(g.events, event)
}

// radiusFor maps a degree onto [MinNodeRadius, MaxNodeRadius] with a clamped
// power scale, so radius is monotonic in degree.
func (g *GraphView) radiusFor(degree, maxDegree int) float64 {
	if degree < 0 {
		degree = 0
	}
	if maxDegree < 1 {
		maxDegree = 1
	}
	t := float64(degree) / float64(maxDegree)
	if t > 1 {
		t = 1
	}
	span := g.cfg.MaxNodeRadius - g.cfg.MinNodeRadius
	return g.cfg.MinNodeRadius + span*math.Pow(t, g.cfg.RadiusExponent)
}

// seedOnCircle places newly appeared nodes evenly on a circle around the
// center, leaving every surviving node untouched.
func (g *GraphView) seedOnCircle(fresh []*entities.Node) {
	if len(fresh) == 0 {
		return
	}
	step := 2 * math.Pi / float64(len(fresh))
	for i, node := range fresh {
		angle := step * float64(i)
		node.PlaceAt(valueobjects.Vector{
			X: g.center.X + g.cfg.RadialRadius*math.Cos(angle),
			Y: g.center.Y + g.cfg.RadialRadius*math.Sin(angle),
		})
	}
}
