package simulation

import (
	"math"
	"math/rand"

	"casegraph/domain/config"
	"casegraph/domain/core/aggregates"
	"casegraph/domain/core/entities"
	"casegraph/domain/core/valueobjects"
)

// Force is one layout constraint applied each tick, scaled by alpha.
type Force interface {
	Name() string
	Apply(f *Frame, alpha float64)
}

// Frame is the per-tick working view of the graph: node slice, id index and
// connectivity degrees, captured once so every force sees the same snapshot.
type Frame struct {
	nodes     []*entities.Node
	edges     []*entities.Edge
	index     map[string]int
	degrees   []int
	maxDegree int
	center    valueobjects.Vector
	rng       *rand.Rand
}

func newFrame(graph *aggregates.GraphView, rng *rand.Rand) *Frame {
	nodes := graph.Nodes()
	index := make(map[string]int, len(nodes))
	degrees := make([]int, len(nodes))
	maxDegree := 1
	for i, node := range nodes {
		index[node.ID()] = i
		degrees[i] = graph.ConnectedDegree(node.ID())
		if degrees[i] > maxDegree {
			maxDegree = degrees[i]
		}
	}
	return &Frame{
		nodes:     nodes,
		edges:     graph.Edges(),
		index:     index,
		degrees:   degrees,
		maxDegree: maxDegree,
		center:    graph.Center(),
		rng:       rng,
	}
}

// jiggle breaks exact coincidence so a zero-length delta never divides by
// zero and coincident nodes separate in a reproducible direction.
func (f *Frame) jiggle() float64 {
	return (f.rng.Float64() - 0.5) * 1e-6
}

// LinkForce pulls connected pairs toward a target separation. The correction
// is split between the endpoints with a bias toward the less connected one,
// so hubs move less than their leaves.
type LinkForce struct {
	cfg *config.DomainConfig
}

func (l *LinkForce) Name() string { return "link" }

func (l *LinkForce) Apply(f *Frame, alpha float64) {
	for _, edge := range f.edges {
		ai, ok := f.index[edge.EndpointA()]
		if !ok {
			continue
		}
		bi, ok := f.index[edge.EndpointB()]
		if !ok {
			continue
		}
		a, b := f.nodes[ai], f.nodes[bi]

		dx := b.Position().X + b.Velocity().X - a.Position().X - a.Velocity().X
		dy := b.Position().Y + b.Velocity().Y - a.Position().Y - a.Velocity().Y
		if dx == 0 {
			dx = f.jiggle()
		}
		if dy == 0 {
			dy = f.jiggle()
		}

		dist := math.Hypot(dx, dy)
		strength := l.cfg.LinkStrength
		if l.cfg.LinkDegreeScaled {
			lesser := f.degrees[ai]
			if f.degrees[bi] < lesser {
				lesser = f.degrees[bi]
			}
			if lesser > 1 {
				strength /= float64(lesser)
			}
		}

		pull := (dist - l.cfg.LinkDistance) / dist * alpha * strength
		dx *= pull
		dy *= pull

		// The endpoint with fewer connections absorbs more of the correction.
		bias := float64(f.degrees[ai]) / float64(f.degrees[ai]+f.degrees[bi])
		b.Nudge(-dx*bias, -dy*bias)
		a.Nudge(dx*(1-bias), dy*(1-bias))
	}
}

// ManyBodyForce applies pairwise inverse-square repulsion, skipping pairs
// beyond the configured cutoff distance.
type ManyBodyForce struct {
	cfg *config.DomainConfig
}

func (m *ManyBodyForce) Name() string { return "charge" }

func (m *ManyBodyForce) Apply(f *Frame, alpha float64) {
	minSq := m.cfg.ChargeDistanceMin * m.cfg.ChargeDistanceMin
	maxSq := m.cfg.ChargeDistanceMax * m.cfg.ChargeDistanceMax

	for i := 0; i < len(f.nodes); i++ {
		for j := i + 1; j < len(f.nodes); j++ {
			a, b := f.nodes[i], f.nodes[j]

			dx := b.Position().X - a.Position().X
			dy := b.Position().Y - a.Position().Y
			if dx == 0 {
				dx = f.jiggle()
			}
			if dy == 0 {
				dy = f.jiggle()
			}

			distSq := dx*dx + dy*dy
			if distSq > maxSq {
				continue
			}
			if distSq < minSq {
				distSq = minSq
			}

			w := m.cfg.ChargeStrength * alpha / distSq
			b.Nudge(dx*w, dy*w)
			a.Nudge(-dx*w, -dy*w)
		}
	}
}

// CenterForce is a weak uniform pull toward the viewport center, preventing
// disconnected components from drifting off-screen.
type CenterForce struct {
	cfg *config.DomainConfig
}

func (c *CenterForce) Name() string { return "center" }

func (c *CenterForce) Apply(f *Frame, alpha float64) {
	k := c.cfg.CenterStrength * alpha
	for _, node := range f.nodes {
		node.Nudge(
			(f.center.X-node.Position().X)*k,
			(f.center.Y-node.Position().Y)*k,
		)
	}
}

// CollideForce enforces a pairwise minimum separation of the two radii plus
// padding, iterated a fixed number of times per tick. Overlap is resolved
// positionally, weighted toward the smaller node; a pinned endpoint passes
// its whole share to the free one.
type CollideForce struct {
	cfg *config.DomainConfig
}

func (c *CollideForce) Name() string { return "collide" }

func (c *CollideForce) Apply(f *Frame, alpha float64) {
	for iter := 0; iter < c.cfg.CollideIterations; iter++ {
		for i := 0; i < len(f.nodes); i++ {
			for j := i + 1; j < len(f.nodes); j++ {
				c.separate(f, f.nodes[i], f.nodes[j])
			}
		}
	}
}

func (c *CollideForce) separate(f *Frame, a, b *entities.Node) {
	minDist := a.Radius() + b.Radius() + c.cfg.CollidePadding

	dx := b.Position().X - a.Position().X
	dy := b.Position().Y - a.Position().Y
	if dx == 0 {
		dx = f.jiggle()
	}
	if dy == 0 {
		dy = f.jiggle()
	}

	dist := math.Hypot(dx, dy)
	if dist >= minDist {
		return
	}

	overlap := (minDist - dist) / dist * c.cfg.CollideStrength
	dx *= overlap
	dy *= overlap

	ra, rb := a.Radius()*a.Radius(), b.Radius()*b.Radius()
	weightB := ra / (ra + rb)
	switch {
	case a.IsPinned() && !b.IsPinned():
		b.Displace(dx, dy)
	case b.IsPinned() && !a.IsPinned():
		a.Displace(-dx, -dy)
	default:
		b.Displace(dx*weightB, dy*weightB)
		a.Displace(-dx*(1-weightB), -dy*(1-weightB))
	}
}

// RadialForce pulls each node toward a ring whose radius shrinks as the
// node's normalized connectivity grows: hubs settle near the center, leaves
// toward the periphery.
type RadialForce struct {
	cfg *config.DomainConfig
}

func (r *RadialForce) Name() string { return "radial" }

func (r *RadialForce) Apply(f *Frame, alpha float64) {
	for i, node := range f.nodes {
		normalized := float64(f.degrees[i]) / float64(f.maxDegree)
		target := r.cfg.RadialRadius * (1 - normalized)

		dx := node.Position().X - f.center.X
		dy := node.Position().Y - f.center.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dx, dy = f.jiggle(), f.jiggle()
			dist = math.Hypot(dx, dy)
		}

		k := (target - dist) * r.cfg.RadialStrength * alpha / dist
		node.Nudge(dx*k, dy*k)
	}
}
