package entities

import (
	"casegraph/domain/core/valueobjects"
	pkgerrors "casegraph/pkg/errors"
)

// Node is the visual representation of one investigation entity.
// Radius and color are pure functions of the source record; position and
// velocity are owned by the force simulation. The interaction controller may
// pin a node while it is being dragged, which is the only outside write path
// into the motion state.
type Node struct {
	id       string
	source   valueobjects.EntityRecord
	radius   float64
	color    valueobjects.ColorToken
	position valueobjects.Vector
	velocity valueobjects.Vector
	pinned   bool
	pin      valueobjects.Vector
}

// NewNode creates a node for an entity record with its computed visual
// attributes and an initial position.
func NewNode(source valueobjects.EntityRecord, radius float64, position valueobjects.Vector) (*Node, error) {
	if source.ID == "" {
		return nil, pkgerrors.NewValidationError("entity id cannot be empty")
	}
	if radius <= 0 {
		return nil, pkgerrors.NewValidationError("node radius must be positive")
	}

	return &Node{
		id:       source.ID,
		source:   source,
		radius:   radius,
		color:    valueobjects.ColorForType(source.Type),
		position: position,
	}, nil
}

// ID returns the node's entity identifier.
func (n *Node) ID() string {
	return n.id
}

// Source returns the backing entity record.
func (n *Node) Source() valueobjects.EntityRecord {
	return n.source
}

// Radius returns the computed visual radius.
func (n *Node) Radius() float64 {
	return n.radius
}

// Color returns the palette token for the entity type.
func (n *Node) Color() valueobjects.ColorToken {
	return n.color
}

// Position returns the current layout position.
func (n *Node) Position() valueobjects.Vector {
	return n.position
}

// Velocity returns the current layout velocity.
func (n *Node) Velocity() valueobjects.Vector {
	return n.velocity
}

// IsPinned reports whether the node is held at a fixed position.
func (n *Node) IsPinned() bool {
	return n.pinned
}

// PinTarget returns the position a pinned node is held at.
func (n *Node) PinTarget() valueobjects.Vector {
	return n.pin
}

// Pin holds the node at the given position. While pinned, integration snaps
// the node there and zeroes its velocity so neighbors react around it.
func (n *Node) Pin(at valueobjects.Vector) {
	n.pinned = true
	n.pin = at
}

// Unpin releases the node back to free motion.
func (n *Node) Unpin() {
	n.pinned = false
}

// AdoptMotion carries position and velocity over from a previous generation
// of the same entity, preserving layout stability across data updates.
func (n *Node) AdoptMotion(prev *Node) {
	n.position = prev.position
	n.velocity = prev.velocity
	n.pinned = prev.pinned
	n.pin = prev.pin
}

// Nudge accumulates a force contribution into the velocity.
func (n *Node) Nudge(dvx, dvy float64) {
	n.velocity.X += dvx
	n.velocity.Y += dvy
}

// Displace shifts the position directly, bypassing velocity. Used by the
// collision constraint, which resolves overlap positionally.
func (n *Node) Displace(dx, dy float64) {
	n.position.X += dx
	n.position.Y += dy
}

// Integrate applies damped velocity to the position for one tick. A pinned
// node snaps to its pin and sheds all velocity instead.
func (n *Node) Integrate(velocityDecay float64) {
	if n.pinned {
		n.position = n.pin
		n.velocity = valueobjects.Vector{}
		return
	}
	n.velocity = n.velocity.Scale(1 - velocityDecay)
	n.position = n.position.Add(n.velocity)
}

// PlaceAt writes a resting position directly and clears velocity. Used when
// dragging while the simulation is frozen: the node must stay exactly where
// it was dropped, with no subsequent drift.
func (n *Node) PlaceAt(at valueobjects.Vector) {
	n.position = at
	n.velocity = valueobjects.Vector{}
}
