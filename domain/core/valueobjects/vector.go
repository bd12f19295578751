package valueobjects

import "math"

// Vector is a value object representing a 2D coordinate or velocity.
// Value objects are immutable and have no identity beyond their value.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a vector from its components.
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Add returns the component-wise sum of two vectors.
func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the component-wise difference of two vectors.
func (v Vector) Sub(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns the vector multiplied by a scalar.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean magnitude.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSquared returns the squared magnitude, avoiding the sqrt.
func (v Vector) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// DistanceTo returns the Euclidean distance to another vector.
func (v Vector) DistanceTo(other Vector) float64 {
	return v.Sub(other).Length()
}

// Equals checks if two vectors are equal.
func (v Vector) Equals(other Vector) bool {
	return v.X == other.X && v.Y == other.Y
}

// IsZero checks if the vector is the zero value.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
