package valueobjects

// ViewTransform is a value object representing the pan/zoom affine mapping
// from model space to screen space: screen = model*Scale + Translate.
type ViewTransform struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// IdentityTransform returns the identity mapping.
func IdentityTransform() ViewTransform {
	return ViewTransform{Scale: 1}
}

// NewViewTransform creates a transform with the scale clamped to the given
// bounds. Out-of-range requests resolve to the nearest bound, never an error.
func NewViewTransform(tx, ty, scale, minScale, maxScale float64) ViewTransform {
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	return ViewTransform{TranslateX: tx, TranslateY: ty, Scale: scale}
}

// Apply maps a model-space point to screen space.
func (t ViewTransform) Apply(p Vector) Vector {
	return Vector{
		X: p.X*t.Scale + t.TranslateX,
		Y: p.Y*t.Scale + t.TranslateY,
	}
}

// Invert maps a screen-space point back to model space.
func (t ViewTransform) Invert(p Vector) Vector {
	return Vector{
		X: (p.X - t.TranslateX) / t.Scale,
		Y: (p.Y - t.TranslateY) / t.Scale,
	}
}

// Equals checks if two transforms are equal.
func (t ViewTransform) Equals(other ViewTransform) bool {
	return t.TranslateX == other.TranslateX &&
		t.TranslateY == other.TranslateY &&
		t.Scale == other.Scale
}

// Lerp linearly interpolates between two transforms; u is clamped to [0, 1].
func (t ViewTransform) Lerp(target ViewTransform, u float64) ViewTransform {
	if u <= 0 {
		return t
	}
	if u >= 1 {
		return target
	}
	return ViewTransform{
		TranslateX: t.TranslateX + (target.TranslateX-t.TranslateX)*u,
		TranslateY: t.TranslateY + (target.TranslateY-t.TranslateY)*u,
		Scale:      t.Scale + (target.Scale-t.Scale)*u,
	}
}
