package config

import "time"

// DomainConfig holds all configurable layout and interaction parameters.
// The force constants are tuning defaults, not invariants: the structural
// guarantees (convergence, stability, clamping) must hold for any sane values.
type DomainConfig struct {
	// Node sizing
	MinNodeRadius  float64
	MaxNodeRadius  float64
	RadiusExponent float64

	// Link force
	LinkDistance     float64
	LinkStrength     float64
	LinkDegreeScaled bool

	// Many-body repulsion
	ChargeStrength   float64
	ChargeDistanceMin float64
	ChargeDistanceMax float64

	// Centering pull
	CenterStrength float64

	// Collision resolution
	CollidePadding    float64
	CollideStrength   float64
	CollideIterations int

	// Radial placement by normalized degree
	RadialStrength float64
	RadialRadius   float64
	EnableRadial   bool

	// Integration and cooling
	VelocityDecay float64
	AlphaDecay    float64
	AlphaMin      float64
	DragReheat    float64

	// Viewport
	MinScale           float64
	MaxScale           float64
	ZoomStepFactor     float64
	ZoomToNodeScale    float64
	TransitionDuration time.Duration

	// Interaction
	DragThresholdPx  float64
	TooltipOffsetPx  float64
	TooltipMarginPx  float64

	// Visual emphasis
	FullOpacity      float64
	DefaultOpacity   float64
	DimmedOpacity    float64
	EdgeOpacity      float64
	ClusterEdgeOpacity float64

	// Frame scheduling
	FrameInterval time.Duration

	// Input limits
	MaxEntities      int
	MaxRelationships int
}

// DefaultDomainConfig returns the default layout configuration.
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Node sizing
		MinNodeRadius:  6,
		MaxNodeRadius:  26,
		RadiusExponent: 0.6,

		// Link force
		LinkDistance:     90,
		LinkStrength:     0.4,
		LinkDegreeScaled: true,

		// Many-body repulsion
		ChargeStrength:    -240,
		ChargeDistanceMin: 1,
		ChargeDistanceMax: 480,

		// Centering pull
		CenterStrength: 0.04,

		// Collision resolution
		CollidePadding:    4,
		CollideStrength:   0.7,
		CollideIterations: 2,

		// Radial placement
		RadialStrength: 0.05,
		RadialRadius:   260,
		EnableRadial:   true,

		// Integration and cooling
		VelocityDecay: 0.4,
		AlphaDecay:    0.0228,
		AlphaMin:      0.001,
		DragReheat:    0.3,

		// Viewport
		MinScale:           0.2,
		MaxScale:           4.0,
		ZoomStepFactor:     1.4,
		ZoomToNodeScale:    1.6,
		TransitionDuration: 400 * time.Millisecond,

		// Interaction
		DragThresholdPx: 5,
		TooltipOffsetPx: 14,
		TooltipMarginPx: 12,

		// Visual emphasis
		FullOpacity:        1.0,
		DefaultOpacity:     0.9,
		DimmedOpacity:      0.15,
		EdgeOpacity:        0.35,
		ClusterEdgeOpacity: 0.9,

		// Frame scheduling (~60fps)
		FrameInterval: 16 * time.Millisecond,

		// Input limits
		MaxEntities:      5000,
		MaxRelationships: 25000,
	}
}

// ProductionDomainConfig returns production-specific configuration.
func ProductionDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()

	// Tighter input limits for production
	cfg.MaxEntities = 3000
	cfg.MaxRelationships = 15000

	return cfg
}

// DevelopmentDomainConfig returns development-specific configuration.
func DevelopmentDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()

	// More permissive limits while developing
	cfg.MaxEntities = 50000
	cfg.MaxRelationships = 250000

	return cfg
}

// LoadDomainConfig loads domain configuration based on environment.
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is internally consistent.
func (c *DomainConfig) Validate() error {
	if c.MinNodeRadius <= 0 || c.MaxNodeRadius < c.MinNodeRadius {
		return ErrInvalidRadiusRange
	}
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return ErrInvalidScaleRange
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		return ErrInvalidAlphaDecay
	}
	if c.VelocityDecay < 0 || c.VelocityDecay >= 1 {
		return ErrInvalidVelocityDecay
	}
	return nil
}
