package config

import "errors"

var (
	ErrInvalidRadiusRange   = errors.New("node radius range is invalid")
	ErrInvalidScaleRange    = errors.New("viewport scale range is invalid")
	ErrInvalidAlphaDecay    = errors.New("alpha decay must be in (0, 1)")
	ErrInvalidVelocityDecay = errors.New("velocity decay must be in [0, 1)")
)
