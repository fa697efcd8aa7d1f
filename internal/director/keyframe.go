package director

import (
	"fmt"
	"math"
)

// Keyframe is one fully specified render request: a viewport, an iteration
// budget and a phase offset into the color gradient.
type Keyframe struct {
	MaxIterations uint32  `yaml:"max_iterations" toml:"max_iterations"`
	X             float64 `yaml:"x_pos" toml:"x_pos"`
	Y             float64 `yaml:"y_pos" toml:"y_pos"`
	Radius        float64 `yaml:"radius" toml:"radius"`
	ColorShift    float64 `yaml:"color_gradient_shift" toml:"color_gradient_shift"`
}

// Equal reports whether k and o describe the same viewport. The color shift is
// ignored: two keyframes that only differ in palette phase share their
// iteration counts.
func (k Keyframe) Equal(o Keyframe) bool {
	return k.MaxIterations == o.MaxIterations &&
		k.X == o.X &&
		k.Y == o.Y &&
		k.Radius == o.Radius
}

// Validate checks the numeric preconditions the renderer relies on.
func (k Keyframe) Validate() error {
	if k.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1")
	}
	if !(k.Radius > 0) || math.IsInf(k.Radius, 0) {
		return fmt.Errorf("radius must be a positive finite number, got %v", k.Radius)
	}
	if math.IsNaN(k.X) || math.IsNaN(k.Y) || math.IsInf(k.X, 0) || math.IsInf(k.Y, 0) {
		return fmt.Errorf("position (%v, %v) is not finite", k.X, k.Y)
	}
	return nil
}

func (k Keyframe) String() string {
	return fmt.Sprintf("iter=%d x=%.17g y=%.17g r=%.6g shift=%.4f", k.MaxIterations, k.X, k.Y, k.Radius, k.ColorShift)
}
