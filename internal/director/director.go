// Package director turns a sparse scenario of keyframes and transitions into
// the dense, ordered list of frames that make up a video.
package director

import (
	"fmt"
	"math"
)

// Lerp performs linear interpolation between a and b. It returns a exactly at
// t = 0 and b exactly at t = 1.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Interpolate blends every field of from and to at t. The iteration budget is
// interpolated as a float and rounded to the nearest integer.
func Interpolate(from, to Keyframe, t float64) Keyframe {
	iter := math.Round(Lerp(float64(from.MaxIterations), float64(to.MaxIterations), t))
	if iter < 1 {
		iter = 1
	}
	return Keyframe{
		MaxIterations: uint32(iter),
		X:             Lerp(from.X, to.X, t),
		Y:             Lerp(from.Y, to.Y, t),
		Radius:        Lerp(from.Radius, to.Radius, t),
		ColorShift:    Lerp(from.ColorShift, to.ColorShift, t),
	}
}

// Expand samples tr at t = easing(i/steps) for i = 0 .. steps-1. The end frame
// itself is never produced; the next transition starting from it supplies it.
func Expand(frames []Keyframe, tr Transition) ([]Keyframe, error) {
	if err := tr.validate(len(frames)); err != nil {
		return nil, err
	}

	from, to := frames[tr.From], frames[tr.To]
	out := make([]Keyframe, tr.Steps)
	for i := range out {
		raw := float64(i) / float64(tr.Steps)
		out[i] = Interpolate(from, to, tr.Easing.Apply(raw))
	}
	return out, nil
}

// Sequence concatenates the expansion of every transition in declaration
// order. The result defines playback order.
func (s *Scenario) Sequence() ([]Keyframe, error) {
	out := make([]Keyframe, 0, s.TotalSteps())
	for i, tr := range s.Transitions {
		frames, err := Expand(s.Frames, tr)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		out = append(out, frames...)
	}
	return out, nil
}
