// Package palette maps iteration counts to colors through continuous
// gradients.
package palette

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/colorgrad"
)

// Gradient is a continuous color function sampled on [0, 1].
type Gradient interface {
	At(t float64) color.RGBA
}

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Shade normalizes an iteration count against its budget, offsets it by shift
// and wraps the result into [0, 1) before sampling g. The wrap is a true
// modulo, so negative shifts and shifts above 1 cycle the same way.
func Shade(iter, maxIter uint32, shift float64, g Gradient) RGB {
	v := float64(iter)/float64(maxIter) + shift
	v -= math.Floor(v)
	c := g.At(v)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// colorgradGradient adapts a colorgrad gradient to Gradient.
type colorgradGradient struct {
	grad colorgrad.Gradient
}

// FromColorgrad wraps g. Samples are clamped to the sRGB gamut before being
// quantized, since some presets overshoot slightly.
func FromColorgrad(g colorgrad.Gradient) Gradient {
	return colorgradGradient{grad: g}
}

func (g colorgradGradient) At(t float64) color.RGBA {
	return toRGBA(g.grad.At(t))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, gr, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: gr, B: b, A: 0xff}
}

// Stops is a piecewise-linear gradient over evenly spaced colors. It needs no
// external palette data, which keeps it handy for tests and previews.
type Stops []color.RGBA

func (s Stops) At(t float64) color.RGBA {
	switch len(s) {
	case 0:
		return color.RGBA{A: 0xff}
	case 1:
		return s[0]
	}
	if t <= 0 {
		return s[0]
	}
	if t >= 1 {
		return s[len(s)-1]
	}

	pos := t * float64(len(s)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := s[i], s[i+1]
	return color.RGBA{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
		A: lerp8(a.A, b.A, frac),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a)*(1-t) + float64(b)*t))
}
