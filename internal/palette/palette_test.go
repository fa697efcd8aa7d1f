package palette

import (
	"image/color"
	"testing"
)

var testStops = Stops{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 255, G: 0, B: 0, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
	{R: 0, G: 0, B: 255, A: 255},
}

func TestShadeIntegerShiftInvariance(t *testing.T) {
	tests := []struct {
		iter, maxIter uint32
		shift         float64
	}{
		{0, 100, 0},
		{25, 100, 0.5},
		{64, 256, 0.125},
		{1, 8, -0.75},
		{8192, 8192, 0.25},
		{3, 4, 0},
	}

	for _, tt := range tests {
		base := Shade(tt.iter, tt.maxIter, tt.shift, testStops)
		for _, k := range []float64{-3, -1, 1, 2, 10} {
			if got := Shade(tt.iter, tt.maxIter, tt.shift+k, testStops); got != base {
				t.Errorf("Shade(%d, %d, %v) = %v, want %v (same as shift %v)",
					tt.iter, tt.maxIter, tt.shift+k, got, base, tt.shift)
			}
		}
	}
}

func TestShadeWrapsBudgetToStart(t *testing.T) {
	// iter == maxIter normalizes to 1.0, which wraps to 0.
	for _, m := range []uint32{1, 2, 100, 8192, 1 << 20} {
		if got, want := Shade(m, m, 0, testStops), Shade(0, m, 0, testStops); got != want {
			t.Errorf("maxIter %d: Shade(max) = %v, want %v", m, got, want)
		}
	}
}

func TestShadeNegativeShift(t *testing.T) {
	// 0.5 - 0.75 = -0.25 wraps to 0.75
	got := Shade(50, 100, -0.75, testStops)
	want := testStops.At(0.75)
	if got != (RGB{R: want.R, G: want.G, B: want.B}) {
		t.Errorf("Shade with negative shift = %v, want %v", got, want)
	}
}

func TestShadeDropsAlpha(t *testing.T) {
	g := Stops{{R: 10, G: 20, B: 30, A: 0}}
	if got := Shade(5, 10, 0, g); got != (RGB{10, 20, 30}) {
		t.Errorf("Shade = %v, want {10 20 30}", got)
	}
}

func TestStops(t *testing.T) {
	tests := []struct {
		t    float64
		want color.RGBA
	}{
		{-1, testStops[0]},
		{0, testStops[0]},
		{0.25, testStops[1]},
		{0.125, color.RGBA{R: 128, A: 255}},
		{0.5, testStops[2]},
		{1, testStops[4]},
		{2, testStops[4]},
	}

	for _, tt := range tests {
		if got := testStops.At(tt.t); got != tt.want {
			t.Errorf("At(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}
