package director

import (
	"fmt"
	"sort"
)

// Region is an axis-aligned window onto the complex plane.
type Region struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Keyframe centers a keyframe on the region. The radius is half the real
// extent; the vertical extent follows from the output aspect ratio.
func (r Region) Keyframe(maxIter uint32) Keyframe {
	return Keyframe{
		MaxIterations: maxIter,
		X:             (r.XMin + r.XMax) / 2,
		Y:             (r.YMin + r.YMax) / 2,
		Radius:        (r.XMax - r.XMin) / 2,
	}
}

type preset struct {
	region  Region
	maxIter uint32
}

// Classic landmarks of the Mandelbrot set.
var presets = map[string]preset{
	"full_set":                {Region{XMin: -2.5, XMax: 1.5, YMin: -1.125, YMax: 1.125}, 256},
	"seahorse_valley":         {Region{XMin: -0.8, XMax: -0.7, YMin: 0.05, YMax: 0.15}, 1000},
	"elephant_valley":         {Region{XMin: -1.85, XMax: -1.75, YMin: -0.10, YMax: -0.02}, 1000},
	"spiral_minibrot":         {Region{XMin: -0.7435, XMax: -0.7420, YMin: 0.1310, YMax: 0.1325}, 2000},
	"triple_spiral":           {Region{XMin: -0.7480, XMax: -0.7450, YMin: 0.0950, YMax: 0.0980}, 2000},
	"valley_of_the_dragon":    {Region{XMin: -0.7400, XMax: -0.7350, YMin: 0.1800, YMax: 0.1850}, 2000},
	"minibrot_in_mini_spiral": {Region{XMin: -1.7390, XMax: -1.7375, YMin: -0.0235, YMax: -0.0220}, 2000},
}

// Preset returns the keyframe of a named landmark.
func Preset(name string) (Keyframe, error) {
	p, ok := presets[name]
	if !ok {
		return Keyframe{}, fmt.Errorf("unknown preset: %q", name)
	}
	return p.region.Keyframe(p.maxIter), nil
}

// PresetNames lists the landmarks in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
