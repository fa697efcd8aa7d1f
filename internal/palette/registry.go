package palette

import (
	"fmt"
	"sort"

	"github.com/mazznoer/colorgrad"
)

// Custom describes a user-defined gradient: HTML/CSS colors spread evenly over
// [0, 1], optionally cut into Sharp hard-edged segments.
type Custom struct {
	Colors     []string `yaml:"colors" toml:"colors"`
	Sharp      uint     `yaml:"sharp" toml:"sharp"`
	Smoothness float64  `yaml:"smoothness" toml:"smoothness"`
}

var presets = map[string]func() colorgrad.Gradient{
	"sinebow":           colorgrad.Sinebow,
	"cubehelix_default": colorgrad.CubehelixDefault,
	"turbo":             colorgrad.Turbo,
	"spectral":          colorgrad.Spectral,
	"viridis":           colorgrad.Viridis,
	"magma":             colorgrad.Magma,
	"plasma":            colorgrad.Plasma,
	"inferno":           colorgrad.Inferno,
	"warm":              colorgrad.Warm,
	"cool":              colorgrad.Cool,
	"rainbow": func() colorgrad.Gradient {
		return colorgrad.Rainbow().Sharp(10, 0.4)
	},
}

// Registry resolves gradient names. Built-in presets are always present;
// custom gradients are added from the render properties.
type Registry struct {
	custom map[string]Gradient
}

// NewRegistry builds every custom gradient up front.
func NewRegistry(custom map[string]Custom) (*Registry, error) {
	r := &Registry{custom: make(map[string]Gradient, len(custom))}
	for name, c := range custom {
		g, err := c.Build()
		if err != nil {
			return nil, fmt.Errorf("gradient %q: %w", name, err)
		}
		r.custom[name] = g
	}
	return r, nil
}

// Lookup returns the gradient registered under name. Custom gradients shadow
// presets of the same name.
func (r *Registry) Lookup(name string) (Gradient, error) {
	if r != nil {
		if g, ok := r.custom[name]; ok {
			return g, nil
		}
	}
	if fn, ok := presets[name]; ok {
		return FromColorgrad(fn()), nil
	}
	return nil, fmt.Errorf("unknown color gradient: %q", name)
}

// Names lists every resolvable gradient, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for name := range presets {
		seen[name] = true
		out = append(out, name)
	}
	if r != nil {
		for name := range r.custom {
			if !seen[name] {
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Build turns the description into a gradient.
func (c Custom) Build() (Gradient, error) {
	if len(c.Colors) < 2 {
		return nil, fmt.Errorf("need at least 2 colors, got %d", len(c.Colors))
	}
	g, err := colorgrad.NewGradient().HtmlColors(c.Colors...).Build()
	if err != nil {
		return nil, err
	}
	if c.Sharp > 0 {
		g = g.Sharp(c.Sharp, c.Smoothness)
	}
	return FromColorgrad(g), nil
}
