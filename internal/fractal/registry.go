package fractal

import "fmt"

// New returns the escape function registered under name. An empty name
// selects the Mandelbrot set.
func New(name string) (EscapeFunc, error) {
	switch name {
	case "mandelbrot", "":
		return Mandelbrot{}, nil
	default:
		return nil, fmt.Errorf("unknown fractal function: %q", name)
	}
}

// Names lists the fractal functions accepted by New.
func Names() []string {
	return []string{"mandelbrot"}
}
