// Package fractal holds the escape-time iteration functions used by the
// renderer.
package fractal

// Bailout is the squared magnitude beyond which a point has escaped.
const Bailout = 4.0

// EscapeFunc classifies a point of the complex plane by the number of
// iterations it takes to escape. Implementations must be pure and safe for
// concurrent use: the renderer calls them from every worker at once.
type EscapeFunc interface {
	// Escape returns the iteration index at which the point escaped, or
	// maxIter if it stayed bounded. The result is never above maxIter.
	Escape(re, im float64, maxIter uint32) uint32
}

// Mandelbrot iterates z = z^2 + c starting from z = 0.
type Mandelbrot struct{}

var _ EscapeFunc = Mandelbrot{}

func (Mandelbrot) Escape(re, im float64, maxIter uint32) uint32 {
	var zr, zi float64
	for n := uint32(0); n < maxIter; n++ {
		zr, zi = zr*zr-zi*zi+re, 2*zr*zi+im
		if zr*zr+zi*zi > Bailout {
			return n
		}
	}
	return maxIter
}
