// Package viewport maps raster pixels onto the complex plane.
package viewport

// Viewport is the rectangle of the complex plane centred on (CX, CY) that a
// width x height raster samples. The horizontal half-extent is the radius;
// the vertical one is scaled by the aspect ratio so resizing the raster only
// changes the sampling density, never the visible region.
type Viewport struct {
	Width, Height int
	CX, CY        float64
	RadiusX       float64
	RadiusY       float64
}

// New builds the viewport for a raster. Width and height must be at least 1
// and radius positive; callers are expected to have validated them.
func New(width, height int, cx, cy, radius float64) Viewport {
	aspect := float64(width) / float64(height)
	return Viewport{
		Width:   width,
		Height:  height,
		CX:      cx,
		CY:      cy,
		RadiusX: radius,
		RadiusY: radius / aspect,
	}
}

// Column returns the real coordinate sampled by pixel column px.
func (v Viewport) Column(px int) float64 {
	lo, hi := v.CX-v.RadiusX, v.CX+v.RadiusX
	return lo + (float64(px)/float64(v.Width))*(hi-lo)
}

// Row returns the imaginary coordinate sampled by pixel row py. Row 0 is the
// top of the raster and maps to CY - RadiusY.
func (v Viewport) Row(py int) float64 {
	lo, hi := v.CY-v.RadiusY, v.CY+v.RadiusY
	return lo + (float64(py)/float64(v.Height))*(hi-lo)
}

// Map returns the complex-plane coordinate of pixel (px, py).
func (v Viewport) Map(px, py int) (re, im float64) {
	return v.Column(px), v.Row(py)
}
