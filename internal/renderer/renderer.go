// Package renderer rasterizes keyframes into RGB frames. Rows are split
// between workers by index, so no two goroutines ever touch the same bytes.
package renderer

import (
	"fmt"
	"runtime"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/fractal2video/internal/director"
	"github.com/ivlev/fractal2video/internal/fractal"
	"github.com/ivlev/fractal2video/internal/palette"
	"github.com/ivlev/fractal2video/internal/system"
	"github.com/ivlev/fractal2video/internal/viewport"
)

// Field holds the raw iteration counts of one viewport, row-major.
type Field struct {
	Width, Height int
	MaxIter       uint32
	Counts        []uint32
}

func newField(width, height int) *Field {
	return &Field{Width: width, Height: height, Counts: make([]uint32, width*height)}
}

// Renderer turns keyframes into frames. It remembers the last iteration field
// so a keyframe that only changes the color shift is recolored, not
// recomputed. A Renderer is not safe for concurrent use; it parallelizes
// internally.
type Renderer struct {
	Fractal     fractal.EscapeFunc
	Gradient    palette.Gradient
	Workers     int
	Supersample int
	Pool        *Pool

	cached    *Field
	cachedKey director.Keyframe

	// Hits counts frames served from the cached field.
	Hits int
}

func New(f fractal.EscapeFunc, g palette.Gradient, workers int) *Renderer {
	return &Renderer{
		Fractal:     f,
		Gradient:    g,
		Workers:     workers,
		Supersample: 1,
	}
}

func (r *Renderer) workers(rows int) int {
	n := r.Workers
	if n < 1 {
		n = runtime.NumCPU()
	}
	if n > rows {
		n = rows
	}
	if n < 1 {
		n = 1
	}
	return n
}

// forRows runs fn for every row. Worker k of n owns rows k, k+n, k+2n, ...
func (r *Renderer) forRows(height int, fn func(y int)) {
	n := r.workers(height)
	if n == 1 {
		for y := 0; y < height; y++ {
			fn(y)
		}
		return
	}

	var wg sync.WaitGroup
	for k := 0; k < n; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			for y := k; y < height; y += n {
				fn(y)
			}
		}(k)
	}
	wg.Wait()
}

// Iterate computes the escape count of every pixel of kf at width x height.
func (r *Renderer) Iterate(kf director.Keyframe, width, height int) *Field {
	field := newField(width, height)
	r.iterateInto(field, kf)
	return field
}

func (r *Renderer) iterateInto(field *Field, kf director.Keyframe) {
	vp := viewport.New(field.Width, field.Height, kf.X, kf.Y, kf.Radius)
	field.MaxIter = kf.MaxIterations

	cols := make([]float64, field.Width)
	for x := range cols {
		cols[x] = vp.Column(x)
	}

	r.forRows(field.Height, func(y int) {
		im := vp.Row(y)
		row := field.Counts[y*field.Width : (y+1)*field.Width]
		for x, re := range cols {
			row[x] = r.Fractal.Escape(re, im, kf.MaxIterations)
		}
	})
}

// Colorize writes the colors of field into dst, which must have the same
// dimensions. When the budget is smaller than the frame every possible count
// is shaded once up front; otherwise pixels are shaded directly, so the cost
// never exceeds one gradient sample per pixel.
func (r *Renderer) Colorize(field *Field, shift float64, dst *Frame) {
	shade := func(n uint32) palette.RGB {
		return palette.Shade(n, field.MaxIter, shift, r.Gradient)
	}
	if size := int(field.MaxIter) + 1; size <= len(field.Counts) {
		lut := make([]palette.RGB, size)
		for i := range lut {
			lut[i] = shade(uint32(i))
		}
		shade = func(n uint32) palette.RGB { return lut[n] }
	}

	stride := dst.Stride()
	r.forRows(field.Height, func(y int) {
		counts := field.Counts[y*field.Width : (y+1)*field.Width]
		pix := dst.Pix[y*stride : (y+1)*stride]
		for x, n := range counts {
			c := shade(n)
			pix[x*3] = c.R
			pix[x*3+1] = c.G
			pix[x*3+2] = c.B
		}
	})
}

// Render rasterizes kf at width x height. With Supersample > 1 the image is
// computed at a multiple of the target size and resampled down.
func (r *Renderer) Render(kf director.Keyframe, width, height int) (*Frame, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if err := kf.Validate(); err != nil {
		return nil, err
	}
	if r.Fractal == nil || r.Gradient == nil {
		return nil, fmt.Errorf("renderer needs both a fractal function and a gradient")
	}

	s := r.Supersample
	if s < 1 {
		s = 1
	}
	field := r.field(kf, width*s, height*s)

	if s == 1 {
		dst := r.Pool.Get(width, height)
		r.Colorize(field, kf.ColorShift, dst)
		return dst, nil
	}

	hi := r.Pool.Get(field.Width, field.Height)
	r.Colorize(field, kf.ColorShift, hi)
	dst := r.Pool.Get(width, height)
	downscale(dst, hi)
	r.Pool.Put(hi)
	return dst, nil
}

// field returns the iteration counts for kf, reusing the previous ones when
// the viewport and budget are unchanged.
func (r *Renderer) field(kf director.Keyframe, width, height int) *Field {
	if r.cached != nil && r.cached.Width == width && r.cached.Height == height {
		if r.cachedKey.Equal(kf) {
			r.Hits++
			return r.cached
		}
		r.iterateInto(r.cached, kf)
	} else {
		r.cached = r.Iterate(kf, width, height)
	}
	r.cachedKey = kf
	return r.cached
}

// Reset drops the cached iteration field.
func (r *Renderer) Reset() {
	r.cached = nil
	r.cachedKey = director.Keyframe{}
}

// downscale resamples src into dst with a Catmull-Rom filter.
func downscale(dst, src *Frame) {
	in := system.GetImage(src.Size())
	out := system.GetImage(dst.Size())
	defer system.PutImage(in)
	defer system.PutImage(out)

	src.CopyToRGBA(in)
	xdraw.CatmullRom.Scale(out, out.Bounds(), in, in.Bounds(), xdraw.Src, nil)
	dst.CopyFromRGBA(out)
}

var _ xdraw.Image = (*Frame)(nil)
