package renderer

import (
	"image"

	"github.com/ivlev/fractal2video/internal/system"
)

// Pool recycles frames between the rasterizer and the encoder.
type Pool struct {
	frames *system.SizedPool[*Frame]
}

func NewPool() *Pool {
	return &Pool{
		frames: system.NewSizedPool(func(size image.Point) *Frame {
			return NewFrame(size.X, size.Y)
		}),
	}
}

// Get returns a frame of the given size. Its pixels are stale; the rasterizer
// overwrites every byte.
func (p *Pool) Get(width, height int) *Frame {
	if p == nil {
		return NewFrame(width, height)
	}
	return p.frames.Get(image.Pt(width, height))
}

// Put hands a frame back once the encoder is done with it.
func (p *Pool) Put(f *Frame) {
	if p == nil || f == nil {
		return
	}
	p.frames.Put(f.Size(), f)
}
