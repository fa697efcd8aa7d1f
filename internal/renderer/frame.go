package renderer

import (
	"image"
	"image/color"

	"github.com/ivlev/fractal2video/internal/palette"
)

// BytesPerPixel is the size of one packed RGB pixel.
const BytesPerPixel = 3

// Frame is a packed RGB raster: row-major, origin top-left, three bytes per
// pixel. It satisfies draw.Image so the image packages can read and write it.
type Frame struct {
	Width, Height int
	Pix           []uint8
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*BytesPerPixel),
	}
}

// Stride is the number of bytes between vertically adjacent pixels.
func (f *Frame) Stride() int {
	return f.Width * BytesPerPixel
}

// Size returns the frame dimensions as a point.
func (f *Frame) Size() image.Point {
	return image.Pt(f.Width, f.Height)
}

func (f *Frame) offset(x, y int) int {
	return y*f.Stride() + x*BytesPerPixel
}

func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

func (f *Frame) At(x, y int) color.Color {
	if !image.Pt(x, y).In(f.Bounds()) {
		return color.RGBA{}
	}
	i := f.offset(x, y)
	return color.RGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: 0xff}
}

// Set stores c with its alpha discarded.
func (f *Frame) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(f.Bounds()) {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	f.SetRGB(x, y, palette.RGB{R: rgba.R, G: rgba.G, B: rgba.B})
}

func (f *Frame) SetRGB(x, y int, c palette.RGB) {
	i := f.offset(x, y)
	f.Pix[i] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
}

// CopyToRGBA expands the frame into dst, which must have the same size and
// start at the origin. Alpha is set to opaque.
func (f *Frame) CopyToRGBA(dst *image.RGBA) {
	for y := 0; y < f.Height; y++ {
		src := f.Pix[y*f.Stride() : (y+1)*f.Stride()]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+f.Width*4]
		for x := 0; x < f.Width; x++ {
			row[x*4] = src[x*3]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3+2]
			row[x*4+3] = 0xff
		}
	}
}

// CopyFromRGBA packs src into the frame, dropping alpha.
func (f *Frame) CopyFromRGBA(src *image.RGBA) {
	for y := 0; y < f.Height; y++ {
		dst := f.Pix[y*f.Stride() : (y+1)*f.Stride()]
		row := src.Pix[y*src.Stride : y*src.Stride+f.Width*4]
		for x := 0; x < f.Width; x++ {
			dst[x*3] = row[x*4]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4+2]
		}
	}
}

// RGBA returns an opaque *image.RGBA copy of the frame.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	f.CopyToRGBA(img)
	return img
}
