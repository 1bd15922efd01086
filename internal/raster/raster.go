// Package raster holds decoded images as a plain grid of 8-bit channel values.
package raster

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Raster is a Height x Width grid of pixels, each a tuple of Channels
// intensities, stored row-major and channel-interleaved. Row i and column j
// correspond to image y and x respectively.
type Raster struct {
	Height   int
	Width    int
	Channels int
	Pix      []uint8
}

// New returns a raster with every channel of every pixel set to zero.
func New(height, width, channels int) *Raster {
	if height < 0 || width < 0 || channels < 1 {
		panic(fmt.Sprintf("raster: invalid dimensions %dx%dx%d", height, width, channels))
	}
	return &Raster{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]uint8, height*width*channels),
	}
}

func (r *Raster) offset(i, j int) int {
	return (i*r.Width + j) * r.Channels
}

func (r *Raster) InBounds(i, j int) bool {
	return i >= 0 && i < r.Height && j >= 0 && j < r.Width
}

func (r *Raster) At(i, j, ch int) uint8 {
	return r.Pix[r.offset(i, j)+ch]
}

func (r *Raster) Set(i, j, ch int, v uint8) {
	r.Pix[r.offset(i, j)+ch] = v
}

// Pixel returns the channel values at (i, j). The slice aliases the raster.
func (r *Raster) Pixel(i, j int) []uint8 {
	o := r.offset(i, j)
	return r.Pix[o : o+r.Channels : o+r.Channels]
}

// Row returns the pixels of row i. The slice aliases the raster.
func (r *Raster) Row(i int) []uint8 {
	stride := r.Width * r.Channels
	return r.Pix[i*stride : (i+1)*stride]
}

func (r *Raster) Clone() *Raster {
	out := *r
	out.Pix = append([]uint8(nil), r.Pix...)
	return &out
}

// SameShape reports whether both rasters have identical dimensions and depth.
func (r *Raster) SameShape(other *Raster) bool {
	return r.Height == other.Height && r.Width == other.Width && r.Channels == other.Channels
}

// Quantize rounds half away from zero and clamps to [0, 255].
func Quantize(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

// FromImage converts img to a raster. Gray images keep a single channel,
// everything else becomes four channel non-premultiplied RGBA.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok {
		r := New(b.Dy(), b.Dx(), 1)
		for y := 0; y < r.Height; y++ {
			copy(r.Row(y), g.Pix[y*g.Stride:y*g.Stride+r.Width])
		}
		return r
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	r := New(b.Dy(), b.Dx(), 4)
	for y := 0; y < r.Height; y++ {
		copy(r.Row(y), nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+4*r.Width])
	}
	return r
}

// ToImage converts back to a standard library image: one channel is gray, two
// is gray with alpha, three is opaque RGB and four is NRGBA.
func (r *Raster) ToImage() (image.Image, error) {
	rect := image.Rect(0, 0, r.Width, r.Height)
	switch r.Channels {
	case 1:
		g := image.NewGray(rect)
		for y := 0; y < r.Height; y++ {
			copy(g.Pix[y*g.Stride:], r.Row(y))
		}
		return g, nil

	case 2, 3, 4:
		out := image.NewNRGBA(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				px := r.Pixel(y, x)
				o := y*out.Stride + 4*x
				switch r.Channels {
				case 2:
					out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = px[0], px[0], px[0], px[1]
				case 3:
					out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = px[0], px[1], px[2], 0xff
				default:
					copy(out.Pix[o:o+4], px)
				}
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("raster: unsupported channel count %d", r.Channels)
}
