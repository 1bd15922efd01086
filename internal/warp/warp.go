// Package warp resamples a source raster through an inverse affine transform.
//
// For every output pixel (i, j) the source location is inv·(i, j, 1). Locations
// outside [0, H) x [0, W) of the source leave the output pixel at its zero
// background; everything else is filled by the configured Sampler, channel by
// channel.
package warp

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rm-hull/affine-warp/internal/geometry"
	"github.com/rm-hull/affine-warp/internal/raster"
	"github.com/rm-hull/affine-warp/internal/transform"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptySource = errors.New("source image is empty")
	ErrTooLarge    = errors.New("output dimensions too large")
)

// MaxPixels caps height*width of a warp output (8192x8192).
const MaxPixels = 1 << 26

// CheckSize rejects negative dimensions and areas above MaxPixels. Zero is
// allowed and means "same as the source".
func CheckSize(height, width int) error {
	if height < 0 || width < 0 {
		return fmt.Errorf("invalid output dimensions %dx%d", height, width)
	}
	if height > MaxPixels || width > MaxPixels || (height > 0 && width > 0 && height > MaxPixels/width) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, height, width, MaxPixels)
	}
	return nil
}

type Options struct {
	Method Method
	// Output dimensions; zero means the matching source dimension.
	Height int
	Width  int
	// Workers is the number of row bands processed concurrently. Values
	// below 2 warp on the calling goroutine. Use AllCPUs for one per CPU.
	Workers int
}

const AllCPUs = -1

type Warper struct {
	opts    Options
	sampler Sampler
}

func New(opts Options) (*Warper, error) {
	if err := CheckSize(opts.Height, opts.Width); err != nil {
		return nil, err
	}
	sampler, err := opts.Method.sampler()
	if err != nil {
		return nil, err
	}
	if opts.Workers == AllCPUs {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Warper{opts: opts, sampler: sampler}, nil
}

// Warp produces a new raster with the source channel depth. src is only read.
func (w *Warper) Warp(inv geometry.Mat3, src *raster.Raster) (*raster.Raster, error) {
	if src == nil || src.Height == 0 || src.Width == 0 {
		return nil, ErrEmptySource
	}

	height, width := w.opts.Height, w.opts.Width
	if height == 0 {
		height = src.Height
	}
	if width == 0 {
		width = src.Width
	}
	if err := CheckSize(height, width); err != nil {
		return nil, err
	}
	out := raster.New(height, width, src.Channels)

	bands := w.opts.Workers
	if bands > height {
		bands = height
	}
	if bands < 2 {
		w.warpRows(inv, src, out, 0, height)
		return out, nil
	}

	var g errgroup.Group
	rowsPerBand := (height + bands - 1) / bands
	for start := 0; start < height; start += rowsPerBand {
		end := min(start+rowsPerBand, height)
		g.Go(func() error {
			w.warpRows(inv, src, out, start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// warpRows fills output rows [start, end). Bands never overlap, so no locking
// is needed on out.
func (w *Warper) warpRows(inv geometry.Mat3, src, out *raster.Raster, start, end int) {
	for i := start; i < end; i++ {
		for j := 0; j < out.Width; j++ {
			p := inv.Apply(geometry.Pt(float64(i), float64(j)))
			w.sampler.Sample(src, p, out.Pixel(i, j))
		}
	}
}

// Apply warps src through the inverse of an already estimated transform.
func Apply(a *transform.Affine, src *raster.Raster, opts Options) (*raster.Raster, error) {
	w, err := New(opts)
	if err != nil {
		return nil, err
	}
	return w.Warp(a.Inverse(), src)
}
