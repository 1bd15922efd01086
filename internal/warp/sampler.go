package warp

import (
	"math"

	"github.com/rm-hull/affine-warp/internal/geometry"
	"github.com/rm-hull/affine-warp/internal/raster"
)

// Sampler writes the value of src at the (possibly fractional) location p into
// dst, one entry per channel. It returns false, leaving dst untouched, when p
// cannot be sampled.
type Sampler interface {
	Sample(src *raster.Raster, p geometry.Point, dst []uint8) bool
}

// inRange is the half-open test [0, H) x [0, W) applied before any sampling.
func inRange(src *raster.Raster, p geometry.Point) bool {
	return p.X >= 0 && p.X < float64(src.Height) && p.Y >= 0 && p.Y < float64(src.Width)
}

// NearestSampler copies the closest source pixel. Coordinates are rounded half
// away from zero (math.Round), so 1.5 picks row 2 and 2.5 picks row 3.
type NearestSampler struct{}

func (NearestSampler) Sample(src *raster.Raster, p geometry.Point, dst []uint8) bool {
	if !inRange(src, p) {
		return false
	}
	i, j := int(math.Round(p.X)), int(math.Round(p.Y))
	if !src.InBounds(i, j) {
		return false
	}
	copy(dst, src.Pixel(i, j))
	return true
}

// BilinearSampler blends the 2x2 neighbourhood around p, weighting each
// neighbour by its proximity. Every channel uses the same spatial weights.
type BilinearSampler struct{}

func (BilinearSampler) Sample(src *raster.Raster, p geometry.Point, dst []uint8) bool {
	if !inRange(src, p) {
		return false
	}

	fx, fy := math.Floor(p.X), math.Floor(p.Y)
	cx, cy := math.Ceil(p.X), math.Ceil(p.Y)

	// The ceiling neighbour of the last row/column would fall off the edge,
	// collapse it onto the floor neighbour instead.
	if int(cx) == src.Height {
		cx = fx
	}
	if int(cy) == src.Width {
		cy = fy
	}

	// wx is zero when x sits on the lattice, so the ceiling term drops out.
	wx, wy := p.X-fx, p.Y-fy

	p00 := src.Pixel(int(fx), int(fy))
	p10 := src.Pixel(int(cx), int(fy))
	p01 := src.Pixel(int(fx), int(cy))
	p11 := src.Pixel(int(cx), int(cy))

	for ch := range dst {
		top := (1-wx)*float64(p00[ch]) + wx*float64(p10[ch])
		bot := (1-wx)*float64(p01[ch]) + wx*float64(p11[ch])
		dst[ch] = raster.Quantize((1-wy)*top + wy*bot)
	}
	return true
}
