package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New(2, 3, 3)
	assert.Len(t, r.Pix, 18)
	for _, v := range r.Pix {
		assert.Zero(t, v)
	}
	assert.Panics(t, func() { New(1, 1, 0) })
}

func TestRaster_Access(t *testing.T) {
	r := New(2, 3, 2)
	r.Set(1, 2, 1, 42)
	assert.Equal(t, uint8(42), r.At(1, 2, 1))
	assert.Equal(t, []uint8{0, 42}, r.Pixel(1, 2))
	assert.Equal(t, uint8(42), r.Pix[len(r.Pix)-1])

	assert.True(t, r.InBounds(1, 2))
	assert.False(t, r.InBounds(2, 0))
	assert.False(t, r.InBounds(0, 3))
	assert.False(t, r.InBounds(-1, 0))

	c := r.Clone()
	c.Set(1, 2, 1, 7)
	assert.Equal(t, uint8(42), r.At(1, 2, 1))
	assert.True(t, c.SameShape(r))
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{1.5, 2},
		{2.5, 3},
		{254.6, 255},
		{300, 255},
		{-3, 0},
		{math.Inf(1), 255},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quantize(tt.in), "Quantize(%v)", tt.in)
	}
}

func TestFromImage_RoundTrip(t *testing.T) {
	t.Run("gray", func(t *testing.T) {
		g := image.NewGray(image.Rect(0, 0, 3, 2))
		g.SetGray(2, 1, color.Gray{Y: 200})
		r := FromImage(g)
		assert.Equal(t, 1, r.Channels)
		assert.Equal(t, 2, r.Height)
		assert.Equal(t, 3, r.Width)
		assert.Equal(t, uint8(200), r.At(1, 2, 0))

		img, err := r.ToImage()
		require.NoError(t, err)
		assert.Equal(t, g.Pix, img.(*image.Gray).Pix)
	})

	t.Run("rgba with offset bounds", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(10, 20, 14, 23))
		src.Set(11, 22, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		r := FromImage(src)
		assert.Equal(t, 4, r.Channels)
		assert.Equal(t, 3, r.Height)
		assert.Equal(t, 4, r.Width)
		assert.Equal(t, []uint8{10, 20, 30, 255}, r.Pixel(2, 1))

		img, err := r.ToImage()
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.At(1, 2))
	})

	t.Run("rgb", func(t *testing.T) {
		r := New(1, 1, 3)
		copy(r.Pix, []uint8{1, 2, 3})
		img, err := r.ToImage()
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, img.At(0, 0))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := New(1, 1, 5).ToImage()
		assert.Error(t, err)
	})
}
