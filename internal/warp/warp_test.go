package warp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rm-hull/affine-warp/internal/geometry"
	"github.com/rm-hull/affine-warp/internal/raster"
	"github.com/rm-hull/affine-warp/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadrant() *raster.Raster {
	src := raster.New(4, 4, 1)
	src.Set(1, 1, 0, 10)
	src.Set(1, 2, 0, 20)
	src.Set(2, 1, 0, 30)
	src.Set(2, 2, 0, 40)
	return src
}

func noise(h, w, c int) *raster.Raster {
	rnd := rand.New(rand.NewSource(7))
	r := raster.New(h, w, c)
	for i := range r.Pix {
		r.Pix[i] = uint8(rnd.Intn(256))
	}
	return r
}

func translate(dx, dy float64) geometry.Mat3 {
	return geometry.Mat3{1, 0, dx, 0, 1, dy, 0, 0, 1}
}

func mustWarp(t *testing.T, opts Options, inv geometry.Mat3, src *raster.Raster) *raster.Raster {
	t.Helper()
	w, err := New(opts)
	require.NoError(t, err)
	out, err := w.Warp(inv, src)
	require.NoError(t, err)
	return out
}

func TestWarp_BilinearCentre(t *testing.T) {
	out := mustWarp(t, Options{Method: Bilinear}, translate(0.5, 0.5), quadrant())
	assert.Equal(t, uint8(25), out.At(1, 1, 0))

	// Same thing with the transform estimated from correspondences.
	pairs := transform.Correspondences{
		{Src: geometry.Pt(0.5, 0.5), Dst: geometry.Pt(0, 0)},
		{Src: geometry.Pt(1.5, 0.5), Dst: geometry.Pt(1, 0)},
		{Src: geometry.Pt(0.5, 1.5), Dst: geometry.Pt(0, 1)},
	}
	affine, err := transform.Estimate(pairs)
	require.NoError(t, err)
	out, err = Apply(affine, quadrant(), Options{Method: Bilinear})
	require.NoError(t, err)
	assert.Equal(t, geometry.Pt(1.5, 1.5), affine.Unapply(geometry.Pt(1, 1)))
	assert.Equal(t, uint8(25), out.At(1, 1, 0))
}

func TestBilinearSampler_ClampsLastRow(t *testing.T) {
	src := raster.New(4, 4, 1)
	src.Set(3, 0, 0, 77)

	dst := make([]uint8, 1)
	ok := BilinearSampler{}.Sample(src, geometry.Pt(3.9, 0), dst)
	require.True(t, ok)
	assert.Equal(t, uint8(77), dst[0])

	ok = BilinearSampler{}.Sample(src, geometry.Pt(0, 3.5), dst)
	require.True(t, ok)
	assert.Equal(t, uint8(0), dst[0])
}

func TestBilinearSampler_Weights(t *testing.T) {
	src := raster.New(2, 2, 2)
	copy(src.Pix, []uint8{
		0, 100, 100, 0,
		200, 50, 50, 250,
	})
	dst := make([]uint8, 2)

	require.True(t, BilinearSampler{}.Sample(src, geometry.Pt(0.25, 0), dst))
	assert.Equal(t, []uint8{50, 88}, dst)

	require.True(t, BilinearSampler{}.Sample(src, geometry.Pt(0, 0.5), dst))
	assert.Equal(t, []uint8{50, 50}, dst)

	require.True(t, BilinearSampler{}.Sample(src, geometry.Pt(0.5, 0.5), dst))
	assert.Equal(t, []uint8{88, 100}, dst)
}

func TestBilinearSampler_OutOfRange(t *testing.T) {
	src := quadrant()
	dst := []uint8{9}
	for _, p := range []geometry.Point{
		geometry.Pt(-0.01, 0), geometry.Pt(0, -0.01), geometry.Pt(4, 0), geometry.Pt(0, 4),
	} {
		assert.False(t, BilinearSampler{}.Sample(src, p, dst), p.String())
		assert.Equal(t, uint8(9), dst[0], "dst untouched")
	}
}

func TestNearestSampler(t *testing.T) {
	src := quadrant()
	dst := make([]uint8, 1)

	tests := []struct {
		p    geometry.Point
		ok   bool
		want uint8
	}{
		{geometry.Pt(1, 1), true, 10},
		{geometry.Pt(1.4, 1.4), true, 10},
		{geometry.Pt(1.5, 1.5), true, 40},
		{geometry.Pt(0.5, 1.5), true, 20},
		{geometry.Pt(2.49, 0.6), true, 30},
		{geometry.Pt(3.6, 0), false, 0},
		{geometry.Pt(0, 3.5), false, 0},
		{geometry.Pt(-0.2, 0), false, 0},
	}
	for _, tt := range tests {
		dst[0] = 0
		ok := NearestSampler{}.Sample(src, tt.p, dst)
		assert.Equal(t, tt.ok, ok, tt.p.String())
		assert.Equal(t, tt.want, dst[0], tt.p.String())
	}
}

func TestWarp_IdentityRoundTrip(t *testing.T) {
	src := noise(17, 23, 3)
	pairs := transform.Correspondences{
		{Src: geometry.Pt(0, 0), Dst: geometry.Pt(0, 0)},
		{Src: geometry.Pt(16, 0), Dst: geometry.Pt(16, 0)},
		{Src: geometry.Pt(0, 22), Dst: geometry.Pt(0, 22)},
	}

	affine, err := transform.Estimate(pairs)
	require.NoError(t, err)
	assert.Equal(t, geometry.Identity(), affine.Forward())

	for _, method := range []Method{Nearest, Bilinear} {
		for _, workers := range []int{0, 4, AllCPUs} {
			out, err := Apply(affine, src, Options{Method: method, Workers: workers})
			require.NoError(t, err)
			assert.Equal(t, src.Pix, out.Pix, "%s with %d workers", method, workers)
		}
	}
}

func TestWarp_MethodsAgreeOnLattice(t *testing.T) {
	src := noise(12, 9, 4)
	inv := geometry.Mat3{0, 1, 1, 1, 0, -2, 0, 0, 1} // transpose plus integer shift

	nn := mustWarp(t, Options{Method: Nearest}, inv, src)
	bl := mustWarp(t, Options{Method: Bilinear}, inv, src)
	assert.Equal(t, nn.Pix, bl.Pix)

	// out(i, j) = src(j+1, i-2) wherever that lands inside the source.
	assert.Equal(t, src.Pixel(4, 1), nn.Pixel(3, 3))
}

func TestWarp_BackgroundOutsideSource(t *testing.T) {
	src := noise(10, 10, 3)
	for i := range src.Pix {
		src.Pix[i] |= 1 // no genuine zeros
	}
	out := mustWarp(t, Options{Method: Bilinear}, translate(4.5, -3.25), src)

	for i := 0; i < out.Height; i++ {
		for j := 0; j < out.Width; j++ {
			x, y := float64(i)+4.5, float64(j)-3.25
			inside := x >= 0 && x < 10 && y >= 0 && y < 10
			px := out.Pixel(i, j)
			if inside {
				assert.NotEqual(t, []uint8{0, 0, 0}, px, "(%d, %d)", i, j)
			} else {
				assert.Equal(t, []uint8{0, 0, 0}, px, "(%d, %d)", i, j)
			}
		}
	}
}

func TestWarp_OutputDimensions(t *testing.T) {
	src := noise(8, 8, 1)
	scale := geometry.Mat3{0.5, 0, 0, 0, 0.5, 0, 0, 0, 1}
	out := mustWarp(t, Options{Method: Nearest, Height: 16, Width: 12}, scale, src)
	assert.Equal(t, 16, out.Height)
	assert.Equal(t, 12, out.Width)
	assert.Equal(t, 1, out.Channels)
	assert.Equal(t, src.At(3, 2, 0), out.At(6, 4, 0))
	assert.Equal(t, src.Pixel(7, 5), out.Pixel(14, 10))
}

func TestWarp_ParallelMatchesSerial(t *testing.T) {
	src := noise(31, 29, 4)
	a, err := transform.Estimate(transform.Correspondences{
		{Src: geometry.Pt(2, 3), Dst: geometry.Pt(5, 1)},
		{Src: geometry.Pt(25, 4), Dst: geometry.Pt(27, 9)},
		{Src: geometry.Pt(6, 26), Dst: geometry.Pt(2, 24)},
	})
	require.NoError(t, err)

	serial := mustWarp(t, Options{Method: Bilinear}, a.Inverse(), src)
	for _, workers := range []int{2, 3, 7, 64} {
		parallel := mustWarp(t, Options{Method: Bilinear, Workers: workers}, a.Inverse(), src)
		assert.Equal(t, serial.Pix, parallel.Pix, "workers=%d", workers)
	}
}

func TestWarp_SourceUnchanged(t *testing.T) {
	src := noise(6, 6, 3)
	before := src.Clone()
	mustWarp(t, Options{Method: Bilinear, Workers: 3}, translate(0.3, 0.7), src)
	assert.Equal(t, before.Pix, src.Pix)
}

func TestApply_Errors(t *testing.T) {
	w, err := New(Options{})
	require.NoError(t, err)
	_, err = w.Warp(geometry.Identity(), raster.New(0, 3, 1))
	assert.ErrorIs(t, err, ErrEmptySource)

	_, err = New(Options{Height: -1})
	assert.Error(t, err)

	_, err = New(Options{Method: Method(9)})
	assert.ErrorIs(t, err, ErrUnknownMethod)

	affine, err := transform.FromMatrix(geometry.Identity())
	require.NoError(t, err)
	out, err := Apply(affine, noise(4, 4, 1), Options{Height: MaxPixels, Width: 2})
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, out)
}

func TestCheckSize(t *testing.T) {
	tests := []struct {
		name          string
		height, width int
		tooLarge      bool
	}{
		{"source sized", 0, 0, false},
		{"square limit", 8192, 8192, false},
		{"one row past", 8193, 8192, true},
		{"height only", MaxPixels + 1, 0, true},
		{"product overflows int", 1 << 31, 1 << 31, true},
		{"max int", math.MaxInt, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSize(tt.height, tt.width)
			if tt.tooLarge {
				assert.ErrorIs(t, err, ErrTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, CheckSize(-1, 4))
}

func TestNew_RejectsHugeOutput(t *testing.T) {
	_, err := New(Options{Height: 1 << 31, Width: 1 << 31})
	assert.ErrorIs(t, err, ErrTooLarge)

	// A height that is only too large next to the source width.
	w, err := New(Options{Height: MaxPixels / 2})
	require.NoError(t, err)
	_, err = w.Warp(geometry.Identity(), noise(2, 4, 1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{
		"nearest":  Nearest,
		"NN":       Nearest,
		"bilinear": Bilinear,
		" Linear ": Bilinear,
		"":         Bilinear,
	} {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMethod("bicubic")
	assert.ErrorIs(t, err, ErrUnknownMethod)

	var m Method
	require.NoError(t, m.UnmarshalText([]byte("nearest")))
	assert.Equal(t, Nearest, m)
	text, err := Bilinear.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "bilinear", string(text))
}
