package internal

import (
	"image"

	"github.com/rm-hull/affine-warp/internal/png"
	"github.com/rm-hull/affine-warp/internal/raster"
	"github.com/rm-hull/affine-warp/internal/transform"
	"github.com/rm-hull/affine-warp/internal/warp"
)

const compareFrameDelay = 1.0

// Compare renders the source, then the nearest and bilinear warps of it, as a
// looping APNG. The source frame is left out when the output size differs.
func Compare(src image.Image, affine *transform.Affine, opts warp.Options) ([]byte, error) {
	r := raster.FromImage(src)

	var frames []image.Image
	for _, method := range []warp.Method{warp.Nearest, warp.Bilinear} {
		opts.Method = method
		out, err := warp.Apply(affine, r, opts)
		if err != nil {
			return nil, err
		}
		img, err := out.ToImage()
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}

	if src.Bounds().Size() == frames[0].Bounds().Size() {
		frames = append([]image.Image{src}, frames...)
	}
	return png.Animate(frames, compareFrameDelay)
}
