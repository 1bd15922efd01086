package stage

import (
	"errors"
	"fmt"
	"log"

	"github.com/rm-hull/affine-warp/internal/png"
	"github.com/rm-hull/affine-warp/internal/raster"
	"github.com/rm-hull/affine-warp/internal/transform"
	"github.com/rm-hull/affine-warp/internal/warp"
)

type WarpStage struct {
	Transform *transform.Affine
	Options   warp.Options
}

// Process resamples the image through the inverse of the estimated transform.
// Pixels that map outside the source are left transparent (or black for
// images without alpha).
func (s *WarpStage) Process(p *png.PngImage) error {
	if s.Transform == nil {
		return errors.New("warp failed: no transform")
	}
	src := raster.FromImage(p.Img)
	out, err := warp.Apply(s.Transform, src, s.Options)
	if err != nil {
		return fmt.Errorf("warp failed: %w", err)
	}
	log.Printf("Warped %dx%d -> %dx%d (%s)", src.Width, src.Height, out.Width, out.Height, s.Options.Method)

	img, err := out.ToImage()
	if err != nil {
		return err
	}
	p.Replace(img)
	return nil
}
