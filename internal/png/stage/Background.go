package stage

import (
	"image"
	"image/color"

	"github.com/rm-hull/affine-warp/internal/png"
	"golang.org/x/image/draw"
)

type BackgroundStage struct {
	Color color.Color
}

// Process composites the image over a solid color
// After a warp this fills the unmapped (transparent) area
func (s *BackgroundStage) Process(p *png.PngImage) error {
	c := s.Color
	if c == nil {
		c = color.Black
	}
	rect := image.Rect(0, 0, p.Bounds.Dx(), p.Bounds.Dy())
	out := image.NewNRGBA(rect)
	draw.Draw(out, rect, image.NewUniform(c), image.Point{}, draw.Src)
	draw.Draw(out, rect, p.Img, p.Bounds.Min, draw.Over)
	p.Replace(out)
	return nil
}
