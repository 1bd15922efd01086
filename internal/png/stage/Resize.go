package stage

import (
	"fmt"

	"github.com/anthonynsimon/bild/transform"
	"github.com/rm-hull/affine-warp/internal/png"
)

type ResizeStage struct {
	Width  int
	Height int
}

// Process scales the image to Width x Height with a Lanczos filter
// A zero dimension is derived from the other one, preserving aspect ratio
func (s *ResizeStage) Process(p *png.PngImage) error {
	w, h := s.Width, s.Height
	dx, dy := p.Bounds.Dx(), p.Bounds.Dy()
	switch {
	case w <= 0 && h <= 0, w < 0, h < 0:
		return fmt.Errorf("invalid resize dimensions %dx%d", s.Width, s.Height)
	case w == 0:
		w = max(1, (dx*h+dy/2)/dy)
	case h == 0:
		h = max(1, (dy*w+dx/2)/dx)
	}
	p.Replace(transform.Resize(p.Img, w, h, transform.Lanczos))
	return nil
}
