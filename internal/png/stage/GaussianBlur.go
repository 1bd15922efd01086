package stage

import (
	"errors"

	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/affine-warp/internal/png"
)

type GaussianBlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur to the image using the specified Sigma value
// Blurring before a nearest-neighbour warp softens the blockiness it introduces
func (s *GaussianBlurStage) Process(p *png.PngImage) error {
	if s.Sigma <= 0 {
		return errors.New("gaussian blur sigma must be positive")
	}
	p.Replace(blur.Gaussian(p.Img, s.Sigma))
	return nil
}
