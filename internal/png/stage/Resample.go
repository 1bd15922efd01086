package stage

import (
	"image"

	"github.com/rm-hull/affine-warp/internal/png"
	"golang.org/x/image/draw"
)

type ResampleStage struct{}

// Process applies a Catmull-Rom resampling to smooth the image
// Run after a nearest-neighbour warp it takes the edge off stair-stepping
func (s *ResampleStage) Process(p *png.PngImage) error {
	rect := image.Rect(0, 0, p.Bounds.Dx(), p.Bounds.Dy())
	smoothed := image.NewNRGBA(rect)
	draw.CatmullRom.Scale(smoothed, rect, p.Img, p.Bounds, draw.Over, nil)
	p.Replace(smoothed)
	return nil
}
