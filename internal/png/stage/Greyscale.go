package stage

import (
	"image"

	"github.com/rm-hull/affine-warp/internal/png"
)

type GreyscaleStage struct{}

// Process converts the image to single channel luminance
// A subsequent warp then works on one channel instead of four
// Alpha is dropped, fully transparent pixels become black
func (s *GreyscaleStage) Process(p *png.PngImage) error {
	gs := image.NewGray(image.Rect(0, 0, p.Bounds.Dx(), p.Bounds.Dy()))
	for y := p.Bounds.Min.Y; y < p.Bounds.Max.Y; y++ {
		for x := p.Bounds.Min.X; x < p.Bounds.Max.X; x++ {
			r, g, b, a := p.Img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			// Reference: https://en.wikipedia.org/wiki/Grayscale#Luma_coding_in_video_systems
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			gs.Pix[(y-p.Bounds.Min.Y)*gs.Stride+(x-p.Bounds.Min.X)] = uint8(lum + 0.5)
		}
	}
	p.Replace(gs)
	return nil
}
