package stage

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/rm-hull/affine-warp/internal/png"
)

type ReplaceColorStage struct {
	Tolerance float64
	Replace   color.Color
}

// Process fades pixels close to the target color to transparency, scaled by their distance to it
// Useful ahead of a warp to knock out a flat backdrop so it blends with the unmapped background
// A pixel exactly matching the target color becomes fully transparent, one at the edge of the tolerance remains opaque
func (s *ReplaceColorStage) Process(p *png.PngImage) error {
	if s.Replace == nil || s.Tolerance <= 0 {
		return errors.New("replace color needs a color and a positive tolerance")
	}
	out := image.NewNRGBA(image.Rect(0, 0, p.Bounds.Dx(), p.Bounds.Dy()))
	replaceR, replaceG, replaceB, _ := s.Replace.RGBA()
	rR, rG, rB := float64(replaceR>>8), float64(replaceG>>8), float64(replaceB>>8)
	for y := p.Bounds.Min.Y; y < p.Bounds.Max.Y; y++ {
		for x := p.Bounds.Min.X; x < p.Bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(p.Img.At(x, y)).(color.NRGBA)
			R, G, B := float64(c.R), float64(c.G), float64(c.B)
			dist := math.Sqrt((rR-R)*(rR-R) + (rG-G)*(rG-G) + (rB-B)*(rB-B))
			if dist < s.Tolerance {
				c.A = uint8((dist / s.Tolerance) * float64(c.A))
			}
			out.SetNRGBA(x-p.Bounds.Min.X, y-p.Bounds.Min.Y, c)
		}
	}
	p.Replace(out)
	return nil
}
