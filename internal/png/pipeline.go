package png

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type PngImage struct {
	Img    image.Image
	Bounds image.Rectangle
	// Format is the name of the codec the source was decoded with.
	Format string
}

type PipelineStage interface {
	Process(img *PngImage) error
}

// NewPngFromReader accepts any registered format (png, jpeg, gif, bmp, tiff,
// webp); output is always written as PNG.
func NewPngFromReader(r io.Reader) (*PngImage, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return NewPng(img, format), nil
}

func NewPng(img image.Image, format string) *PngImage {
	return &PngImage{
		Img:    img,
		Bounds: img.Bounds(),
		Format: format,
	}
}

func (p *PngImage) Write(w io.Writer) error {
	return png.Encode(w, p.Img)
}

// Replace swaps in a new image and refreshes the bounds.
func (p *PngImage) Replace(img image.Image) {
	p.Img = img
	p.Bounds = img.Bounds()
}

func (p *PngImage) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
