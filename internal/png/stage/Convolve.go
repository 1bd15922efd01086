package stage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/rm-hull/affine-warp/internal/png"
)

var kernels = map[string][9]float64{
	"blur":                 {1, 2, 1, 2, 4, 2, 1, 2, 1},
	"sharpen":              {-1, -1, -1, -1, 9, -1, -1, -1, -1},
	"edge_detection":       {0, 1, 0, 1, -4, 1, 0, 1, 0},
	"sobel_edge_detection": {0, -1, 0, -1, 4, -1, 0, -1, 0},
	"emboss":               {0, 1, 0, 1, 0, -1, 0, -1, 0},
}

// KernelNames lists the 3x3 kernels ConvolveStage accepts.
func KernelNames() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type ConvolveStage struct {
	Kernel string
}

// Process runs a fixed 3x3 kernel over each colour channel. Kernels with a
// positive sum are divided by it, alpha is carried over untouched and edges
// are extended.
func (s *ConvolveStage) Process(p *png.PngImage) error {
	values, ok := kernels[strings.ToLower(s.Kernel)]
	if !ok {
		return fmt.Errorf("unknown kernel %q (want one of %s)", s.Kernel, strings.Join(KernelNames(), ", "))
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	k := convolution.NewKernel(3, 3)
	for i, v := range values {
		if sum > 0 {
			v /= sum
		}
		k.Matrix[i] = v
	}

	p.Replace(convolution.Convolve(p.Img, k, &convolution.Options{KeepAlpha: true}))
	return nil
}
