package stage

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/rm-hull/affine-warp/internal/models/job"
	"github.com/rm-hull/affine-warp/internal/png"
	"github.com/rm-hull/affine-warp/internal/transform"
	"github.com/rm-hull/affine-warp/internal/warp"
)

// New builds the pipeline stage a manifest entry names.
func New(st job.Stage) (png.PipelineStage, error) {
	switch strings.ToLower(st.Name) {
	case "blur", "gaussian_blur":
		return &GaussianBlurStage{Sigma: st.Sigma}, nil
	case "greyscale", "grayscale":
		return &GreyscaleStage{}, nil
	case "replace_color":
		c, err := ParseHexColor(st.Color)
		if err != nil {
			return nil, err
		}
		return &ReplaceColorStage{Tolerance: st.Tolerance, Replace: c}, nil
	case "convolve":
		if _, ok := kernels[strings.ToLower(st.Kernel)]; !ok {
			return nil, fmt.Errorf("unknown kernel %q (want one of %s)", st.Kernel, strings.Join(KernelNames(), ", "))
		}
		return &ConvolveStage{Kernel: st.Kernel}, nil
	case "resample":
		return &ResampleStage{}, nil
	case "resize":
		return &ResizeStage{Width: st.Width, Height: st.Height}, nil
	case "background":
		c, err := ParseHexColor(st.Color)
		if err != nil {
			return nil, err
		}
		return &BackgroundStage{Color: c}, nil
	}
	return nil, fmt.Errorf("unknown pipeline stage %q", st.Name)
}

// ForManifest assembles before stages, the warp through affine, then after stages.
func ForManifest(m *job.Manifest, affine *transform.Affine, workers int) ([]png.PipelineStage, error) {
	stages := make([]png.PipelineStage, 0, len(m.Before)+len(m.After)+1)
	for _, st := range m.Before {
		s, err := New(st)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	stages = append(stages, NewWarp(affine, m.Options(workers)))
	for _, st := range m.After {
		s, err := New(st)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

func NewWarp(affine *transform.Affine, opts warp.Options) *WarpStage {
	return &WarpStage{Transform: affine, Options: opts}
}

// ParseHexColor accepts #rgb, #rrggbb and #rrggbbaa (the leading # is optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
