package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rm-hull/affine-warp/internal"
	"github.com/rm-hull/affine-warp/internal/png"
	"github.com/rm-hull/affine-warp/internal/png/stage"
	"github.com/rm-hull/affine-warp/internal/transform"
	"github.com/rm-hull/affine-warp/internal/warp"
)

type WarpConfig struct {
	InFile      string
	OutFile     string
	CompareFile string
	Points      string
	Method      string
	Width       int
	Height      int
	Workers     int
}

// Warp runs a single image through the warp from the command line.
func Warp(cfg WarpConfig) error {
	pairs, err := transform.ParsePairs(cfg.Points)
	if err != nil {
		return err
	}
	method, err := warp.ParseMethod(cfg.Method)
	if err != nil {
		return err
	}
	opts := warp.Options{Method: method, Width: cfg.Width, Height: cfg.Height, Workers: cfg.Workers}

	affine, err := transform.Estimate(pairs)
	if err != nil {
		return err
	}
	log.Printf("Forward transform:\n%s", affine.Forward())
	for i, r := range transform.Residuals(affine, pairs) {
		log.Printf("  pair %d %s -> %s residual %.4g", i, pairs[i].Src, pairs[i].Dst, r)
	}

	inFile, err := os.Open(cfg.InFile)
	if err != nil {
		return err
	}
	img, err := png.NewPngFromReader(inFile)
	_ = inFile.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cfg.InFile, err)
	}
	source := img.Img

	if err := img.Pipeline(stage.NewWarp(affine, opts)); err != nil {
		return err
	}

	if err := internal.WriteAtomic(cfg.OutFile, img.Write); err != nil {
		return err
	}
	log.Printf("Wrote %s", cfg.OutFile)

	if cfg.CompareFile != "" {
		data, err := internal.Compare(source, affine, opts)
		if err != nil {
			return err
		}
		err = internal.WriteAtomic(cfg.CompareFile, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
		if err != nil {
			return err
		}
		log.Printf("Wrote %s", cfg.CompareFile)
	}
	return nil
}
