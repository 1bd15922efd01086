package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rm-hull/affine-warp/internal/transform"
	"github.com/rm-hull/affine-warp/internal/warp"
)

// Manifest describes one warp job as dropped into the batch inbox.
type Manifest struct {
	// Source is a local path (relative to the inbox) or an http(s) URL.
	Source  string                    `json:"source"`
	Output  string                    `json:"output"`
	Method  string                    `json:"method,omitempty"`
	Width   int                       `json:"width,omitempty"`
	Height  int                       `json:"height,omitempty"`
	Points  transform.Correspondences `json:"points"`
	Before  []Stage                   `json:"stages_before,omitempty"`
	After   []Stage                   `json:"stages_after,omitempty"`
	Compare bool                      `json:"compare,omitempty"`
}

// Stage configures one pre- or post-warp pipeline stage. Which fields are
// read depends on Name.
type Stage struct {
	Name      string  `json:"name"`
	Sigma     float64 `json:"sigma,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`
	Color     string  `json:"color,omitempty"`
	Kernel    string  `json:"kernel,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
}

func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the fields that can be checked without loading the image.
// Point counts are left to the estimator so its errors surface unchanged.
func (m *Manifest) Validate() error {
	if m.Source == "" {
		return errors.New("manifest has no source")
	}
	if m.Output == "" {
		return errors.New("manifest has no output")
	}
	if filepath.Base(m.Output) != m.Output || m.Output == "." || m.Output == ".." {
		return fmt.Errorf("output %q must be a plain file name", m.Output)
	}
	if !strings.EqualFold(filepath.Ext(m.Output), ".png") {
		return fmt.Errorf("output %q must have a .png extension", m.Output)
	}
	if err := warp.CheckSize(m.Height, m.Width); err != nil {
		return err
	}
	for _, st := range slices.Concat(m.Before, m.After) {
		if err := warp.CheckSize(st.Height, st.Width); err != nil {
			return fmt.Errorf("stage %s: %w", st.Name, err)
		}
	}
	if _, err := warp.ParseMethod(m.Method); err != nil {
		return err
	}
	return nil
}

// Options converts the manifest into warp options.
func (m *Manifest) Options(workers int) warp.Options {
	method, _ := warp.ParseMethod(m.Method)
	return warp.Options{
		Method:  method,
		Width:   m.Width,
		Height:  m.Height,
		Workers: workers,
	}
}
