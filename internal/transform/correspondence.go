package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rm-hull/affine-warp/internal/geometry"
)

// Pair matches one source-space point to one destination-space point.
type Pair struct {
	Src geometry.Point `json:"src"`
	Dst geometry.Point `json:"dst"`
}

type Correspondences []Pair

func (c Correspondences) Sources() []geometry.Point {
	pts := make([]geometry.Point, len(c))
	for i, p := range c {
		pts[i] = p.Src
	}
	return pts
}

func (c Correspondences) Destinations() []geometry.Point {
	pts := make([]geometry.Point, len(c))
	for i, p := range c {
		pts[i] = p.Dst
	}
	return pts
}

func (c Correspondences) String() string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = fmt.Sprintf("%g,%g:%g,%g", p.Src.X, p.Src.Y, p.Dst.X, p.Dst.Y)
	}
	return strings.Join(parts, ";")
}

// ParsePairs reads the command line form "sx,sy:dx,dy;sx,sy:dx,dy;...".
func ParsePairs(s string) (Correspondences, error) {
	var pairs Correspondences
	for _, field := range strings.Split(s, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		src, dst, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: expected src:dst", field)
		}
		sp, err := parsePoint(src)
		if err != nil {
			return nil, fmt.Errorf("invalid source point in %q: %w", field, err)
		}
		dp, err := parsePoint(dst)
		if err != nil {
			return nil, fmt.Errorf("invalid destination point in %q: %w", field, err)
		}
		pairs = append(pairs, Pair{Src: sp, Dst: dp})
	}
	return pairs, nil
}

func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("expected x,y but got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geometry.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Pt(x, y), nil
}
