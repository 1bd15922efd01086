package transform

import (
	"fmt"
	"sync"

	"github.com/rm-hull/affine-warp/internal/geometry"
)

// Collector accumulates points as they are picked, e.g. from mouse clicks, and
// hands over a frozen Correspondences once complete. It supports two capture
// styles: explicit source/destination points (left and right click), or
// triangle mode where the first three points are the source corners and the
// next three the destination corners.
type Collector struct {
	mu  sync.Mutex
	src []geometry.Point
	dst []geometry.Point
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) AddSource(p geometry.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.src = append(c.src, p)
}

func (c *Collector) AddDestination(p geometry.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dst = append(c.dst, p)
}

// Add records a point in triangle mode.
func (c *Collector) Add(p geometry.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case len(c.src) < MinPairs:
		c.src = append(c.src, p)
	case len(c.dst) < MinPairs:
		c.dst = append(c.dst, p)
	default:
		return ErrCollectorFull
	}
	return nil
}

// Ready reports whether Freeze would succeed.
func (c *Collector) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.src) == len(c.dst) && len(c.src) >= MinPairs
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.src = nil
	c.dst = nil
}

// Freeze pairs the collected points by index. The returned set does not share
// memory with the collector.
func (c *Collector) Freeze() (Correspondences, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := min(len(c.src), len(c.dst))
	if n < MinPairs {
		return nil, fmt.Errorf("%w: have %d complete pairs, need %d", ErrInsufficientCorrespondence, n, MinPairs)
	}
	if len(c.src) != len(c.dst) {
		return nil, fmt.Errorf("%w: %d source, %d destination", ErrUnbalanced, len(c.src), len(c.dst))
	}

	pairs := make(Correspondences, n)
	for i := range pairs {
		pairs[i] = Pair{Src: c.src[i], Dst: c.dst[i]}
	}
	return pairs, nil
}
