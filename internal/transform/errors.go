package transform

import (
	"errors"
)

var (
	// ErrInsufficientCorrespondence is returned when fewer than three point pairs are supplied.
	ErrInsufficientCorrespondence = errors.New("insufficient points")

	// ErrSingularTransform is returned when the source (or destination) points are collinear.
	ErrSingularTransform = errors.New("degenerate correspondence - collinear points")

	ErrUnbalanced    = errors.New("source and destination point counts differ")
	ErrCollectorFull = errors.New("correspondence set already complete")
)

// MinPairs is the number of pairs needed to pin down an affine transform.
const MinPairs = 3
