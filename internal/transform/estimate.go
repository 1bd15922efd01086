// Package transform estimates affine transforms from point correspondences.
package transform

import (
	"fmt"

	"github.com/rm-hull/affine-warp/internal/geometry"
)

// Affine is an estimated transform. Forward maps source space to destination
// space; the inverse is what an output-driven warp needs and is computed once
// alongside it.
type Affine struct {
	forward geometry.Mat3
	inverse geometry.Mat3
}

func (a *Affine) Forward() geometry.Mat3 { return a.forward }
func (a *Affine) Inverse() geometry.Mat3 { return a.inverse }

func (a *Affine) Apply(p geometry.Point) geometry.Point   { return a.forward.Apply(p) }
func (a *Affine) Unapply(p geometry.Point) geometry.Point { return a.inverse.Apply(p) }

// Estimate derives the affine matrix M with M·S_i = D_i. Three pairs are solved
// exactly; more are fitted by least squares. The set is not retained, so a
// changed set needs a fresh call.
func Estimate(c Correspondences) (*Affine, error) {
	if len(c) < MinPairs {
		return nil, fmt.Errorf("%w: have %d pairs, need %d", ErrInsufficientCorrespondence, len(c), MinPairs)
	}

	var (
		forward geometry.Mat3
		err     error
	)
	if len(c) == MinPairs {
		forward, err = solveExact(c)
	} else {
		forward, err = solveLeastSquares(c)
	}
	if err != nil {
		return nil, err
	}

	// The homogeneous row is [0 0 1] by construction, pin it against rounding.
	forward[6], forward[7], forward[8] = 0, 0, 1

	inverse, err := forward.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: destination points: %w", ErrSingularTransform, err)
	}

	return &Affine{forward: forward, inverse: inverse}, nil
}

// FromMatrix wraps an already known forward matrix.
func FromMatrix(forward geometry.Mat3) (*Affine, error) {
	inverse, err := forward.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularTransform, err)
	}
	return &Affine{forward: forward, inverse: inverse}, nil
}

// homogeneous lays out three points as the columns of a 3x3 matrix with a row of ones.
func homogeneous(a, b, c geometry.Point) geometry.Mat3 {
	return geometry.Mat3{
		a.X, b.X, c.X,
		a.Y, b.Y, c.Y,
		1, 1, 1,
	}
}

// solveExact applies Cramer's rule: M = D·adj(A) / det(A). Dividing once at
// the end keeps integer-valued correspondences exact.
func solveExact(c Correspondences) (geometry.Mat3, error) {
	a := homogeneous(c[0].Src, c[1].Src, c[2].Src)
	d := homogeneous(c[0].Dst, c[1].Dst, c[2].Dst)
	return rightDivide(d, a)
}

// solveLeastSquares fits the linear part on centroid-relative coordinates,
// L = Σ(d-d̄)(s-s̄)ᵀ · (Σ(s-s̄)(s-s̄)ᵀ)⁻¹, then recovers the translation as
// d̄ - L·s̄. Centring keeps the conditioning independent of where the points
// sit in the image.
func solveLeastSquares(c Correspondences) (geometry.Mat3, error) {
	sc := centroid(c.Sources())
	dc := centroid(c.Destinations())

	scatter := geometry.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 1}
	cross := geometry.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 1}
	for _, pair := range c {
		s := pair.Src.Sub(sc)
		d := pair.Dst.Sub(dc)
		scatter[0] += s.X * s.X
		scatter[1] += s.X * s.Y
		scatter[3] += s.Y * s.X
		scatter[4] += s.Y * s.Y
		cross[0] += d.X * s.X
		cross[1] += d.X * s.Y
		cross[3] += d.Y * s.X
		cross[4] += d.Y * s.Y
	}

	m, err := rightDivide(cross, scatter)
	if err != nil {
		return geometry.Mat3{}, err
	}
	m[2] = dc.X - (m[0]*sc.X + m[1]*sc.Y)
	m[5] = dc.Y - (m[3]*sc.X + m[4]*sc.Y)
	return m, nil
}

func centroid(pts []geometry.Point) geometry.Point {
	var sum geometry.Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(pts)))
}

// rightDivide returns num·den⁻¹.
func rightDivide(num, den geometry.Mat3) (geometry.Mat3, error) {
	if den.Singular() {
		return geometry.Mat3{}, fmt.Errorf("%w: source points: %w (det=%g)", ErrSingularTransform, geometry.ErrSingular, den.Det())
	}
	det := den.Det()
	m := num.Mul(den.Adjugate())
	for i := range m {
		m[i] /= det
	}
	return m, nil
}

// Residuals returns |M·S_i - D_i| for each pair.
func Residuals(a *Affine, c Correspondences) []float64 {
	res := make([]float64, len(c))
	for i, pair := range c {
		res[i] = a.Apply(pair.Src).Distance(pair.Dst)
	}
	return res
}
