package geometry

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// SingularTolerance bounds |det| relative to the product of the row norms
// (Hadamard's bound) below which a matrix is treated as singular.
const SingularTolerance = 1e-12

var ErrSingular = errors.New("singular matrix")

// Mat3 is a row-major 3x3 matrix acting on homogeneous column vectors [x; y; 1].
type Mat3 f64.Mat3

func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func (m Mat3) At(r, c int) float64 {
	return m[3*r+c]
}

func (m Mat3) Mul(b Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[3*r+c] = m[3*r+0]*b[3*0+c] + m[3*r+1]*b[3*1+c] + m[3*r+2]*b[3*2+c]
		}
	}
	return out
}

// Apply maps p through the matrix as the homogeneous vector [p.X; p.Y; 1].
// The result is divided through by w unless w is 0 or 1.
func (m Mat3) Apply(p Point) Point {
	x := m[0]*p.X + m[1]*p.Y + m[2]
	y := m[3]*p.X + m[4]*p.Y + m[5]
	w := m[6]*p.X + m[7]*p.Y + m[8]
	if w != 0 && w != 1 {
		x /= w
		y /= w
	}
	return Point{X: x, Y: y}
}

// Det expands along the first row.
func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Adjugate returns the transpose of the cofactor matrix.
func (m Mat3) Adjugate() Mat3 {
	return Mat3{
		m[4]*m[8] - m[5]*m[7], m[2]*m[7] - m[1]*m[8], m[1]*m[5] - m[2]*m[4],
		m[5]*m[6] - m[3]*m[8], m[0]*m[8] - m[2]*m[6], m[2]*m[3] - m[0]*m[5],
		m[3]*m[7] - m[4]*m[6], m[1]*m[6] - m[0]*m[7], m[0]*m[4] - m[1]*m[3],
	}
}

// Singular reports whether the determinant is negligible next to the
// magnitude of the rows.
func (m Mat3) Singular() bool {
	scale := 1.0
	for r := 0; r < 3; r++ {
		scale *= math.Sqrt(m[3*r]*m[3*r] + m[3*r+1]*m[3*r+1] + m[3*r+2]*m[3*r+2])
	}
	det := m.Det()
	return math.IsNaN(det) || math.Abs(det) <= SingularTolerance*scale
}

// Inverse uses Cramer's rule: adj(m) / det(m).
func (m Mat3) Inverse() (Mat3, error) {
	if m.Singular() {
		return Mat3{}, fmt.Errorf("%w: det=%g", ErrSingular, m.Det())
	}
	det := m.Det()
	adj := m.Adjugate()
	for i := range adj {
		adj[i] /= det
	}
	return adj, nil
}

func (m Mat3) ApproxEqual(other Mat3, tol float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

func (m Mat3) String() string {
	str := fmt.Sprintf("[%10f, %10f, %10f]\n", m[0], m[1], m[2])
	str += fmt.Sprintf("[%10f, %10f, %10f]\n", m[3], m[4], m[5])
	str += fmt.Sprintf("[%10f, %10f, %10f]", m[6], m[7], m[8])
	return str
}
