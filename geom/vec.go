/*package geom contains the small amount of 3D geometry needed to place
compartments and electrode contacts in space.

All lengths are in micrometers.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional vector.
type Vec [3]float64

func (v Vec) Add(u Vec) Vec { return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]} }
func (v Vec) Sub(u Vec) Vec { return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]} }
func (v Vec) Scale(s float64) Vec { return Vec{v[0] * s, v[1] * s, v[2] * s} }

func (v Vec) Dot(u Vec) float64 { return v[0]*u[0] + v[1]*u[1] + v[2]*u[2] }

// Cross returns v x u.
func (v Vec) Cross(u Vec) Vec {
	return Vec{
		v[1]*u[2] - v[2]*u[1],
		v[2]*u[0] - v[0]*u[2],
		v[0]*u[1] - v[1]*u[0],
	}
}

// Finite returns true if no component of v is NaN or infinite.
func (v Vec) Finite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vec) Norm2() float64 { return v.Dot(v) }
func (v Vec) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v scaled to unit length. The zero vector is returned as is.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Mid returns the midpoint of the segment from v to u.
func Mid(v, u Vec) Vec {
	return Vec{(v[0] + u[0]) / 2, (v[1] + u[1]) / 2, (v[2] + u[2]) / 2}
}

// Dist returns the Euclidean distance between v and u.
func Dist(v, u Vec) float64 { return v.Sub(u).Norm() }

// ClosestOnSegment returns the point on the segment from a to b which is
// closest to p, along with its distance to p. Degenerate segments collapse
// to a.
func ClosestOnSegment(p, a, b Vec) (Vec, float64) {
	ab := b.Sub(a)
	len2 := ab.Norm2()
	if len2 == 0 {
		return a, Dist(p, a)
	}

	t := p.Sub(a).Dot(ab) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	c := a.Add(ab.Scale(t))
	return c, Dist(p, c)
}

// Basis returns two unit vectors which, together with the unit vector along
// n, form a right-handed orthonormal basis (u, w, n). The result depends only
// on n.
func Basis(n Vec) (u, w Vec) {
	n = n.Unit()

	// Cross with the axis least aligned with n to stay well conditioned.
	i := 0
	for j := 1; j < 3; j++ {
		if math.Abs(n[j]) < math.Abs(n[i]) {
			i = j
		}
	}
	var axis Vec
	axis[i] = 1

	u = n.Cross(axis).Unit()
	w = n.Cross(u)
	return u, w
}
