package lfp

import (
	"math"

	"github.com/phil-mansfield/lfpcalc/geom"
)

// segment is a compartment as seen by a kernel.
type segment struct {
	start, end, mid geom.Vec
	// rLimit is the closest a contact is allowed to get to the segment,
	// usually its radius.
	rLimit float64
}

// kernel returns the potential (mV) at p generated by a unit current (nA)
// leaving the membrane of s.
type kernel func(p geom.Vec, s *segment) float64

func isoPoint(sigma float64) kernel {
	c := 1 / (4 * math.Pi * sigma)
	return func(p geom.Vec, s *segment) float64 {
		r := geom.Dist(p, s.mid)
		if r < s.rLimit {
			r = s.rLimit
		}
		return c / r
	}
}

// isoLine integrates 1/r along the segment. h is the signed distance of p
// along the segment's axis past its end point, l = h + |s| is the same
// distance measured from the start point, and r2 is the squared distance
// from p to the axis.
func isoLine(sigma float64) kernel {
	point := isoPoint(sigma)
	c := 1 / (4 * math.Pi * sigma)
	return func(p geom.Vec, s *segment) float64 {
		axis := s.end.Sub(s.start)
		ds := axis.Norm()
		if ds == 0 {
			return point(p, s)
		}

		pe := p.Sub(s.end)
		h := pe.Dot(axis) / ds
		r2 := math.Abs(pe.Norm2() - h*h)
		l := h + ds

		rl := s.rLimit
		if r2 < rl*rl && h < rl && l > -rl {
			r2 = rl * rl
		}

		var integral float64
		switch {
		case h < 0 && l < 0:
			integral = math.Log(
				(math.Sqrt(h*h+r2) - h) / (math.Sqrt(l*l+r2) - l),
			)
		case h < 0:
			integral = math.Log(
				(math.Sqrt(h*h+r2) - h) * (l + math.Sqrt(l*l+r2)) / r2,
			)
		default:
			integral = math.Log(
				(math.Sqrt(l*l+r2) + l) / (math.Sqrt(h*h+r2) + h),
			)
		}
		return c * integral / ds
	}
}

// anisoWeights returns the products of conductivities which weight each
// axis in the anisotropic Green's function,
// 1 / (4 pi sqrt(sy sz x^2 + sx sz y^2 + sx sy z^2)).
func anisoWeights(sigma [3]float64) geom.Vec {
	return geom.Vec{sigma[1] * sigma[2], sigma[0] * sigma[2], sigma[0] * sigma[1]}
}

func weightedDot(w, a, b geom.Vec) float64 {
	return w[0]*a[0]*b[0] + w[1]*a[1]*b[1] + w[2]*a[2]*b[2]
}

func anisoPoint(sigma [3]float64) kernel {
	w := anisoWeights(sigma)
	return func(p geom.Vec, s *segment) float64 {
		d := p.Sub(s.mid)
		// Contacts which are too close are pushed out along the direction
		// they already lie in, since the distance is direction dependent.
		if r := d.Norm(); r < s.rLimit {
			if r == 0 {
				d = geom.Vec{s.rLimit, 0, 0}
			} else {
				d = d.Scale(s.rLimit / r)
			}
		}
		return 1 / (4 * math.Pi * math.Sqrt(weightedDot(w, d, d)))
	}
}

// anisoLine integrates the anisotropic Green's function along the segment,
// parameterized as start + t*(end - start) for t in [0, 1]. Under that
// parameterization the weighted squared distance is a*t^2 + b*t + c.
func anisoLine(sigma [3]float64) kernel {
	w := anisoWeights(sigma)
	point := anisoPoint(sigma)
	return func(p geom.Vec, s *segment) float64 {
		L := s.end.Sub(s.start)
		if L.Norm2() == 0 {
			return point(p, s)
		}

		closest, r := geom.ClosestOnSegment(p, s.start, s.end)
		if r < s.rLimit {
			if r < 1e-12 {
				u, _ := geom.Basis(L)
				p = closest.Add(u.Scale(s.rLimit))
			} else {
				p = p.Add(p.Sub(closest).Scale((s.rLimit - r) / r))
			}
		}

		d := p.Sub(s.start)
		a := weightedDot(w, L, L)
		b := -2 * weightedDot(w, d, L)
		c := weightedDot(w, d, d)
		disc := 4 * (w[0]*w[1]*sq(L[0]*d[1]-L[1]*d[0]) +
			w[0]*w[2]*sq(L[0]*d[2]-L[2]*d[0]) +
			w[1]*w[2]*sq(L[1]*d[2]-L[2]*d[1]))

		return quadIntegral(a, b, c, disc) / (4 * math.Pi)
	}
}

func sq(x float64) float64 { return x * x }

// quadIntegral returns the integral of 1/sqrt(a t^2 + b t + c) over
// t in [0, 1], where a > 0 and disc = 4ac - b^2 >= 0. The antiderivative
// log(2 sqrt(a q(t)) + 2at + b) / sqrt(a) is rewritten on whichever side of
// the vertex avoids cancellation.
func quadIntegral(a, b, c, disc float64) float64 {
	sa := math.Sqrt(a)
	u0, u1 := b, 2*a+b
	s0, s1 := 2*math.Sqrt(a*c), 2*math.Sqrt(a*(a+b+c))

	switch {
	case u0 >= 0:
		return math.Log((s1+u1)/(s0+u0)) / sa
	case u1 <= 0:
		return math.Log((s0-u0)/(s1-u1)) / sa
	default:
		return math.Log((s1+u1)*(s0-u0)/disc) / sa
	}
}
