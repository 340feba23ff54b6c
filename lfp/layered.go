package lfp

import (
	"fmt"

	"github.com/phil-mansfield/lfpcalc/geom"
)

// image is one term of the method of images. Rather than moving the source,
// the contact is moved: its height above the electrode plane is optionally
// mirrored and then shifted. Reflections and translations along z preserve
// distances, so the homogeneous kernels can be reused unchanged.
type image struct {
	w     float64
	flip  bool
	shift float64
}

func (m Layered) steps() int {
	if m.Steps == 0 {
		return DefaultSteps
	}
	return m.Steps
}

// images returns the non-vanishing image terms of the slice.
func (m Layered) images() []image {
	wts := (m.SigmaT - m.SigmaS) / (m.SigmaT + m.SigmaS)
	wtg := (m.SigmaT - m.SigmaG) / (m.SigmaT + m.SigmaG)
	h := m.H

	imgs := []image{
		{1, false, 0},
		{wts, true, 2 * h},
		{wtg, true, 0},
	}

	wn := 1.0
	for n := 1; n < m.steps(); n++ {
		wn *= wts * wtg
		fn := float64(n)
		imgs = append(imgs,
			image{wts * wn, true, 2 * (fn + 1) * h},
			image{wtg * wn, true, -2 * fn * h},
			image{wn, false, 2 * fn * h},
			image{wn, false, -2 * fn * h},
		)
	}

	out := imgs[:0]
	for _, im := range imgs {
		if im.w != 0 {
			out = append(out, im)
		}
	}
	return out
}

func (m Layered) imageKernel(base kernel, imgs []image) kernel {
	return func(p geom.Vec, s *segment) float64 {
		sum := 0.0
		for _, im := range imgs {
			z := p[2] - m.ZShift
			if im.flip {
				z = -z
			}
			q := p
			q[2] = z + im.shift + m.ZShift
			sum += im.w * base(q, s)
		}
		return sum
	}
}

func (m Layered) inSlice(zLo, zHi float64) bool {
	return zLo >= m.ZShift && zHi <= m.ZShift+m.H
}

func segmentsZRange(segs []segment) (zLo, zHi float64) {
	zLo, zHi = segs[0].mid[2], segs[0].mid[2]
	for i := range segs {
		s := &segs[i]
		for _, z := range []float64{s.start[2], s.end[2]} {
			if z-s.rLimit < zLo {
				zLo = z - s.rLimit
			}
			if z+s.rLimit > zHi {
				zHi = z + s.rLimit
			}
		}
	}
	return zLo, zHi
}

// fit checks that the cell lies within the slice, squeezing it about the
// soma if allowed. segs is modified in place.
func (m Layered) fit(segs []segment) error {
	zLo, zHi := segmentsZRange(segs)
	if m.inSlice(zLo, zHi) {
		return nil
	}

	if m.SqueezeFactor > 0 {
		z0 := segs[0].mid[2]
		squeeze := func(v geom.Vec) geom.Vec {
			v[2] = (v[2]-z0)*m.SqueezeFactor + z0
			return v
		}
		for i := range segs {
			s := &segs[i]
			s.start, s.end = squeeze(s.start), squeeze(s.end)
			s.mid = geom.Mid(s.start, s.end)
		}

		zLo, zHi = segmentsZRange(segs)
		if m.inSlice(zLo, zHi) {
			return nil
		}
	}

	return fmt.Errorf(
		"%w: cell spans z = [%g, %g], but the slice spans [%g, %g]",
		ErrGeometryRange, zLo, zHi, m.ZShift, m.ZShift+m.H,
	)
}

// checkContacts returns an error if any evaluation point is outside of the
// slice.
func (m Layered) checkContacts(points [][]geom.Vec) error {
	for j := range points {
		for _, p := range points[j] {
			if !m.inSlice(p[2], p[2]) {
				return fmt.Errorf(
					"%w: contact %d has a point at z = %g, but the slice "+
						"spans [%g, %g]",
					ErrGeometryRange, j, p[2], m.ZShift, m.ZShift+m.H,
				)
			}
		}
	}
	return nil
}
