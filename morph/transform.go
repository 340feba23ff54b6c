package morph

import (
	"github.com/phil-mansfield/lfpcalc/geom"
)

// mapPoints returns a copy of m with f applied to every start and end point.
func (m *Morphology) mapPoints(f func(geom.Vec) geom.Vec) *Morphology {
	out := &Morphology{
		comps: make([]Compartment, len(m.comps)),
		areas: m.areas,
	}
	copy(out.comps, m.comps)
	for i := range out.comps {
		c := &out.comps[i]
		c.Start, c.End = f(c.Start), f(c.End)
	}
	return out
}

// Translate returns a copy of m shifted by d.
func (m *Morphology) Translate(d geom.Vec) *Morphology {
	return m.mapPoints(func(v geom.Vec) geom.Vec { return v.Add(d) })
}

// SetPos returns a copy of m translated so that the soma midpoint is at p.
func (m *Morphology) SetPos(p geom.Vec) *Morphology {
	return m.Translate(p.Sub(m.SomaPos()))
}

// Rotate returns a copy of m rotated about the soma midpoint by the Euler
// angles phi, theta, and psi (around the x, y, and z axes, respectively).
func (m *Morphology) Rotate(phi, theta, psi float64) *Morphology {
	rot := geom.EulerMatrix(phi, theta, psi)
	c := m.SomaPos()
	return m.mapPoints(func(v geom.Vec) geom.Vec { return v.RotateAbout(rot, c) })
}

// SqueezeZ returns a copy of m with z coordinates compressed toward the
// soma midpoint by factor. Areas are kept as they were, since the
// compression only serves to fit the cell into a finite volume.
func (m *Morphology) SqueezeZ(factor float64) *Morphology {
	z0 := m.SomaPos()[2]
	return m.mapPoints(func(v geom.Vec) geom.Vec {
		v[2] = (v[2]-z0)*factor + z0
		return v
	})
}
