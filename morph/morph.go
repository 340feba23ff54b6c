/*package morph describes the geometry of a compartmentalized neuron.

A Morphology is an immutable, ordered set of compartments. Compartment 0 is
the soma. Operations which move the cell return a new Morphology and leave
compartment indices untouched, so index-aligned data (membrane currents,
synapse locations) stays valid across them.
*/
package morph

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/lfpcalc/geom"
)

var (
	// ErrInvalidCompartment is returned for compartments with inconsistent
	// indices or non-positive area.
	ErrInvalidCompartment = errors.New("morph: invalid compartment")
	// ErrNoCompartments is returned when a selection contains nothing.
	ErrNoCompartments = errors.New("morph: no compartments selected")
)

// SomaIdx is the index of the soma compartment.
const SomaIdx = 0

// Compartment is a single isopotential piece of the cell.
type Compartment struct {
	Idx     int
	Section string
	Start   geom.Vec
	End     geom.Vec
	Diam    float64
	// Area is the membrane surface area in um^2.
	Area float64
}

// Length returns the distance between the start and end points.
func (c *Compartment) Length() float64 { return geom.Dist(c.Start, c.End) }

// Mid returns the midpoint of the compartment.
func (c *Compartment) Mid() geom.Vec { return geom.Mid(c.Start, c.End) }

// Morphology is an ordered set of compartments.
type Morphology struct {
	comps []Compartment
	areas []float64
}

// New validates comps and returns a Morphology holding a copy of them.
// Compartments with zero area get the lateral area of a cylinder with their
// length and diameter.
func New(comps []Compartment) (*Morphology, error) {
	if len(comps) == 0 {
		return nil, fmt.Errorf("%w: empty morphology", ErrInvalidCompartment)
	}

	m := &Morphology{
		comps: make([]Compartment, len(comps)),
		areas: make([]float64, len(comps)),
	}
	copy(m.comps, comps)

	for i := range m.comps {
		c := &m.comps[i]
		if c.Idx != i {
			return nil, fmt.Errorf(
				"%w: compartment %d has index %d",
				ErrInvalidCompartment, i, c.Idx,
			)
		} else if !c.Start.Finite() || !c.End.Finite() {
			return nil, fmt.Errorf(
				"%w: compartment %d runs from %v to %v",
				ErrInvalidCompartment, i, c.Start, c.End,
			)
		} else if !(c.Diam >= 0) || math.IsInf(c.Diam, 0) {
			return nil, fmt.Errorf(
				"%w: compartment %d has diameter %g",
				ErrInvalidCompartment, i, c.Diam,
			)
		}

		if c.Area == 0 {
			c.Area = math.Pi * c.Diam * c.Length()
		}
		if !(c.Area > 0) || math.IsInf(c.Area, 0) {
			return nil, fmt.Errorf(
				"%w: compartment %d has area %g",
				ErrInvalidCompartment, i, c.Area,
			)
		}
		m.areas[i] = c.Area
	}

	return m, nil
}

// Stick returns a straight, unbranched cable from start to end split into n
// equal compartments of the given diameter. It is mostly useful for tests
// and analytic comparisons.
func Stick(start, end geom.Vec, diam float64, n int) (*Morphology, error) {
	if n <= 0 {
		return nil, fmt.Errorf(
			"%w: stick needs a positive compartment count, not %d",
			ErrInvalidCompartment, n,
		)
	}

	comps := make([]Compartment, n)
	step := end.Sub(start).Scale(1 / float64(n))
	for i := range comps {
		comps[i] = Compartment{
			Idx:     i,
			Section: "stick",
			Start:   start.Add(step.Scale(float64(i))),
			End:     start.Add(step.Scale(float64(i + 1))),
			Diam:    diam,
		}
	}
	return New(comps)
}

// Len returns the number of compartments.
func (m *Morphology) Len() int { return len(m.comps) }

// Compartment returns a copy of compartment i.
func (m *Morphology) Compartment(i int) Compartment { return m.comps[i] }

// Segment returns the end points and diameter of compartment i.
func (m *Morphology) Segment(i int) (start, end geom.Vec, diam float64) {
	c := &m.comps[i]
	return c.Start, c.End, c.Diam
}

// Mid returns the midpoint of compartment i.
func (m *Morphology) Mid(i int) geom.Vec { return m.comps[i].Mid() }

// SomaPos returns the midpoint of the soma.
func (m *Morphology) SomaPos() geom.Vec { return m.Mid(SomaIdx) }

// Areas returns a copy of the compartment areas, in index order.
func (m *Morphology) Areas() []float64 {
	out := make([]float64, len(m.areas))
	copy(out, m.areas)
	return out
}

// TotalArea returns the membrane area of the whole cell.
func (m *Morphology) TotalArea() float64 { return floats.Sum(m.areas) }

// ZRange returns the lowest and highest z coordinates reached by the cell,
// including the radius of each compartment.
func (m *Morphology) ZRange() (zMin, zMax float64) {
	zMin, zMax = math.Inf(+1), math.Inf(-1)
	for i := range m.comps {
		c := &m.comps[i]
		r := c.Diam / 2
		zMin = math.Min(zMin, math.Min(c.Start[2], c.End[2])-r)
		zMax = math.Max(zMax, math.Max(c.Start[2], c.End[2])+r)
	}
	return zMin, zMax
}
