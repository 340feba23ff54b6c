/*package lfp computes extracellular potentials generated by the
transmembrane currents of a compartmentalized cell.

The mapping from compartment currents to contact potentials is linear and
depends only on geometry and on the medium, so an Engine computes it once as
an M x N coefficient matrix which can then be applied to any number of
current time series.

Units: lengths in um, conductivities in S/m, currents in nA, and potentials
in mV.
*/
package lfp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/lfpcalc/geom"
)

var (
	// ErrConfiguration is returned for invalid media, contacts, or methods.
	ErrConfiguration = errors.New("lfp: invalid configuration")
	// ErrGeometryRange is returned when a cell or contact lies outside of a
	// Layered medium's slice.
	ErrGeometryRange = errors.New("lfp: geometry outside of slice")
	// ErrDimension is returned when matrix shapes don't match.
	ErrDimension = errors.New("lfp: dimension mismatch")
)

// Geometry is the shape of a cell, as produced by the simulator. Compartment
// 0 must be the soma. *morph.Morphology satisfies it.
type Geometry interface {
	Len() int
	Segment(i int) (start, end geom.Vec, diam float64)
}

// Config describes how an Engine maps currents to potentials.
type Config struct {
	Sigma    Conductivity
	Contacts []Contact
	Method   Method
	// Source draws the sample points of averaged contacts. It is only used
	// during New.
	Source Source
}

// Engine holds the coefficient matrix of a fixed cell, medium, and set of
// contacts. It is safe for concurrent use.
type Engine struct {
	method   Method
	sigma    Conductivity
	contacts []Contact
	points   [][]geom.Vec
	coeffs   *mat.Dense
}

func (cfg *Config) check() error {
	if cfg.Sigma == nil {
		return fmt.Errorf("%w: no conductivity given", ErrConfiguration)
	} else if err := cfg.Sigma.validate(); err != nil {
		return err
	}

	if len(cfg.Contacts) == 0 {
		return fmt.Errorf("%w: no contacts given", ErrConfiguration)
	}
	for j := range cfg.Contacts {
		if err := cfg.Contacts[j].check(j, cfg.Source); err != nil {
			return err
		}
	}
	return nil
}

func segments(g Geometry) ([]segment, error) {
	segs := make([]segment, g.Len())
	for i := range segs {
		start, end, diam := g.Segment(i)
		if !start.Finite() || !end.Finite() {
			return nil, fmt.Errorf(
				"%w: compartment %d runs from %v to %v",
				ErrConfiguration, i, start, end,
			)
		} else if !(diam >= 0) || math.IsInf(diam, 0) {
			return nil, fmt.Errorf(
				"%w: compartment %d has diameter %g", ErrConfiguration, i, diam,
			)
		}
		segs[i] = segment{
			start: start, end: end, mid: geom.Mid(start, end), rLimit: diam / 2,
		}
	}
	return segs, nil
}

// New computes the coefficient matrix of the cell g under cfg. It fails with
// ErrConfiguration for invalid parameters and with ErrGeometryRange if g or
// a contact doesn't fit into a Layered medium. g is not retained.
func New(g Geometry, cfg *Config) (*Engine, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if g.Len() == 0 {
		return nil, fmt.Errorf("%w: cell has no compartments", ErrConfiguration)
	}
	segs, err := segments(g)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		method:   cfg.Method,
		sigma:    cfg.Sigma,
		contacts: append([]Contact{}, cfg.Contacts...),
		points:   make([][]geom.Vec, len(cfg.Contacts)),
	}
	for j := range e.contacts {
		e.points[j] = e.contacts[j].samplePoints(cfg.Source)
	}

	if slice, ok := cfg.Sigma.(Layered); ok {
		if err := slice.fit(segs); err != nil {
			return nil, err
		}
		if err := slice.checkContacts(e.points); err != nil {
			return nil, err
		}
	}

	point, line := cfg.Sigma.kernels()
	ks, err := cfg.Method.sources(len(segs), point, line)
	if err != nil {
		return nil, err
	}

	e.coeffs = mat.NewDense(len(e.contacts), len(segs), nil)
	for j, pts := range e.points {
		for i := range segs {
			sum := 0.0
			for _, p := range pts {
				sum += ks[i](p, &segs[i])
			}
			val := sum / float64(len(pts))

			if math.IsNaN(val) || math.IsInf(val, 0) {
				return nil, fmt.Errorf(
					"%w: contact %d touches compartment %d, which has no "+
						"radius", ErrConfiguration, j, i,
				)
			}
			e.coeffs.Set(j, i, val)
		}
	}

	return e, nil
}

// Coefficients returns the M x N matrix mapping compartment currents to
// contact potentials. It is shared, so it must not be modified.
func (e *Engine) Coefficients() *mat.Dense { return e.coeffs }

// Apply returns the potentials generated by cs.
func (e *Engine) Apply(cs *CurrentSeries) (*PotentialSeries, error) {
	return Apply(e.coeffs, cs)
}

func (e *Engine) Method() Method       { return e.method }
func (e *Engine) Medium() Conductivity { return e.sigma }

// Contacts returns a copy of the engine's contacts.
func (e *Engine) Contacts() []Contact { return append([]Contact{}, e.contacts...) }

// SamplePoints returns a copy of the points at which contact j's potential
// was evaluated.
func (e *Engine) SamplePoints(j int) []geom.Vec {
	return append([]geom.Vec{}, e.points[j]...)
}
