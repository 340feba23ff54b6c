package lfp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// CurrentSeries is the output of a simulation run: the transmembrane current
// (nA) of N compartments at T times (ms). It is never modified after
// construction.
type CurrentSeries struct {
	imem *mat.Dense
	t    []float64
}

// NewCurrentSeries copies an N x T current matrix and its T time stamps into
// a CurrentSeries. t may be nil if the times are not needed.
func NewCurrentSeries(imem mat.Matrix, t []float64) (*CurrentSeries, error) {
	_, nt := imem.Dims()
	if t != nil && len(t) != nt {
		return nil, fmt.Errorf(
			"%w: %d time stamps for %d current samples",
			ErrDimension, len(t), nt,
		)
	}

	cs := &CurrentSeries{imem: mat.DenseCopyOf(imem)}
	if t != nil {
		cs.t = append([]float64{}, t...)
	}
	return cs, nil
}

// Dims returns the number of compartments and of time samples.
func (cs *CurrentSeries) Dims() (n, t int) { return cs.imem.Dims() }

// Currents returns the N x T current matrix. It must not be modified.
func (cs *CurrentSeries) Currents() mat.Matrix { return cs.imem }

// Times returns a copy of the time stamps.
func (cs *CurrentSeries) Times() []float64 { return copyTimes(cs.t) }

// PotentialSeries holds the potential (mV) at M contacts over T times (ms).
type PotentialSeries struct {
	phi *mat.Dense
	t   []float64
}

// Dims returns the number of contacts and of time samples.
func (ps *PotentialSeries) Dims() (m, t int) { return ps.phi.Dims() }

// Potentials returns the M x T potential matrix. It must not be modified.
func (ps *PotentialSeries) Potentials() mat.Matrix { return ps.phi }

// At returns the potential at contact j and time sample k.
func (ps *PotentialSeries) At(j, k int) float64 { return ps.phi.At(j, k) }

// Contact returns a copy of the potential trace at contact j.
func (ps *PotentialSeries) Contact(j int) []float64 {
	return mat.Row(nil, j, ps.phi)
}

// Times returns a copy of the time stamps.
func (ps *PotentialSeries) Times() []float64 { return copyTimes(ps.t) }

func copyTimes(t []float64) []float64 {
	if t == nil {
		return nil
	}
	return append([]float64{}, t...)
}

// Apply multiplies an M x N coefficient matrix by the currents of cs. The
// coefficients may come from an Engine or be any other linear map of
// compartment currents, e.g. a set of basis patterns.
func Apply(coeffs mat.Matrix, cs *CurrentSeries) (*PotentialSeries, error) {
	m, n := coeffs.Dims()
	cn, nt := cs.imem.Dims()
	if n != cn {
		return nil, fmt.Errorf(
			"%w: coefficients cover %d compartments, but currents cover %d",
			ErrDimension, n, cn,
		)
	}

	phi := mat.NewDense(m, nt, nil)
	phi.Mul(coeffs, cs.imem)
	return &PotentialSeries{phi: phi, t: cs.t}, nil
}
