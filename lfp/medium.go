package lfp

import (
	"fmt"
	"math"
)

// DefaultSteps is the number of image orders used by a Layered medium which
// doesn't set Steps.
const DefaultSteps = 20

// Conductivity describes the extracellular medium. It is implemented by
// Isotropic, Anisotropic, and Layered, and by nothing else.
type Conductivity interface {
	validate() error
	// kernels returns the potential of a point source and of a line source.
	kernels() (point, line kernel)
}

// Isotropic is an infinite homogeneous medium with conductivity Sigma (S/m).
type Isotropic struct {
	Sigma float64
}

// Anisotropic is an infinite homogeneous medium whose conductivity tensor is
// diagonal, with entries Sigma (S/m) along x, y, and z.
type Anisotropic struct {
	Sigma [3]float64
}

// Layered is a slice of tissue lying on a planar electrode array. The
// electrode plane is at z = ZShift, the tissue fills
// ZShift <= z <= ZShift + H, and saline covers it from above.
type Layered struct {
	// SigmaT, SigmaS, and SigmaG are the conductivities of the tissue, the
	// saline, and the electrode plane. The plane is usually an insulator
	// (SigmaG = 0).
	SigmaT, SigmaS, SigmaG float64
	H, ZShift              float64
	// Steps is the number of orders of images kept.
	Steps int
	// SqueezeFactor, if positive, compresses cells which stick out of the
	// slice in z about their soma before giving up on them.
	SqueezeFactor float64
}

// ConductivityFromSlice returns an Isotropic medium for one value and an
// Anisotropic medium for three.
func ConductivityFromSlice(sigma []float64) (Conductivity, error) {
	switch len(sigma) {
	case 1:
		return Isotropic{sigma[0]}, nil
	case 3:
		return Anisotropic{[3]float64{sigma[0], sigma[1], sigma[2]}}, nil
	}
	return nil, fmt.Errorf(
		"%w: sigma must have 1 or 3 entries, but has %d",
		ErrConfiguration, len(sigma),
	)
}

func positive(x float64) bool { return x > 0 && !math.IsInf(x, 0) }

func nonNegative(x float64) bool { return x >= 0 && !math.IsInf(x, 0) }

func (m Isotropic) validate() error {
	if !positive(m.Sigma) {
		return fmt.Errorf(
			"%w: conductivity must be positive, not %g", ErrConfiguration, m.Sigma,
		)
	}
	return nil
}

func (m Isotropic) kernels() (point, line kernel) {
	return isoPoint(m.Sigma), isoLine(m.Sigma)
}

func (m Anisotropic) validate() error {
	for i, s := range m.Sigma {
		if !positive(s) {
			return fmt.Errorf(
				"%w: conductivity along axis %d must be positive, not %g",
				ErrConfiguration, i, s,
			)
		}
	}
	return nil
}

func (m Anisotropic) kernels() (point, line kernel) {
	if m.Sigma[0] == m.Sigma[1] && m.Sigma[1] == m.Sigma[2] {
		return Isotropic{m.Sigma[0]}.kernels()
	}
	return anisoPoint(m.Sigma), anisoLine(m.Sigma)
}

func (m Layered) validate() error {
	switch {
	case !positive(m.SigmaT):
		return fmt.Errorf(
			"%w: tissue conductivity must be positive, not %g",
			ErrConfiguration, m.SigmaT,
		)
	case !nonNegative(m.SigmaS):
		return fmt.Errorf(
			"%w: saline conductivity must be non-negative, not %g",
			ErrConfiguration, m.SigmaS,
		)
	case !nonNegative(m.SigmaG):
		return fmt.Errorf(
			"%w: electrode plane conductivity must be non-negative, not %g",
			ErrConfiguration, m.SigmaG,
		)
	case !positive(m.H):
		return fmt.Errorf(
			"%w: slice thickness must be positive, not %g", ErrConfiguration, m.H,
		)
	case math.IsNaN(m.ZShift) || math.IsInf(m.ZShift, 0):
		return fmt.Errorf("%w: invalid slice offset %g", ErrConfiguration, m.ZShift)
	case m.Steps < 0:
		return fmt.Errorf(
			"%w: image steps must be positive, not %d", ErrConfiguration, m.Steps,
		)
	case !(m.SqueezeFactor >= 0 && m.SqueezeFactor <= 1):
		return fmt.Errorf(
			"%w: squeeze factor must be in [0, 1], not %g",
			ErrConfiguration, m.SqueezeFactor,
		)
	}
	return nil
}

func (m Layered) kernels() (point, line kernel) {
	imgs := m.images()
	return m.imageKernel(isoPoint(m.SigmaT), imgs),
		m.imageKernel(isoLine(m.SigmaT), imgs)
}
