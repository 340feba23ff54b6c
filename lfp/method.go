package lfp

import (
	"fmt"
	"strings"
)

// Method is the approximation used for the spatial extent of a
// compartment's current.
type Method int

const (
	// PointSource puts each compartment's current at its midpoint.
	PointSource Method = iota
	// LineSource spreads each compartment's current uniformly along it.
	LineSource
	// SomaAsPoint uses a point source for the soma and line sources
	// everywhere else.
	SomaAsPoint
)

var methodNames = map[Method]string{
	PointSource: "pointsource",
	LineSource:  "linesource",
	SomaAsPoint: "soma_as_point",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod converts a method name to a Method. Both "pointsource" and
// "point_source" spellings are accepted.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pointsource", "point_source":
		return PointSource, nil
	case "linesource", "line_source":
		return LineSource, nil
	case "soma_as_point", "somaaspoint":
		return SomaAsPoint, nil
	}
	return 0, fmt.Errorf("%w: unknown method '%s'", ErrConfiguration, name)
}

// sources picks the kernel used for each of n compartments.
func (m Method) sources(n int, point, line kernel) ([]kernel, error) {
	ks := make([]kernel, n)
	switch m {
	case PointSource:
		for i := range ks {
			ks[i] = point
		}
	case LineSource:
		for i := range ks {
			ks[i] = line
		}
	case SomaAsPoint:
		for i := range ks {
			ks[i] = line
		}
		ks[0] = point
	default:
		return nil, fmt.Errorf("%w: unknown method %d", ErrConfiguration, int(m))
	}
	return ks, nil
}
