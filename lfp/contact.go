package lfp

import (
	"fmt"
	"math"
	"strings"

	"github.com/phil-mansfield/lfpcalc/geom"
)

// Source is a stream of uniform random numbers in [0, 1). *rand.Rand from
// math/rand satisfies it.
type Source interface {
	Float64() float64
}

// Shape is the shape of a contact's surface.
type Shape int

const (
	Disc Shape = iota
	// Square contacts have side length 2*Radius.
	Square
)

// ParseShape converts "circle", "disc", or "square" to a Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle", "disc", "disk", "":
		return Disc, nil
	case "square":
		return Square, nil
	}
	return 0, fmt.Errorf("%w: unknown contact shape '%s'", ErrConfiguration, name)
}

// Contact is a single recording site.
type Contact struct {
	Pos geom.Vec
	// If Points > 0, the potential is averaged over Points random locations
	// on a flat contact of the given Radius and Shape whose surface is
	// perpendicular to Normal.
	Radius float64
	Normal geom.Vec
	Points int
	Shape  Shape
}

func (c *Contact) averaged() bool { return c.Points > 0 }

func (c *Contact) check(j int, src Source) error {
	if !c.Pos.Finite() {
		return fmt.Errorf(
			"%w: contact %d is at %v", ErrConfiguration, j, c.Pos,
		)
	}
	if !c.averaged() {
		if c.Points < 0 {
			return fmt.Errorf(
				"%w: contact %d has %d points", ErrConfiguration, j, c.Points,
			)
		}
		return nil
	}

	switch {
	case c.Points < 2:
		return fmt.Errorf(
			"%w: contact %d averages over %d point, but needs at least 2",
			ErrConfiguration, j, c.Points,
		)
	case !positive(c.Radius):
		return fmt.Errorf(
			"%w: contact %d has radius %g", ErrConfiguration, j, c.Radius,
		)
	case c.Normal.Norm2() == 0:
		return fmt.Errorf(
			"%w: contact %d has no surface normal", ErrConfiguration, j,
		)
	case c.Shape != Disc && c.Shape != Square:
		return fmt.Errorf(
			"%w: contact %d has unknown shape %d", ErrConfiguration, j, c.Shape,
		)
	case src == nil:
		return fmt.Errorf(
			"%w: contact %d is averaged, but no random source was given",
			ErrConfiguration, j,
		)
	}
	return nil
}

// samplePoints returns the locations at which the contact's potential is
// evaluated.
func (c *Contact) samplePoints(src Source) []geom.Vec {
	if !c.averaged() {
		return []geom.Vec{c.Pos}
	}

	u, w := geom.Basis(c.Normal)
	pts := make([]geom.Vec, c.Points)
	for i := range pts {
		var a, b float64
		switch c.Shape {
		case Disc:
			r := c.Radius * math.Sqrt(src.Float64())
			theta := 2 * math.Pi * src.Float64()
			a, b = r*math.Cos(theta), r*math.Sin(theta)
		case Square:
			a = (2*src.Float64() - 1) * c.Radius
			b = (2*src.Float64() - 1) * c.Radius
		}
		pts[i] = c.Pos.Add(u.Scale(a)).Add(w.Scale(b))
	}
	return pts
}
