/*package alias implements Walker's alias method for drawing indices from a
discrete distribution in constant time per draw.

See http://www.keithschwarz.com/darts-dice-coins/ for a description of the
table construction.
*/
package alias

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDegenerateInput is returned when a set of weights does not describe a
// distribution.
var ErrDegenerateInput = errors.New("alias: degenerate weights")

// Source is a stream of uniform random numbers in [0, 1). *rand.Rand from
// math/rand satisfies it.
type Source interface {
	Float64() float64
}

// Table is an alias table built from a weight vector. It is immutable after
// construction and may be shared between goroutines, provided that each one
// draws from its own Source.
type Table struct {
	alias  []int
	cutoff []float64
}

// New builds an alias table from non-negative weights. The weights need not
// be normalized, but at least one must be positive.
func New(weights []float64) (*Table, error) {
	n := len(weights)
	if n == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrDegenerateInput)
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf(
				"%w: weight %d is %g", ErrDegenerateInput, i, w,
			)
		}
	}
	wMax := floats.Max(weights)
	if wMax == 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrDegenerateInput)
	}

	// Scale to mean 1. Dividing by the largest weight first keeps the sum
	// finite.
	q := make([]float64, n)
	for k, w := range weights {
		q[k] = w / wMax
	}
	floats.Scale(float64(n)/floats.Sum(q), q)

	t := &Table{alias: make([]int, n), cutoff: make([]float64, n)}
	small, large := make([]int, 0, n), make([]int, 0, n)
	for k := range q {
		t.alias[k] = k
		if q[k] < 1 {
			small = append(small, k)
		} else {
			large = append(large, k)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]

		t.alias[s] = l
		t.cutoff[s] = q[s]

		q[l] -= 1 - q[s]
		if q[l] < 1 {
			large = large[:len(large)-1]
			small = append(small, l)
		}
	}

	// Whatever is left over is within rounding error of 1.
	for _, k := range large {
		t.cutoff[k] = 1
	}
	for _, k := range small {
		t.cutoff[k] = 1
	}

	return t, nil
}

// Len returns the number of items in the table.
func (t *Table) Len() int { return len(t.alias) }

// Alias returns the index that bucket k redirects to.
func (t *Table) Alias(k int) int { return t.alias[k] }

// Cutoff returns the probability with which bucket k returns k itself.
func (t *Table) Cutoff(k int) float64 { return t.cutoff[k] }

// Draw returns n indices drawn independently from the table's distribution.
func (t *Table) Draw(src Source, n int) []int {
	if n < 0 {
		panic(fmt.Sprintf("Cannot draw %d samples.", n))
	}
	out := make([]int, n)
	t.DrawAt(src, out)
	return out
}

// DrawAt fills out with indices drawn from the table's distribution.
func (t *Table) DrawAt(src Source, out []int) {
	n := float64(len(t.alias))
	for i := range out {
		u1, u2 := src.Float64(), src.Float64()
		k := int(u1 * n)
		if k == len(t.alias) {
			k--
		}

		if u2 < t.cutoff[k] {
			out[i] = k
		} else {
			out[i] = t.alias[k]
		}
	}
}
