package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testEps = 1e-12

func randomVecs(gen *rand.Rand, n int, width float64) []Vec {
	vs := make([]Vec, n)
	for i := range vs {
		for j := 0; j < 3; j++ {
			vs[i][j] = (gen.Float64() - 0.5) * width
		}
	}
	return vs
}

func assertVecEq(t *testing.T, want, got Vec, eps float64, msg string) {
	for k := 0; k < 3; k++ {
		assert.InDelta(t, want[k], got[k], eps, "%s: component %d", msg, k)
	}
}

func TestCross(t *testing.T) {
	assert.Equal(t, Vec{0, 0, 1}, Vec{1, 0, 0}.Cross(Vec{0, 1, 0}))
	assert.Equal(t, Vec{1, 0, 0}, Vec{0, 1, 0}.Cross(Vec{0, 0, 1}))
	assert.Equal(t, Vec{0, -1, 0}, Vec{1, 0, 0}.Cross(Vec{0, 0, 1}))
}

func TestFinite(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(+1)
	assert.True(t, Vec{0, -1e300, 1e300}.Finite())
	assert.False(t, Vec{nan, 0, 0}.Finite())
	assert.False(t, Vec{0, -inf, 0}.Finite())
	assert.False(t, Vec{0, 0, inf}.Finite())
}

func TestClosestOnSegment(t *testing.T) {
	table := []struct {
		p, a, b, c Vec
		d          float64
	}{
		{Vec{1, 0, 5}, Vec{0, 0, 0}, Vec{0, 0, 10}, Vec{0, 0, 5}, 1},
		{Vec{0, 3, -4}, Vec{0, 0, 0}, Vec{0, 0, 10}, Vec{0, 0, 0}, 5},
		{Vec{0, 0, 14}, Vec{0, 0, 0}, Vec{0, 0, 10}, Vec{0, 0, 10}, 4},
		{Vec{2, 0, 0}, Vec{1, 1, 1}, Vec{1, 1, 1}, Vec{1, 1, 1}, math.Sqrt(3)},
	}

	for i, test := range table {
		c, d := ClosestOnSegment(test.p, test.a, test.b)
		assertVecEq(t, test.c, c, testEps, "closest point")
		assert.InDelta(t, test.d, d, testEps, "%d) distance", i+1)
	}
}

func TestBasis(t *testing.T) {
	gen := rand.New(rand.NewSource(7))
	ns := append([]Vec{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}},
		randomVecs(gen, 100, 2)...)

	for i, n := range ns {
		u, w := Basis(n)
		nu := n.Unit()
		assert.InDelta(t, 1, u.Norm(), testEps, "%d) |u|", i+1)
		assert.InDelta(t, 1, w.Norm(), testEps, "%d) |w|", i+1)
		assert.InDelta(t, 0, u.Dot(w), testEps, "%d) u.w", i+1)
		assert.InDelta(t, 0, u.Dot(nu), testEps, "%d) u.n", i+1)
		assert.InDelta(t, 0, w.Dot(nu), testEps, "%d) w.n", i+1)
		assertVecEq(t, nu, u.Cross(w), 1e-10, "handedness")

		u2, w2 := Basis(n.Scale(3))
		assertVecEq(t, u, u2, testEps, "scale invariance")
		assertVecEq(t, w, w2, testEps, "scale invariance")
	}
}

func TestEulerMatrix(t *testing.T) {
	m := EulerMatrix(0, math.Pi/2, 0)
	assertVecEq(t, Vec{-1, 0, 0}, Vec{0, 0, 1}.Rotate(m), testEps, "y rotation")

	gen := rand.New(rand.NewSource(11))
	vs := randomVecs(gen, 100, 10)
	m = EulerMatrix(0.3, 1.2, -2.1)
	for i, v := range vs {
		assert.InDelta(t, v.Norm(), v.Rotate(m).Norm(), 1e-10,
			"%d) rotation changed length of %v", i+1, v)
	}

	c := Vec{1, 2, 3}
	assertVecEq(t, c, c.RotateAbout(m, c), testEps, "fixed point")
}

func BenchmarkClosestOnSegment(b *testing.B) {
	gen := rand.New(rand.NewSource(1))
	vs := randomVecs(gen, 3000, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := 3 * (i % 1000)
		ClosestOnSegment(vs[j], vs[j+1], vs[j+2])
	}
}
