package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phil-mansfield/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/lfpcalc/geom"
	"github.com/phil-mansfield/lfpcalc/lfp"
)

func writeFile(t *testing.T, name, text string) string {
	fname := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))
	return fname
}

const cellText = `0 0 -10 0 0 10 20 0
0 0 10 0 0 110 2 2
0 0 110 0 0 210 2 2
0 0 -10 0 0 -60 1 1
`

func TestReadGeometry(t *testing.T) {
	fname := writeFile(t, "cell.txt", cellText)
	cell, err := ReadGeometry(fname, []string{"soma", "dend"})
	require.NoError(t, err)

	require.Equal(t, 4, cell.Len())
	assert.Equal(t, "soma", cell.Compartment(0).Section)
	assert.Equal(t, "2", cell.Compartment(1).Section)
	assert.Equal(t, "dend", cell.Compartment(3).Section)
	assert.Equal(t, geom.Vec{0, 0, 0}, cell.SomaPos())

	start, end, diam := cell.Segment(2)
	assert.Equal(t, geom.Vec{0, 0, 110}, start)
	assert.Equal(t, geom.Vec{0, 0, 210}, end)
	assert.Equal(t, 2.0, diam)

	assert.Equal(t, []int{1, 2}, cell.SectionIdx(0, 1000, "2"))

	bad := writeFile(t, "bad.txt", "0 0 0 0 0 10 2 0.5\n")
	_, err = ReadGeometry(bad, nil)
	assert.Error(t, err)
}

func TestReadContacts(t *testing.T) {
	fname := writeFile(t, "contacts.txt", "10 0 0 0 1 0\n20 5 -5 0 0 1\n")
	tmpl := lfp.Contact{Radius: 3, Points: 7, Shape: lfp.Square}
	cs, err := ReadContacts(fname, tmpl)
	require.NoError(t, err)
	assert.Equal(t, []lfp.Contact{
		{Pos: geom.Vec{10, 0, 0}, Normal: geom.Vec{0, 1, 0}, Radius: 3, Points: 7, Shape: lfp.Square},
		{Pos: geom.Vec{20, 5, -5}, Normal: geom.Vec{0, 0, 1}, Radius: 3, Points: 7, Shape: lfp.Square},
	}, cs)
}

func TestReadCurrents(t *testing.T) {
	fname := writeFile(t, "imem.txt",
		"0 1 -1 0\n"+
			"0.5 2 -1 -1\n"+
			"1 0 0 0\n",
	)
	cs, err := ReadCurrents(fname, 3)
	require.NoError(t, err)

	n, nt := cs.Dims()
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, nt)
	assert.Equal(t, []float64{0, 0.5, 1}, cs.Times())
	assert.True(t, mat.Equal(mat.NewDense(3, 3, []float64{
		1, 2, 0,
		-1, -1, 0,
		0, -1, 0,
	}), cs.Currents()))

	commented := writeFile(t, "commented.txt",
		"# t I_0 I_1\n"+
			"\n"+
			"0 1 -1\n"+
			"1 0 0\n",
	)
	cs, err = ReadCurrents(commented, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, cs.Times())
}

func TestReadCurrentsDimension(t *testing.T) {
	tests := []struct {
		text string
		n    int
	}{
		{"0 1 -1 0 5\n0.5 2 -1 -1 5\n", 3},
		{"0 1 -1\n0.5 2 -1\n", 3},
		{"0\n0.5\n", 1},
	}

	for i, test := range tests {
		fname := writeFile(t, "imem.txt", test.text)
		cs, err := ReadCurrents(fname, test.n)
		assert.ErrorIs(t, err, lfp.ErrDimension, "%d)", i+1)
		assert.Nil(t, cs, "%d)", i+1)
	}

	_, err := ReadCurrents(writeFile(t, "empty.txt", "# nothing\n"), 3)
	assert.Error(t, err)
}

func TestWritePotentials(t *testing.T) {
	cs, err := lfp.NewCurrentSeries(mat.NewDense(2, 3, []float64{
		1, 0, -1,
		0.5, 0.25, 0,
	}), []float64{0, 0.1, 0.2})
	require.NoError(t, err)
	ps, err := lfp.Apply(mat.NewDense(2, 2, []float64{1, 2, -1, 0}), cs)
	require.NoError(t, err)

	fname := filepath.Join(t.TempDir(), "lfp.txt")
	require.NoError(t, WritePotentials(fname, []string{"a", "b"}, ps))

	cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1, 0.2}, cols[0])
	assert.Equal(t, ps.Contact(0), cols[1])
	assert.Equal(t, ps.Contact(1), cols[2])

	assert.Panics(t, func() { WritePotentials(fname, []string{"a"}, ps) })
}

func TestWriteIndices(t *testing.T) {
	cell, err := ReadGeometry(writeFile(t, "cell.txt", cellText), nil)
	require.NoError(t, err)

	fname := filepath.Join(t.TempDir(), "idx.txt")
	require.NoError(t, WriteIndices(fname, cell, []int{2, 0, 2}))

	cols, err := table.ReadTable(fname, []int{0, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0, 2}, cols[0])
	assert.Equal(t, []float64{160, 0, 160}, cols[1])
}
