package io

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/lfpcalc/geom"
	"github.com/phil-mansfield/lfpcalc/lfp"
)

func TestExampleFilesParse(t *testing.T) {
	wrap := DefaultPotentialWrapper()
	require.NoError(t, gcfg.ReadStringInto(wrap,
		ExamplePotentialFile+"\n"+ExampleSliceFile+"\n"+ExampleContactFile))
	require.NoError(t, wrap.check())

	con := &wrap.Potential
	assert.Equal(t, "path/to/cell.txt", con.Geometry)
	assert.Equal(t, "path/to/imem.txt", con.Currents)
	assert.Equal(t, []float64{0.3}, con.Sigma)
	assert.Equal(t, "linesource", con.Method)
	assert.False(t, con.ValidContacts())
	assert.False(t, con.ValidPlot())

	sigma, err := wrap.Conductivity()
	require.NoError(t, err)
	assert.Equal(t, lfp.Layered{SigmaT: 0.3, SigmaS: 1.5, SigmaG: 0, H: 200}, sigma)

	contacts, names, err := wrap.Contacts()
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, names)
	assert.Equal(t, []lfp.Contact{{Pos: geom.Vec{100, 0, 500}}}, contacts)

	sw := DefaultSampleWrapper()
	require.NoError(t, gcfg.ReadStringInto(sw, ExampleSampleFile))
	require.NoError(t, sw.check())
	assert.Equal(t, 1000, sw.Sample.Count)
	assert.Equal(t, -math.MaxFloat64, sw.Sample.ZMin)
	assert.Nil(t, sw.Sample.Section)
}

func TestPotentialConfig(t *testing.T) {
	text := `[Potential]
Geometry = cell.txt
Currents = imem.txt
Output = lfp.txt
Sigma = 0.3
Sigma = 0.3
Sigma = 0.45
Method = soma_as_point
SectionName = soma
SectionName = apic
Seed = 12

[Contact "b"]
X = 1
Y = 2
Z = 3
Radius = 5
NZ = 1
Points = 10
Shape = square

[Contact "a"]
X = -1
`
	wrap := DefaultPotentialWrapper()
	require.NoError(t, gcfg.ReadStringInto(wrap, text))
	require.NoError(t, wrap.check())

	assert.Equal(t, []string{"soma", "apic"}, wrap.Potential.SectionName)
	assert.Equal(t, int64(12), wrap.Potential.Seed)
	assert.False(t, wrap.Slice.Used())

	sigma, err := wrap.Conductivity()
	require.NoError(t, err)
	assert.Equal(t, lfp.Anisotropic{Sigma: [3]float64{0.3, 0.3, 0.45}}, sigma)

	contacts, names, err := wrap.Contacts()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, []lfp.Contact{
		{Pos: geom.Vec{-1, 0, 0}},
		{
			Pos: geom.Vec{1, 2, 3}, Radius: 5, Normal: geom.Vec{0, 0, 1},
			Points: 10, Shape: lfp.Square,
		},
	}, contacts)
}

func TestPotentialConfigContactsFile(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "contacts.txt")
	require.NoError(t, os.WriteFile(fname, []byte(
		"0 0 100 1 0 0\n"+
			"0 0 200 1 0 0\n",
	), 0644))

	wrap := DefaultPotentialWrapper()
	require.NoError(t, gcfg.ReadStringInto(wrap, `[Potential]
Geometry = cell.txt
Currents = imem.txt
Output = lfp.txt
Sigma = 0.3
ContactRadius = 10
ContactPoints = 50
`))
	wrap.Potential.Contacts = fname

	contacts, names, err := wrap.Contacts()
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, []string{fname + ":0", fname + ":1"}, names)
	assert.Equal(t, lfp.Contact{
		Pos: geom.Vec{0, 0, 200}, Radius: 10, Normal: geom.Vec{1, 0, 0},
		Points: 50, Shape: lfp.Disc,
	}, contacts[1])
}

func TestSliceConfigUsed(t *testing.T) {
	base := "[Potential]\nGeometry = a\nCurrents = b\nOutput = c\nSigma = 0.3\n"

	table := []struct {
		text  string
		used  bool
		sigma lfp.Conductivity
	}{
		{base, false, lfp.Isotropic{Sigma: 0.3}},
		{base + "[Slice]\n", false, lfp.Isotropic{Sigma: 0.3}},
		{base + "[Slice]\nSigmaT = 0\nSigmaS = 0\nSigmaG = 0\nH = 0\n",
			true, lfp.Layered{}},
		{base + "[Slice]\nZShift = 0\n", true, lfp.Layered{}},
		{base + "[Slice]\nSteps = 0\n", true, lfp.Layered{}},
		{base + "[Slice]\nSigmaT = 0.3\nH = 200\nSteps = 5\n",
			true, lfp.Layered{SigmaT: 0.3, H: 200, Steps: 5}},
	}

	for i, test := range table {
		wrap := DefaultPotentialWrapper()
		require.NoError(t, gcfg.ReadStringInto(wrap, test.text), "%d)", i+1)
		require.NoError(t, wrap.check(), "%d)", i+1)
		assert.Equal(t, test.used, wrap.Slice.Used(), "%d)", i+1)

		sigma, err := wrap.Conductivity()
		require.NoError(t, err, "%d)", i+1)
		assert.Equal(t, test.sigma, sigma, "%d)", i+1)
	}

	wrap := DefaultPotentialWrapper()
	require.NoError(t, gcfg.ReadStringInto(wrap,
		"[Potential]\nGeometry = a\nCurrents = b\nOutput = c\n"+
			"[Slice]\nSigmaT = 0\nH = 0\n"))
	require.NoError(t, wrap.check())
	sigma, err := wrap.Conductivity()
	require.NoError(t, err)
	assert.Equal(t, lfp.Layered{}, sigma)
}

func TestPotentialConfigErrors(t *testing.T) {
	table := []struct {
		text string
		name string
	}{
		{"[Potential]\nCurrents = a\nOutput = b\nSigma = 0.3", "geometry"},
		{"[Potential]\nGeometry = a\nOutput = b\nSigma = 0.3", "currents"},
		{"[Potential]\nGeometry = a\nCurrents = b\nSigma = 0.3", "output"},
		{"[Potential]\nGeometry = a\nCurrents = b\nOutput = c", "sigma"},
		{"[Potential]\nGeometry = a\nCurrents = b\nOutput = c\nSigma = 1\n" +
			"Method = multipole", "method"},
	}

	for i, test := range table {
		wrap := DefaultPotentialWrapper()
		require.NoError(t, gcfg.ReadStringInto(wrap, test.text), "%d)", i+1)
		assert.Error(t, wrap.check(), "%d) %s", i+1, test.name)
	}

	wrap := DefaultPotentialWrapper()
	wrap.Potential.Sigma = []float64{0.3, 0.3}
	_, err := wrap.Conductivity()
	assert.ErrorIs(t, err, lfp.ErrConfiguration)

	_, _, err = wrap.Contacts()
	assert.Error(t, err)
}

func TestContactCheckInit(t *testing.T) {
	table := []struct {
		c  ContactConfig
		ok bool
	}{
		{ContactConfig{X: 1}, true},
		{ContactConfig{X: math.NaN()}, false},
		{ContactConfig{Points: 1, Radius: 1, NX: 1}, false},
		{ContactConfig{Points: 2, Radius: 0, NX: 1}, false},
		{ContactConfig{Points: 2, Radius: 1}, false},
		{ContactConfig{Points: 2, Radius: 1, NX: 1, Shape: "hexagon"}, false},
		{ContactConfig{Points: 2, Radius: 1, NX: 1, Shape: "Square"}, true},
	}

	for i, test := range table {
		err := test.c.CheckInit("c")
		if test.ok {
			assert.NoError(t, err, "%d)", i+1)
			assert.Equal(t, "c", test.c.Name, "%d)", i+1)
		} else {
			assert.Error(t, err, "%d)", i+1)
		}
	}
}

func TestSampleConfigErrors(t *testing.T) {
	table := []string{
		"[Sample]\nOutput = a\nCount = 10",
		"[Sample]\nGeometry = a\nCount = 10",
		"[Sample]\nGeometry = a\nOutput = b",
		"[Sample]\nGeometry = a\nOutput = b\nCount = 10\nZMin = 10\nZMax = 0",
	}

	for i, text := range table {
		wrap := DefaultSampleWrapper()
		require.NoError(t, gcfg.ReadStringInto(wrap, text), "%d)", i+1)
		assert.Error(t, wrap.check(), "%d)", i+1)
	}
}

func TestReadConfigFiles(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "sample.cfg")
	require.NoError(t, os.WriteFile(fname, []byte(`[Sample]
Geometry = cell.txt
Output = idx.txt
Count = 5
Section = apic
`), 0644))

	wrap, err := ReadSampleConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, []string{"apic"}, wrap.Sample.Section)

	_, err = ReadPotentialConfig(fname)
	assert.Error(t, err)
	_, err = ReadSampleConfig(filepath.Join(dir, "missing.cfg"))
	assert.Error(t, err)
}
