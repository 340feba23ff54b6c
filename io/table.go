package io

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/lfpcalc/geom"
	"github.com/phil-mansfield/lfpcalc/lfp"
	"github.com/phil-mansfield/lfpcalc/morph"
)

const (
	geometryColumns = 8
	contactColumns  = 6
)

func columns(n int) []int {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	return idxs
}

// columnCount returns the number of columns on the first line of fname
// which is neither blank nor a comment.
func columnCount(fname string) (int, error) {
	f, err := os.Open(fname)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<16), 1<<30)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		return len(strings.Fields(line)), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%s contains no data.", fname)
}

// ReadGeometry reads a cell from a file with the columns
//     x0 y0 z0 x1 y1 z1 diam section
// where section is an integer label. Label k is named names[k] if it exists
// and by the label's digits otherwise.
func ReadGeometry(fname string, names []string) (*morph.Morphology, error) {
	cols, err := table.ReadTable(fname, columns(geometryColumns), nil)
	if err != nil {
		return nil, err
	}

	comps := make([]morph.Compartment, len(cols[0]))
	for i := range comps {
		label := int(cols[7][i])
		if float64(label) != cols[7][i] || label < 0 {
			return nil, fmt.Errorf(
				"Line %d of %s has section label %g, which isn't a "+
					"non-negative integer.", i+1, fname, cols[7][i],
			)
		}

		section := strconv.Itoa(label)
		if label < len(names) {
			section = names[label]
		}

		comps[i] = morph.Compartment{
			Idx:     i,
			Section: section,
			Start:   geom.Vec{cols[0][i], cols[1][i], cols[2][i]},
			End:     geom.Vec{cols[3][i], cols[4][i], cols[5][i]},
			Diam:    cols[6][i],
		}
	}

	return morph.New(comps)
}

// ReadContacts reads contacts from a file with the columns
//     x y z nx ny nz
// Every other property is copied from tmpl.
func ReadContacts(fname string, tmpl lfp.Contact) ([]lfp.Contact, error) {
	cols, err := table.ReadTable(fname, columns(contactColumns), nil)
	if err != nil {
		return nil, err
	}

	cs := make([]lfp.Contact, len(cols[0]))
	for j := range cs {
		cs[j] = tmpl
		cs[j].Pos = geom.Vec{cols[0][j], cols[1][j], cols[2][j]}
		cs[j].Normal = geom.Vec{cols[3][j], cols[4][j], cols[5][j]}
	}
	return cs, nil
}

// ReadCurrents reads the currents of n compartments from a file with the
// columns
//     t I_0 I_1 ... I_{n-1}
// where each line is one time step.
func ReadCurrents(fname string, n int) (*lfp.CurrentSeries, error) {
	width, err := columnCount(fname)
	if err != nil {
		return nil, err
	} else if width != n+1 {
		return nil, fmt.Errorf(
			"%w: %s has currents for %d compartments, but the cell has %d",
			lfp.ErrDimension, fname, width-1, n,
		)
	}

	cols, err := table.ReadTable(fname, columns(n+1), nil)
	if err != nil {
		return nil, err
	}

	ts := cols[0]
	if len(ts) == 0 {
		return nil, fmt.Errorf("%s contains no time steps.", fname)
	}

	imem := mat.NewDense(n, len(ts), nil)
	for i := 0; i < n; i++ {
		imem.SetRow(i, cols[i+1])
	}
	return lfp.NewCurrentSeries(imem, ts)
}

// WritePotentials writes ps to fname with one line per time step:
//     t phi_0 phi_1 ... phi_{M-1}
// preceded by a commented header listing the contact names.
func WritePotentials(fname string, names []string, ps *lfp.PotentialSeries) error {
	m, nt := ps.Dims()
	if len(names) != m {
		panic(fmt.Sprintf(
			"Given %d contact names for %d contacts.", len(names), m,
		))
	}

	ts := ps.Times()
	if ts == nil {
		ts = make([]float64, nt)
		for k := range ts {
			ts[k] = float64(k)
		}
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "# Column 0: t [ms]\n")
	for j, name := range names {
		fmt.Fprintf(w, "# Column %d: phi at %s [mV]\n", j+1, name)
	}
	for k := 0; k < nt; k++ {
		fmt.Fprintf(w, "%.8g", ts[k])
		for j := 0; j < m; j++ {
			fmt.Fprintf(w, " %.10g", ps.At(j, k))
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// WriteIndices writes compartment indices drawn from cell to fname with one
// line per index:
//     idx x y z
// where x, y, z is the midpoint of the compartment.
func WriteIndices(fname string, cell *morph.Morphology, idx []int) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "# idx x [um] y [um] z [um]\n")
	for _, i := range idx {
		p := cell.Mid(i)
		fmt.Fprintf(w, "%d %.8g %.8g %.8g\n", i, p[0], p[1], p[2])
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
