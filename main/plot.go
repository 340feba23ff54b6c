package main

import (
	"fmt"
	"math"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/lfpcalc/lfp"
)

var colors = []string{
	"DarkSlateBlue", "DarkSlateGray", "DarkTurquoise",
	"DarkViolet", "DeepPink", "DimGray",
}

// plotPotentials draws every contact's trace, offset vertically so that
// contact 0 is on top.
func plotPotentials(
	fname string, names []string, ps *lfp.PotentialSeries, method lfp.Method,
) {
	m, _ := ps.Dims()
	ts := ps.Times()

	span := 0.0
	for j := 0; j < m; j++ {
		lo, hi := minMax(ps.Contact(j))
		span = math.Max(span, hi-lo)
	}
	if span == 0 {
		span = 1
	}

	plt.Figure(plt.FigSize(8, 8))
	for j := 0; j < m; j++ {
		phi := ps.Contact(j)
		offset := -float64(j) * span
		for k := range phi {
			phi[k] += offset
		}
		plt.Plot(ts, phi, plt.LW(2), plt.C(colors[j%len(colors)]))
	}

	plt.Title(fmt.Sprintf(
		`%d contacts (%s), offsets of %.3g mV: %s to %s`,
		m, method, span, names[0], names[m-1],
	))
	plt.XLabel(`$t$ [ms]`, plt.FontSize(16))
	plt.YLabel(`$\phi$ [mV]`, plt.FontSize(16))
	plt.SaveFig(fname)
	plt.Execute()
}

func minMax(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(+1), math.Inf(-1)
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	return lo, hi
}
