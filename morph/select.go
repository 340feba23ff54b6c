package morph

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/lfpcalc/alias"
	"github.com/phil-mansfield/lfpcalc/geom"
)

func inSections(section string, sections []string) bool {
	if len(sections) == 0 {
		return true
	}
	for _, s := range sections {
		if s == section {
			return true
		}
	}
	return false
}

// SectionIdx returns the indices of compartments belonging to any of the
// given sections whose midpoints have z in [zMin, zMax]. No sections means
// every section.
func (m *Morphology) SectionIdx(
	zMin, zMax float64, sections ...string,
) []int {
	idx := []int{}
	for i := range m.comps {
		c := &m.comps[i]
		z := c.Mid()[2]
		if z >= zMin && z <= zMax && inSections(c.Section, sections) {
			idx = append(idx, i)
		}
	}
	return idx
}

// ClosestIdx returns the index of the compartment in the given sections
// whose midpoint is closest to p, or -1 if no compartment is in those
// sections.
func (m *Morphology) ClosestIdx(p geom.Vec, sections ...string) int {
	best, bestDist := -1, math.Inf(+1)
	for i := range m.comps {
		if !inSections(m.comps[i].Section, sections) {
			continue
		}
		if d := geom.Dist(p, m.comps[i].Mid()); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// RandIdxAreaNorm draws n compartment indices from the selection described
// by SectionIdx with probabilities proportional to membrane area. Indices
// may repeat.
func (m *Morphology) RandIdxAreaNorm(
	src alias.Source, n int, zMin, zMax float64, sections ...string,
) ([]int, error) {
	idx := m.SectionIdx(zMin, zMax, sections...)
	if len(idx) == 0 {
		return nil, fmt.Errorf(
			"%w: sections %v within z = [%g, %g]",
			ErrNoCompartments, sections, zMin, zMax,
		)
	}

	areas := make([]float64, len(idx))
	for i, j := range idx {
		areas[i] = m.areas[j]
	}
	tab, err := alias.New(areas)
	if err != nil {
		return nil, err
	}

	out := tab.Draw(src, n)
	for i := range out {
		out[i] = idx[out[i]]
	}
	return out, nil
}
