package celllist

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Occupancy summarises how elements are spread over cells.
type Occupancy struct {
	Cells    int     // cells considered
	Elements int     // elements stored in them
	Empty    int     // cells holding nothing
	Max      int     // largest cell
	Mean     float64 // elements per cell
	StdDev   float64
	Median   float64
}

// Occupancy computes statistics over every cell of the list.
func (c *CellList) Occupancy() Occupancy {
	return occupancy(c, nil)
}

// Occupancy computes statistics over the domain cells only, padding
// excluded.
func (b *Builder) Occupancy() Occupancy {
	return occupancy(b.list, b.order.Keys())
}

func occupancy(c *CellList, cells []int) Occupancy {
	var counts []float64
	if cells == nil {
		for _, n := range c.Counts() {
			counts = append(counts, float64(n))
		}
	} else {
		counts = make([]float64, len(cells))
		for i, cell := range cells {
			counts[i] = float64(c.Count(cell))
		}
	}

	occ := Occupancy{Cells: len(counts)}
	if len(counts) == 0 {
		return occ
	}

	occ.Elements = int(floats.Sum(counts))
	occ.Max = int(floats.Max(counts))
	for _, n := range counts {
		if n == 0 {
			occ.Empty++
		}
	}
	occ.Mean, occ.StdDev = stat.MeanStdDev(counts, nil)
	if len(counts) == 1 {
		occ.StdDev = 0
	}

	sorted := slices.Clone(counts)
	slices.Sort(sorted)
	occ.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return occ
}
