package celllist

import (
	"fmt"
	"math"
	"strings"
)

// Box is an axis-aligned region of space, closed on both ends.
type Box struct {
	Low  []float64
	High []float64
}

// NewBox checks that low and high have the same dimension and that low
// does not exceed high on any axis.
func NewBox(low, high []float64) (Box, error) {
	if len(low) == 0 || len(low) != len(high) {
		return Box{}, fmt.Errorf("box corners have %d and %d components", len(low), len(high))
	}
	for i := range low {
		if !(low[i] < high[i]) {
			return Box{}, fmt.Errorf("box axis %d: low %g not below high %g", i, low[i], high[i])
		}
	}
	return Box{Low: append([]float64(nil), low...), High: append([]float64(nil), high...)}, nil
}

// Dim returns the number of axes.
func (b Box) Dim() int {
	return len(b.Low)
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p []float64) bool {
	if len(p) != len(b.Low) {
		return false
	}
	for i, v := range p {
		if v < b.Low[i] || v > b.High[i] {
			return false
		}
	}
	return true
}

// Width returns the length of the box along axis.
func (b Box) Width(axis int) float64 {
	return b.High[axis] - b.Low[axis]
}

// CellCoord returns the cell of p when the box is split into div[i] cells
// along axis i. Points outside the box give coordinates below zero or at
// or beyond div; a point on the upper face belongs to the last cell.
func (b Box) CellCoord(p []float64, div []int) Key {
	k := make(Key, len(p))
	for i, v := range p {
		c := int(math.Floor((v - b.Low[i]) / b.Width(i) * float64(div[i])))
		if v == b.High[i] {
			c = div[i] - 1
		}
		k[i] = c
	}
	return k
}

func (b Box) String() string {
	parts := make([]string, len(b.Low))
	for i := range b.Low {
		parts[i] = fmt.Sprintf("[%g,%g]", b.Low[i], b.High[i])
	}
	return strings.Join(parts, "x")
}
