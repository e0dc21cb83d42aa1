package celllist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellListInsertRange(t *testing.T) {
	c := New(4)

	require.NoError(t, c.Insert(1, 10))
	require.NoError(t, c.Insert(1, 11))
	require.NoError(t, c.Insert(3, 12))

	assert.Equal(t, 2, c.Count(1))
	assert.Equal(t, 0, c.Count(0))
	assert.Equal(t, []int{10, 11}, c.Range(1))
	assert.Equal(t, 12, c.Get(3, 0))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 4, c.CellCount())
	assert.Equal(t, []int{0, 2, 0, 1}, c.Counts())
}

func TestCellListRangeErrors(t *testing.T) {
	c := New(2)

	assert.ErrorIs(t, c.Insert(2, 0), ErrCellRange)
	assert.ErrorIs(t, c.Insert(-1, 0), ErrCellRange)
	_, err := c.Remove(5, 0)
	assert.ErrorIs(t, err, ErrCellRange)
	assert.Equal(t, 0, c.Count(7))
	assert.Empty(t, c.Range(7))
}

func TestCellListRemove(t *testing.T) {
	c := New(1)
	for _, id := range []int{4, 5, 6, 5} {
		require.NoError(t, c.Insert(0, id))
	}

	ok, err := c.Remove(0, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{4, 6, 5}, c.Range(0))

	ok, _ = c.Remove(0, 9)
	assert.False(t, ok)
	assert.Equal(t, 3, c.Len())
}

func TestCellListClearKeepsCells(t *testing.T) {
	c := New(3)
	require.NoError(t, c.Insert(2, 1))
	require.NoError(t, c.Insert(2, 2))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Count(2))
	assert.Equal(t, 3, c.CellCount())
	assert.GreaterOrEqual(t, cap(c.cells[2]), 2)

	require.NoError(t, c.Insert(2, 7))
	assert.Equal(t, []int{7}, c.Range(2))
}

func TestCellListSwapClone(t *testing.T) {
	a := New(2)
	b := New(5)
	require.NoError(t, a.Insert(0, 1))

	a.Swap(b)
	assert.Equal(t, 5, a.CellCount())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 1, b.Len())

	d := b.Clone()
	require.NoError(t, d.Insert(0, 2))
	assert.Equal(t, []int{1}, b.Range(0))
	assert.Equal(t, []int{1, 2}, d.Range(0))
}

func TestOccupancy(t *testing.T) {
	c := New(4)
	for _, p := range [][2]int{{0, 1}, {0, 2}, {0, 3}, {2, 4}} {
		require.NoError(t, c.Insert(p[0], p[1]))
	}

	occ := c.Occupancy()
	assert.Equal(t, 4, occ.Cells)
	assert.Equal(t, 4, occ.Elements)
	assert.Equal(t, 2, occ.Empty)
	assert.Equal(t, 3, occ.Max)
	assert.InDelta(t, 1.0, occ.Mean, 1e-12)
	assert.InDelta(t, 0.0, occ.Median, 1e-12)
	assert.InDelta(t, 1.4142135623730951, occ.StdDev, 1e-12)

	assert.Equal(t, Occupancy{}, New(0).Occupancy())
}
