package celllist

import "fmt"

// CellList maps cell ids to the element ids stored in them. Only cells
// that have held an element use memory. A CellList is not safe for
// concurrent use.
type CellList struct {
	cells map[int][]int
	n     int
	total int
}

// New returns a list for cellCount cells.
func New(cellCount int) *CellList {
	c := &CellList{}
	c.Init(cellCount)
	return c
}

// Init empties the list and sizes it for cellCount cells.
func (c *CellList) Init(cellCount int) {
	c.cells = make(map[int][]int)
	c.n = cellCount
	c.total = 0
}

func (c *CellList) check(cell int) error {
	if cell < 0 || cell >= c.n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCellRange, cell, c.n)
	}
	return nil
}

// Insert appends id to cell.
func (c *CellList) Insert(cell, id int) error {
	if err := c.check(cell); err != nil {
		return err
	}
	c.cells[cell] = append(c.cells[cell], id)
	c.total++
	return nil
}

// Remove deletes the first occurrence of id from cell, preserving the order
// of the others. It reports whether id was present.
func (c *CellList) Remove(cell, id int) (bool, error) {
	if err := c.check(cell); err != nil {
		return false, err
	}
	ids := c.cells[cell]
	for i, v := range ids {
		if v == id {
			c.cells[cell] = append(ids[:i], ids[i+1:]...)
			c.total--
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of elements in cell, zero for ids out of range.
func (c *CellList) Count(cell int) int {
	return len(c.cells[cell])
}

// Range returns the elements of cell. The slice aliases the list's storage
// and is valid until the next change to that cell.
func (c *CellList) Range(cell int) []int {
	ids := c.cells[cell]
	return ids[:len(ids):len(ids)]
}

// Get returns the i-th element of cell.
func (c *CellList) Get(cell, i int) int {
	return c.cells[cell][i]
}

// Clear empties every cell. Cell storage is kept for reuse.
func (c *CellList) Clear() {
	for k, ids := range c.cells {
		c.cells[k] = ids[:0]
	}
	c.total = 0
}

// Len returns the number of stored elements.
func (c *CellList) Len() int {
	return c.total
}

// CellCount returns the number of cells.
func (c *CellList) CellCount() int {
	return c.n
}

// Swap exchanges the contents of two lists.
func (c *CellList) Swap(o *CellList) {
	*c, *o = *o, *c
}

// Clone returns an independent copy.
func (c *CellList) Clone() *CellList {
	d := &CellList{cells: make(map[int][]int, len(c.cells)), n: c.n, total: c.total}
	for k, ids := range c.cells {
		if len(ids) > 0 {
			d.cells[k] = append([]int(nil), ids...)
		}
	}
	return d
}

// Counts returns the element count of every cell, indexed by cell id.
func (c *CellList) Counts() []int {
	counts := make([]int, c.n)
	for k, ids := range c.cells {
		counts[k] = len(ids)
	}
	return counts
}
