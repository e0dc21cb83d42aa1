package ndgrid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-ndgrid/internal/alloc"
)

func TestPackRequestSize(t *testing.T) {
	g := newGrid[particle](t, []int{4, 5, 6})
	// particle packs as 24 + 12 + 8 + 4 bytes

	tests := []struct {
		name   string
		fields []int
		sub    *SubIterator
		want   int
	}{
		{"all fields", nil, nil, 120 * 48},
		{"mass only", []int{2}, nil, 120 * 8},
		{"pos and id", []int{3, 0}, nil, 120 * 28},
		{"margin", []int{2}, g.MarginIterator(1), 2 * 3 * 4 * 8},
		{"empty margin", nil, g.MarginIterator(2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := g.PackRequest(tt.fields, tt.sub)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	subsets := [][]int{nil, {0}, {2, 3}, {1, 3}}

	for _, from := range layouts {
		for _, to := range layouts {
			for _, fields := range subsets {
				name := fmt.Sprintf("%v to %v fields %v", from, to, fields)
				t.Run(name, func(t *testing.T) {
					src := newGrid[particle](t, []int{5, 4, 3}, WithLayout(from))
					dst := newGrid[particle](t, []int{5, 4, 3}, WithLayout(to))
					fillParticles(t, src)

					sub, err := src.SubIterator(K(1, 1, 0), K(3, 2, 2))
					require.NoError(t, err)

					n, err := src.PackRequest(fields, sub)
					require.NoError(t, err)
					buf := NewBuffer(make([]byte, n))
					require.NoError(t, src.Pack(buf, fields, sub))
					assert.Equal(t, n, buf.Offset())

					buf.Reset()
					require.NoError(t, dst.Unpack(buf, fields, sub))
					assert.Equal(t, n, buf.Offset())

					selected := map[int]bool{}
					for _, f := range fields {
						selected[f] = true
					}
					it := dst.Iterator()
					for it.Next() {
						k := it.Key()
						inside := k[0] >= 1 && k[0] <= 3 && k[1] >= 1 && k[1] <= 2
						got, _ := dst.View(k)
						want, _ := src.View(k)
						for f := 0; f < 4; f++ {
							if inside && (len(fields) == 0 || selected[f]) {
								assert.Equal(t, want.Field(f), got.Field(f), "key %v field %d", k, f)
							} else {
								assert.Equal(t, make([]byte, len(got.Raw(f))), got.Raw(f), "key %v field %d", k, f)
							}
						}
					}
				})
			}
		}
	}
}

func TestPackIndependentOfLayout(t *testing.T) {
	a := newGrid[particle](t, []int{3, 3, 3}, WithLayout(Interleaved))
	b := newGrid[particle](t, []int{3, 3, 3}, WithLayout(PerField))
	fillParticles(t, a)
	fillParticles(t, b)

	fields := []int{3, 1}
	n, _ := a.PackRequest(fields, nil)
	bufA := NewBuffer(make([]byte, n))
	bufB := NewBuffer(make([]byte, n))
	require.NoError(t, a.Pack(bufA, fields, nil))
	require.NoError(t, b.Pack(bufB, fields, nil))
	assert.Equal(t, bufA.Bytes(), bufB.Bytes())

	// per element: Vel then ID, ascending field order
	want := particleAt(K(1, 0, 0))
	assert.Equal(t, 12+4, n/27)
	assert.Equal(t, byte(want.ID), bufA.Bytes()[16+12])
}

func TestPackSequentialRequests(t *testing.T) {
	a := newGrid[cell](t, []int{3})
	b := newGrid[cell](t, []int{2, 2})
	for i := 0; i < 3; i++ {
		require.NoError(t, a.Set(K(i), cell{Rho: float64(i)}))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, b.Set(K(i%2, i/2), cell{P: float64(10 + i)}))
	}

	na, _ := a.PackRequest([]int{0}, nil)
	nb, _ := b.PackRequest([]int{1}, nil)
	buf := NewBuffer(make([]byte, alloc.Sum(na, nb)))
	require.NoError(t, a.Pack(buf, []int{0}, nil))
	require.NoError(t, b.Pack(buf, []int{1}, nil))
	assert.Equal(t, []int{na, nb}, buf.Requests())

	a2 := newGrid[cell](t, []int{3})
	b2 := newGrid[cell](t, []int{2, 2})
	buf.Reset()
	require.NoError(t, a2.Unpack(buf, []int{0}, nil))
	require.NoError(t, b2.Unpack(buf, []int{1}, nil))

	assert.Equal(t, 2.0, a2.At(K(2)).Rho)
	assert.Equal(t, 13.0, b2.At(K(1, 1)).P)
	assert.Zero(t, b2.At(K(1, 1)).Rho)
}

func TestPackShortBuffer(t *testing.T) {
	g := newGrid[cell](t, []int{4})
	n, _ := g.PackRequest(nil, nil)

	mem := make([]byte, n-1)
	buf := NewBuffer(mem)
	err := g.Pack(buf, nil, nil)
	require.ErrorIs(t, err, ErrShortBuffer)
	assert.Equal(t, 0, buf.Offset())
	assert.Equal(t, make([]byte, n-1), mem, "nothing written")

	err = g.Unpack(NewBuffer(make([]byte, n-1)), nil, nil)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestPackFieldSubsetErrors(t *testing.T) {
	g := newGrid[cell](t, []int{4})

	tests := []struct {
		name   string
		fields []int
	}{
		{"duplicate", []int{1, 1}},
		{"negative", []int{-1}},
		{"too large", []int{0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.PackRequest(tt.fields, nil)
			assert.ErrorIs(t, err, ErrFieldSubset)
			assert.ErrorIs(t, g.Pack(NewBuffer(make([]byte, 100)), tt.fields, nil), ErrFieldSubset)
		})
	}
}

func TestPackRegionOutsideGrid(t *testing.T) {
	big := newGrid[cell](t, []int{6, 6})
	small := newGrid[cell](t, []int{3, 3})

	sub, err := big.SubIterator(K(2, 2), K(4, 4))
	require.NoError(t, err)

	_, err = small.PackRequest(nil, sub)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	other, _ := New[cell]([]int{6})
	_, err = other.PackRequest(nil, sub)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestPackUnbound(t *testing.T) {
	g, err := New[cell]([]int{4})
	require.NoError(t, err)

	n, err := g.PackRequest(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4*17, n)

	err = g.Pack(NewBuffer(make([]byte, n)), nil, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}
