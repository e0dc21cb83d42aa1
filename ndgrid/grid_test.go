package ndgrid

import (
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type particle struct {
	Pos  [3]float64
	Vel  [3]float32
	Mass float64
	ID   int32
}

type cell struct {
	Rho float64 `grid:"rho"`
	P   float64 `grid:"p"`
	Tag uint8   `grid:"tag"`
}

var layouts = []Layout{Interleaved, PerField}

func newGrid[T any](t *testing.T, extents []int, opts ...Option) *Grid[T] {
	t.Helper()
	g, err := New[T](extents, opts...)
	require.NoError(t, err)
	require.NoError(t, g.SetMemory())
	t.Cleanup(func() { g.Release() })
	return g
}

func particleAt(k Key) particle {
	base := float64(k[0] + 10*k[1] + 100*k[2])
	return particle{
		Pos:  [3]float64{base, base + 0.25, base + 0.5},
		Vel:  [3]float32{float32(-base), 1, 2},
		Mass: base * 2,
		ID:   int32(base),
	}
}

func fillParticles(t *testing.T, g *Grid[particle]) {
	t.Helper()
	it := g.Iterator()
	for it.Next() {
		require.NoError(t, g.Set(it.Key(), particleAt(it.Key())))
	}
}

func TestUnboundAccess(t *testing.T) {
	g, err := New[particle]([]int{2, 2, 2})
	require.NoError(t, err)

	assert.False(t, g.Initialized())
	assert.Equal(t, Unbound, g.Ownership())

	_, err = g.Get(K(0, 0, 0))
	require.ErrorIs(t, err, ErrNotInitialized)
	assert.Equal(t, CodeNotInitialized, CodeOf(err))
	assert.Equal(t, CodeNotInitialized, g.LastError())

	err = SetField(g, K(0, 0, 0), 2, 1.0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, g.Fill(0), ErrNotInitialized)
	assert.Nil(t, g.Bytes())
}

func TestRoundTripLayouts(t *testing.T) {
	for _, tag := range layouts {
		t.Run(tag.String(), func(t *testing.T) {
			g := newGrid[particle](t, []int{3, 4, 5}, WithLayout(tag))
			assert.Equal(t, tag, g.Layout())
			fillParticles(t, g)

			it := g.Iterator()
			for it.Next() {
				k := it.Key()
				want := particleAt(k)

				got, err := g.Get(k)
				require.NoError(t, err)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("element %v mismatch (-want +got):\n%s", k, diff)
				}

				mass, err := GetField[float64](g, k, 2)
				require.NoError(t, err)
				assert.Equal(t, want.Mass, mass)

				pos, err := GetField[[3]float64](g, k, 0)
				require.NoError(t, err)
				assert.Equal(t, want.Pos, pos)
			}

			// single-field writes leave the other fields alone
			k := K(2, 3, 4)
			require.NoError(t, SetField(g, k, 3, int32(-9)))
			got := g.At(k)
			assert.Equal(t, int32(-9), got.ID)
			assert.Equal(t, particleAt(k).Mass, got.Mass)
		})
	}
}

func TestLayoutsIndistinguishable(t *testing.T) {
	a := newGrid[particle](t, []int{4, 3, 2}, WithLayout(Interleaved))
	b := newGrid[particle](t, []int{4, 3, 2}, WithLayout(PerField))
	fillParticles(t, a)
	fillParticles(t, b)

	assert.True(t, a.Equal(b))
	assert.NotEqual(t, a.Bytes(), b.Bytes())

	require.NoError(t, SetField(b, K(1, 1, 1), 2, 0.0))
	assert.False(t, a.Equal(b))
}

func TestFieldTypeChecks(t *testing.T) {
	g := newGrid[particle](t, []int{2, 2, 2})

	_, err := GetField[float32](g, K(0, 0, 0), 2)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = SetField(g, K(0, 0, 0), 7, 1.0)
	assert.ErrorIs(t, err, ErrFieldIndex)
}

func TestBoundsEveryAxis(t *testing.T) {
	extents := []int{3, 4, 5}
	g := newGrid[particle](t, extents)

	for axis := range extents {
		tests := []struct {
			name  string
			value int
			code  int
		}{
			{"negative", -1, CodeNegative},
			{"overflow", extents[axis], CodeOverflow},
		}
		for _, tt := range tests {
			k := K(0, 0, 0)
			k[axis] = tt.value

			_, err := g.Get(k)
			require.ErrorIs(t, err, ErrOutOfBounds, "axis %d %s", axis, tt.name)

			var be *BoundsError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, axis, be.Axis)
			assert.Equal(t, tt.value, be.Value)
			assert.Equal(t, extents[axis], be.Extent)
			assert.Equal(t, tt.code, be.Code)
			assert.Equal(t, tt.code, CodeOf(err))
			assert.Equal(t, tt.code, g.LastError())

			assert.ErrorIs(t, g.Set(k, particle{}), ErrOutOfBounds)
			_, err = g.View(k)
			assert.ErrorIs(t, err, ErrOutOfBounds)
		}
	}
}

func TestBoundsCheckDisabled(t *testing.T) {
	g := newGrid[particle](t, []int{2, 2}, WithBoundsCheck(false))

	require.NoError(t, g.Set(K(1, 1), particle{ID: 5}))
	assert.Equal(t, int32(5), g.At(K(1, 1)).ID)
	assert.Panics(t, func() { g.Get(K(2, 1)) })
}

func TestDimensionMismatch(t *testing.T) {
	g := newGrid[particle](t, []int{2, 2})

	_, err := g.Get(K(0, 0, 0))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = g.SubIterator(K(0), K(1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestView(t *testing.T) {
	for _, tag := range layouts {
		t.Run(tag.String(), func(t *testing.T) {
			g := newGrid[particle](t, []int{2, 3}, WithLayout(tag))
			k := K(1, 2)

			v, err := g.View(k)
			require.NoError(t, err)
			assert.Equal(t, 4, v.NumFields())
			assert.Equal(t, 5, v.Offset())

			v.Store(particle{Mass: 3.5, ID: 11})
			assert.Equal(t, 3.5, v.Field(2))
			assert.Equal(t, int32(11), v.Field(3))

			require.NoError(t, v.SetField(0, [3]float64{1, 2, 3}))
			assert.ErrorIs(t, v.SetField(0, 1.0), ErrTypeMismatch)
			assert.ErrorIs(t, v.SetField(1, nil), ErrTypeMismatch)

			// Raw aliases the grid memory.
			raw := v.Raw(3)
			raw[0] = 12
			got := g.At(k)
			assert.Equal(t, int32(12), got.ID)
			assert.Equal(t, [3]float64{1, 2, 3}, got.Pos)
			assert.Equal(t, got, v.Load())
		})
	}
}

func TestFieldNames(t *testing.T) {
	g, err := New[cell]([]int{4})
	require.NoError(t, err)
	assert.Equal(t, []string{"rho", "p", "tag"}, g.FieldNames())

	i, ok := g.FieldIndex("p")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	p, err := New[particle]([]int{1})
	require.NoError(t, err)
	assert.Equal(t, []string{"prop0", "prop1", "prop2", "prop3"}, p.FieldNames())
}

func TestSetFrom(t *testing.T) {
	src := newGrid[particle](t, []int{3, 3}, WithLayout(PerField))
	dst := newGrid[particle](t, []int{2, 2}, WithLayout(Interleaved))

	want := particle{Mass: 7, ID: 3, Pos: [3]float64{1, 1, 1}}
	require.NoError(t, src.Set(K(2, 2), want))
	require.NoError(t, dst.SetFrom(K(0, 1), src, K(2, 2)))
	assert.Equal(t, want, dst.At(K(0, 1)))

	err := dst.SetFrom(K(0, 0), src, K(3, 0))
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, CodeSourceOverflow, CodeOf(err))
	assert.Equal(t, CodeSourceOverflow, dst.LastError())

	err = dst.SetFrom(K(0, 0), src, K(0, -2))
	assert.Equal(t, CodeSourceNegative, CodeOf(err))

	err = dst.SetFrom(K(2, 0), src, K(0, 0))
	assert.Equal(t, CodeOverflow, CodeOf(err))

	unbound, _ := New[particle]([]int{3, 3})
	err = dst.SetFrom(K(0, 0), unbound, K(0, 0))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestFillAndEqual(t *testing.T) {
	a := newGrid[cell](t, []int{3, 2}, WithLayout(PerField))
	b := newGrid[cell](t, []int{3, 2}, WithLayout(Interleaved))

	require.NoError(t, a.Fill(0xFF))
	for _, by := range a.Bytes() {
		require.Equal(t, byte(0xFF), by)
	}
	assert.False(t, a.Equal(b))
	require.NoError(t, b.Fill(0xFF))
	assert.True(t, a.Equal(b))

	c := newGrid[cell](t, []int{2, 3})
	assert.False(t, a.Equal(c))
}

func TestMemoryBinding(t *testing.T) {
	heap := NewHeap()
	g, err := New[cell]([]int{4, 4}, WithHeap(heap))
	require.NoError(t, err)

	require.NoError(t, g.SetMemory())
	assert.Equal(t, Owned, g.Ownership())
	assert.ErrorIs(t, g.SetMemory(), ErrAlreadyBound)
	assert.Equal(t, 1, heap.Stats().Live)

	ext := make([]byte, 16*17)
	require.NoError(t, g.SetExternalMemory(ext))
	assert.Equal(t, Borrowed, g.Ownership())
	assert.Equal(t, 0, heap.Stats().Live, "owned block freed on rebind")

	require.NoError(t, g.Set(K(3, 3), cell{Rho: 1}))
	assert.NotEqual(t, make([]byte, len(ext)), ext, "writes land in caller memory")

	// Allocating over borrowed memory replaces the binding only.
	before := append([]byte(nil), ext...)
	require.NoError(t, g.SetMemory())
	assert.Equal(t, Owned, g.Ownership())
	assert.Equal(t, before, ext)

	require.NoError(t, g.Release())
	assert.Equal(t, Unbound, g.Ownership())
	assert.NoError(t, heap.Validate())

	assert.ErrorIs(t, g.SetExternalMemory(make([]byte, 10)), ErrShortMemory)
}

func TestEmptyGrid(t *testing.T) {
	g := newGrid[cell](t, []int{0, 0})
	assert.Equal(t, 0, g.Size())
	assert.False(t, g.Iterator().Next())

	require.NoError(t, g.Resize(2, 3))
	assert.Equal(t, []int{2, 3}, g.Shape())
	require.NoError(t, g.Set(K(1, 2), cell{Tag: 4}))
	assert.Equal(t, uint8(4), g.At(K(1, 2)).Tag)
}

func TestFailureLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g, err := New[cell]([]int{2}, WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = g.Get(K(0))
	require.Error(t, err)

	entries := logs.FilterMessage("grid access failed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, CodeNotInitialized, entries[0].ContextMap()["code"])
}

func TestDefaultMemoryUntracked(t *testing.T) {
	g, err := New[cell]([]int{64, 64, 16})
	require.NoError(t, err)
	require.NoError(t, g.SetMemory())
	assert.Nil(t, g.heap)

	d, err := g.Duplicate()
	require.NoError(t, err)
	require.NoError(t, d.Resize(32, 32, 8))
	assert.Nil(t, d.heap)

	// a dropped grid's block is left to the garbage collector
	freed := make(chan struct{})
	runtime.AddCleanup(&g.block[0], func(ch chan struct{}) { close(ch) }, freed)
	g, d = nil, nil

	assert.Eventually(t, func() bool {
		runtime.GC()
		select {
		case <-freed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}
