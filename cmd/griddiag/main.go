// Command griddiag exercises the grid container and cell list against a
// configuration and reports what it finds.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/robert-malhotra/go-ndgrid/celllist"
	"github.com/robert-malhotra/go-ndgrid/internal/config"
	"github.com/robert-malhotra/go-ndgrid/ndgrid"
)

type particle struct {
	Pos  [3]float64 `grid:"pos"`
	Vel  [3]float32 `grid:"vel"`
	Mass float64    `grid:"mass"`
	ID   int32      `grid:"id"`
}

func main() {
	cfgPath := flag.String("config", "", "path to a TOML or YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "griddiag: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "griddiag: logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("diagnostic failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("diagnostic passed")
}

func run(cfg *config.Config, log *zap.Logger) error {
	heap := ndgrid.NewHeap()
	if err := checkGrid(cfg, heap, log); err != nil {
		return err
	}
	if err := heap.Validate(); err != nil {
		return fmt.Errorf("grid memory: %w", err)
	}
	st := heap.Stats()
	log.Info("heap",
		zap.Uint64("allocations", st.TotalAllocations),
		zap.Uint64("bytes_alloc", st.TotalBytesAlloc),
		zap.Uint64("bytes_free", st.TotalBytesFree),
		zap.Uint64("largest", st.LargestAlloc),
	)
	return checkCells(cfg, log)
}

func newGrid(cfg *config.Config, tag ndgrid.Layout, heap *ndgrid.Heap, log *zap.Logger) (*ndgrid.Grid[particle], error) {
	g, err := ndgrid.New[particle](cfg.Grid.Extents,
		ndgrid.WithLayout(tag),
		ndgrid.WithBoundsCheck(cfg.Grid.BoundsCheck),
		ndgrid.WithHeap(heap),
		ndgrid.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	if err := g.SetMemory(); err != nil {
		return nil, err
	}
	return g, nil
}

func sample(k ndgrid.Key) particle {
	var p particle
	for i := 0; i < len(k) && i < 3; i++ {
		p.Pos[i] = float64(k[i]) + 0.5
		p.Vel[i] = float32(i + 1)
	}
	off := 0
	for i := len(k) - 1; i >= 0; i-- {
		off = off*31 + k[i]
	}
	p.Mass = 1 + float64(off)/8
	p.ID = int32(off)
	return p
}

// checkGrid fills a grid, ships the interior mass and id fields into a grid
// of the other layout and then grows the source.
func checkGrid(cfg *config.Config, heap *ndgrid.Heap, log *zap.Logger) error {
	tag := cfg.LayoutTag()
	src, err := newGrid(cfg, tag, heap, log)
	if err != nil {
		return fmt.Errorf("source grid: %w", err)
	}
	defer src.Release()

	other := ndgrid.PerField
	if tag == ndgrid.PerField {
		other = ndgrid.Interleaved
	}
	dst, err := newGrid(cfg, other, heap, log)
	if err != nil {
		return fmt.Errorf("destination grid: %w", err)
	}
	defer dst.Release()

	it := src.Iterator()
	for it.Next() {
		if err := src.Set(it.Key(), sample(it.Key())); err != nil {
			return err
		}
	}

	mass, _ := src.FieldIndex("mass")
	id, _ := src.FieldIndex("id")
	fields := []int{mass, id}

	sub := src.MarginIterator(cfg.Grid.Margin)
	n, err := src.PackRequest(fields, sub)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	if err := src.Pack(ndgrid.NewBuffer(buf), fields, sub); err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	recv := dst.MarginIterator(cfg.Grid.Margin)
	if err := dst.Unpack(ndgrid.NewBuffer(buf), fields, recv); err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	log.Info("packed region",
		zap.Stringer("layout", tag),
		zap.Int("elements", sub.Volume()),
		zap.Int("bytes", n),
	)

	recv.Reset()
	for recv.Next() {
		k := recv.Key()
		want := sample(k)
		m, err := ndgrid.GetField[float64](dst, k, mass)
		if err != nil {
			return err
		}
		i, err := ndgrid.GetField[int32](dst, k, id)
		if err != nil {
			return err
		}
		if m != want.Mass || i != want.ID {
			return fmt.Errorf("element %v: got mass=%g id=%d, want mass=%g id=%d", k, m, i, want.Mass, want.ID)
		}
	}

	grown := src.Shape()
	for i := range grown {
		grown[i]++
	}
	if err := src.Resize(grown...); err != nil {
		return err
	}
	origin := ndgrid.K(make([]int, len(grown))...)
	got, err := src.Get(origin)
	if err != nil {
		return err
	}
	if got != sample(origin) {
		return errors.New("resize lost the element at the origin")
	}
	log.Info("grid resized", zap.Ints("extents", src.Shape()), zap.Stringer("ownership", src.Ownership()))
	return nil
}

// checkCells bins random particles and verifies every requested traversal
// order sees the same occupancy.
func checkCells(cfg *config.Config, log *zap.Logger) error {
	c := cfg.Cells
	box, err := celllist.NewBox(c.Low, c.High)
	if err != nil {
		return err
	}

	r := rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
	pos := make([][]float64, c.Particles)
	for i := range pos {
		pos[i] = make([]float64, box.Dim())
		for j := range pos[i] {
			pos[i][j] = c.Low[j] + r.Float64()*box.Width(j)
		}
	}

	var orders []celllist.Option
	switch c.Order {
	case "linear":
		orders = append(orders, celllist.WithLinear())
	case "hilbert":
		orders = append(orders, celllist.WithHilbert(c.CurveOrder))
	default:
		orders = append(orders, celllist.WithLinear(), celllist.WithHilbert(c.CurveOrder))
	}

	var first []int
	for _, order := range orders {
		b, err := celllist.NewBuilder(box, c.Divisions,
			order,
			celllist.WithPadding(c.Padding),
			celllist.WithLogger(log),
		)
		if err != nil {
			return err
		}
		if err := b.Build(pos); err != nil {
			return fmt.Errorf("%s build: %w", b.Order().Name(), err)
		}
		occ := b.Occupancy()
		log.Info("cell occupancy",
			zap.String("order", b.Order().Name()),
			zap.Int("cells", occ.Cells),
			zap.Int("elements", occ.Elements),
			zap.Int("empty", occ.Empty),
			zap.Int("max", occ.Max),
			zap.Float64("mean", occ.Mean),
			zap.Float64("stddev", occ.StdDev),
			zap.Float64("median", occ.Median),
		)
		counts := b.List().Counts()
		if first == nil {
			first = counts
		} else if !slices.Equal(first, counts) {
			return fmt.Errorf("%s order disagrees on cell counts", b.Order().Name())
		}
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
