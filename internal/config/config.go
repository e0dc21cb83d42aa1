// Package config loads the settings of the grid diagnostic tool from a TOML
// or YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-ndgrid/internal/layout"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Grid    GridConfig    `toml:"grid" yaml:"grid"`
	Cells   CellsConfig   `toml:"cells" yaml:"cells"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type GridConfig struct {
	Extents     []int  `toml:"extents" yaml:"extents"`
	Layout      string `toml:"layout" yaml:"layout"` // "interleaved" or "per-field"
	BoundsCheck bool   `toml:"bounds_check" yaml:"bounds_check"`
	Margin      int    `toml:"margin" yaml:"margin"` // ghost width of the packed sub-region
}

type CellsConfig struct {
	Low        []float64 `toml:"low" yaml:"low"`
	High       []float64 `toml:"high" yaml:"high"`
	Divisions  []int     `toml:"divisions" yaml:"divisions"`
	Padding    int       `toml:"padding" yaml:"padding"`
	Order      string    `toml:"order" yaml:"order"`             // "linear", "hilbert" or "both"
	CurveOrder int       `toml:"curve_order" yaml:"curve_order"` // 0 = smallest covering order
	Particles  int       `toml:"particles" yaml:"particles"`
	Seed       uint64    `toml:"seed" yaml:"seed"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Load reads path over the defaults. The format follows the extension:
// .yaml and .yml are YAML, anything else TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the settings used when no file overrides them.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Extents:     []int{16, 16, 16},
			Layout:      "interleaved",
			BoundsCheck: true,
			Margin:      1,
		},
		Cells: CellsConfig{
			Low:        []float64{0, 0, 0},
			High:       []float64{1, 1, 1},
			Divisions:  []int{8, 8, 8},
			Padding:    1,
			Order:      "both",
			CurveOrder: 0,
			Particles:  1000,
			Seed:       1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks every setting and names the first bad key.
func (c *Config) Validate() error {
	if len(c.Grid.Extents) == 0 {
		return fmt.Errorf("%w: grid.extents is empty", ErrInvalid)
	}
	for i, e := range c.Grid.Extents {
		if e < 0 {
			return fmt.Errorf("%w: grid.extents[%d] = %d", ErrInvalid, i, e)
		}
	}
	if _, err := layout.ParseTag(c.Grid.Layout); err != nil {
		return fmt.Errorf("%w: grid.layout: %v", ErrInvalid, err)
	}
	if c.Grid.Margin < 0 {
		return fmt.Errorf("%w: grid.margin = %d", ErrInvalid, c.Grid.Margin)
	}

	dim := len(c.Cells.Divisions)
	if dim == 0 {
		return fmt.Errorf("%w: cells.divisions is empty", ErrInvalid)
	}
	if len(c.Cells.Low) != dim || len(c.Cells.High) != dim {
		return fmt.Errorf("%w: cells.low and cells.high need %d components", ErrInvalid, dim)
	}
	for i, d := range c.Cells.Divisions {
		if d < 1 {
			return fmt.Errorf("%w: cells.divisions[%d] = %d", ErrInvalid, i, d)
		}
		if !(c.Cells.Low[i] < c.Cells.High[i]) {
			return fmt.Errorf("%w: cells.low[%d] not below cells.high[%d]", ErrInvalid, i, i)
		}
	}
	if c.Cells.Padding < 0 {
		return fmt.Errorf("%w: cells.padding = %d", ErrInvalid, c.Cells.Padding)
	}
	switch c.Cells.Order {
	case "linear", "hilbert", "both":
	default:
		return fmt.Errorf("%w: cells.order %q", ErrInvalid, c.Cells.Order)
	}
	if c.Cells.CurveOrder < 0 {
		return fmt.Errorf("%w: cells.curve_order = %d", ErrInvalid, c.Cells.CurveOrder)
	}
	if c.Cells.Particles < 0 {
		return fmt.Errorf("%w: cells.particles = %d", ErrInvalid, c.Cells.Particles)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// LayoutTag returns the configured grid layout.
func (c *Config) LayoutTag() layout.Tag {
	tag, _ := layout.ParseTag(c.Grid.Layout)
	return tag
}
