package voxel

import (
	"fmt"
	"iter"
	"strings"

	"pixel2gltf/internal/imagesrc"
)

const (
	DefaultCellSize       = 25
	DefaultVoxelDimension = 2.0
)

// DefaultBackground is the light grey most pixel-art exports use as canvas colour.
var DefaultBackground = RGB{R: 245, G: 245, B: 245}

// RGB is an 8-bit sRGB colour.
type RGB struct {
	R, G, B uint8
}

// SolidRule decides how a cell colour is compared with the background.
type SolidRule int

const (
	// RuleAll marks a cell solid only when red, green and blue all differ from the background.
	RuleAll SolidRule = iota
	// RuleAny marks a cell solid when at least one channel differs.
	RuleAny
)

func (r SolidRule) String() string {
	if r == RuleAny {
		return "any"
	}
	return "all"
}

// ParseSolidRule accepts "all" or "any"; the empty string means RuleAll.
func ParseSolidRule(s string) (SolidRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return RuleAll, nil
	case "any":
		return RuleAny, nil
	}
	return RuleAll, fmt.Errorf("voxel: unknown solid rule %q", s)
}

// Options controls cell classification and node placement.
type Options struct {
	CellSize       int
	Background     RGB
	VoxelDimension float32
	Rule           SolidRule
}

// DefaultOptions returns 25px cells, a (245,245,245) background and 2-unit voxels.
func DefaultOptions() Options {
	return Options{
		CellSize:       DefaultCellSize,
		Background:     DefaultBackground,
		VoxelDimension: DefaultVoxelDimension,
		Rule:           RuleAll,
	}
}

func (o Options) normalized() Options {
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.VoxelDimension <= 0 {
		o.VoxelDimension = DefaultVoxelDimension
	}
	return o
}

// IsSolid reports whether c counts as foreground. Comparison is exact per channel.
func (o Options) IsSolid(c RGB) bool {
	bg := o.Background
	if o.Rule == RuleAny {
		return c.R != bg.R || c.G != bg.G || c.B != bg.B
	}
	return c.R != bg.R && c.G != bg.G && c.B != bg.B
}

// Cell is one square tile of the image. Color is the tile's top-left pixel.
type Cell struct {
	Col, Row int
	Color    RGB
	Solid    bool
}

// Grid tiles a pixel buffer into CellSize squares starting at pixel (0,0).
// Tiles on the last row or column may be partial; they are still sampled at their
// top-left pixel, which always lies inside the image.
type Grid struct {
	buf  *imagesrc.PixelBuffer
	opts Options
}

// NewGrid returns a grid over buf.
func NewGrid(buf *imagesrc.PixelBuffer, opts Options) *Grid {
	return &Grid{buf: buf, opts: opts.normalized()}
}

// Size returns the number of columns and rows, counting partial tiles.
func (g *Grid) Size() (cols, rows int) {
	cs := g.opts.CellSize
	return (g.buf.Width + cs - 1) / cs, (g.buf.Height + cs - 1) / cs
}

// Cells yields every tile in row-major order: rows top to bottom, columns left to right.
func (g *Grid) Cells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		cs := g.opts.CellSize
		for y := 0; y < g.buf.Height; y += cs {
			for x := 0; x < g.buf.Width; x += cs {
				r, gr, b := g.buf.RGB(x, y)
				c := Cell{Col: x / cs, Row: y / cs, Color: RGB{R: r, G: gr, B: b}}
				c.Solid = g.opts.IsSolid(c.Color)
				if !yield(c) {
					return
				}
			}
		}
	}
}

// SolidCells yields only the tiles that differ from the background, in the same order as Cells.
func (g *Grid) SolidCells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for c := range g.Cells() {
			if c.Solid && !yield(c) {
				return
			}
		}
	}
}
