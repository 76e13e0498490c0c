package tile

import (
	"math"
)

// DefaultTileSize is the tile edge used when none is configured
const DefaultTileSize = 512

// MaxDimension is the largest source width or height that can be planned.
// With both sides at most MaxDimension the tile count of a pyramid fits in
// an int even at a tile size of one pixel.
const MaxDimension = math.MaxInt32

// Plan describes the shape of a pyramid: its finest raster size, the tile edge
// and how many levels it has. Level Levels is the full resolution raster and
// level 1 the coarsest.
type Plan struct {
	Variant  Variant
	TileSize int
	Width    int
	Height   int
	Levels   int
}

// NewPlan computes the plan for a source of width x height pixels. The
// requested tile size is clamped to the shorter side of the source.
func NewPlan(variant Variant, width, height, tileSize int) (Plan, error) {
	if width <= 0 || height <= 0 {
		return Plan{}, Errorf(KindPlanning, "plan", "", "invalid source size %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return Plan{}, Errorf(KindPlanning, "plan", "", "source size %dx%d exceeds %d pixels per side", width, height, MaxDimension)
	}
	if tileSize <= 0 {
		return Plan{}, Errorf(KindPlanning, "plan", "", "invalid tile size %d", tileSize)
	}
	if variant == Cube && width != height {
		return Plan{}, Errorf(KindUnsupportedSourceImage, "plan", "", "cube source must be square, got %dx%d", width, height)
	}

	base := min(width, height)
	tileSize = min(tileSize, base)

	levels, err := LevelCount(base, tileSize)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Variant:  variant,
		TileSize: tileSize,
		Width:    width,
		Height:   height,
		Levels:   levels,
	}, nil
}

// LevelCount returns the number of levels needed to bring base down to
// tileSize by repeated halving. A finest level that would only duplicate the
// resolution of the level below it is dropped.
func LevelCount(base, tileSize int) (int, error) {
	if base <= 0 || tileSize <= 0 {
		return 0, Errorf(KindPlanning, "level count", "", "invalid base %d or tile size %d", base, tileSize)
	}
	tileSize = min(tileSize, base)

	levels := int(math.Ceil(math.Log2(float64(base)/float64(tileSize)))) + 1

	// The correction looks at level levels-1, which does not exist for a
	// single level pyramid.
	if levels >= 2 {
		second := math.Round(float64(base) / math.Exp2(float64(levels-2)))
		if int(second) == tileSize {
			levels--
		}
	}

	if levels < 1 {
		return 0, Errorf(KindPlanning, "level count", "", "base %d and tile size %d give %d levels", base, tileSize, levels)
	}
	return levels, nil
}

// Halve returns the size of a dimension one level down. Levels never shrink
// below one pixel.
func Halve(d int) int {
	return max(d/2, 1)
}

// CubeSize returns the edge of a square pyramid's finest level
func (p Plan) CubeSize() int {
	return p.Width
}

// LevelSize returns the raster dimensions of the given level, obtained by
// halving the finest dimensions once per level below Levels.
func (p Plan) LevelSize(level int) Size {
	w, h := p.Width, p.Height
	for l := p.Levels; l > level; l-- {
		w, h = Halve(w), Halve(h)
	}
	return Size{Width: w, Height: h}
}

// Grid returns the number of tile columns and rows of the given level
func (p Plan) Grid(level int) (cols, rows int) {
	s := p.LevelSize(level)
	return GridSize(s.Width, s.Height, p.TileSize)
}

// Cells partitions the given level into tile cells
func (p Plan) Cells(level int) []Cell {
	s := p.LevelSize(level)
	return Partition(level, s.Width, s.Height, p.TileSize)
}

// TileCount returns the number of tiles over all levels
func (p Plan) TileCount() int {
	total := 0
	for level := p.Levels; level >= 1; level-- {
		cols, rows := p.Grid(level)
		total += cols * rows
	}
	return total
}

// Format returns the tile format the plan's variant writes
func (p Plan) Format(png bool) Format {
	if png {
		return p.Variant.Format(FormatPNG)
	}
	return p.Variant.Format(FormatJPEG)
}
