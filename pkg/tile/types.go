package tile

// Output format constants
const (
	FormatJPEG Format = iota
	FormatPNG
)

// Format selects the encoding of written tiles
type Format int

// Ext returns the file extension used for the format, without the dot
func (f Format) Ext() string {
	if f == FormatPNG {
		return "png"
	}
	return "jpg"
}

func (f Format) String() string {
	return f.Ext()
}

// Variant constants
const (
	Rectangular Variant = iota
	Cube
)

// Variant selects the pyramid layout
type Variant int

func (v Variant) String() string {
	switch v {
	case Rectangular:
		return "rectangular"
	case Cube:
		return "cube"
	}
	return "unknown"
}

// ParseVariant maps a variant name back to its Variant
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "", "rectangular", "rect":
		return Rectangular, true
	case "cube":
		return Cube, true
	}
	return Rectangular, false
}

// Format returns the tile format actually used by the variant. The cube layout
// is always PNG.
func (v Variant) Format(requested Format) Format {
	if v == Cube {
		return FormatPNG
	}
	return requested
}

// Cell is one rectangular region of a level raster that becomes a tile file
type Cell struct {
	Level  int
	Row    int
	Col    int
	Left   int
	Upper  int
	Width  int
	Height int
}

// Size holds the raster dimensions of a pyramid level
type Size struct {
	Width  int
	Height int
}
