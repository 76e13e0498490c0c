package tile

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// cubePrefix is the face letter used for cube tiles
const cubePrefix = "x"

// TileName returns the file name of the tile at row, col. Rectangular tiles
// carry the source stem as prefix; cube tiles always use the x prefix and PNG.
func (v Variant) TileName(prefix string, row, col int, format Format) string {
	if v == Cube {
		return fmt.Sprintf("%s%d_%d.%s", cubePrefix, row, col, FormatPNG.Ext())
	}
	return fmt.Sprintf("%s%d_%d.%s", prefix, row, col, format.Ext())
}

// ParseTileName recovers row and col from a name produced by TileName with the
// same prefix.
func (v Variant) ParseTileName(prefix, name string) (row, col int, err error) {
	if v == Cube {
		prefix = cubePrefix
	}

	ext := path.Ext(name)
	switch ext {
	case ".png":
	case ".jpg":
		if v == Cube {
			return 0, 0, fmt.Errorf("cube tile %q must be png", name)
		}
	default:
		return 0, 0, fmt.Errorf("tile %q has unknown extension %q", name, ext)
	}

	rest, ok := strings.CutPrefix(strings.TrimSuffix(name, ext), prefix)
	if !ok {
		return 0, 0, fmt.Errorf("tile %q does not start with %q", name, prefix)
	}

	r, c, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, 0, fmt.Errorf("tile %q is not of the form row_col", name)
	}
	if row, err = parseIndex(r); err != nil {
		return 0, 0, fmt.Errorf("tile %q: row: %w", name, err)
	}
	if col, err = parseIndex(c); err != nil {
		return 0, 0, fmt.Errorf("tile %q: col: %w", name, err)
	}
	return row, col, nil
}

// TilePath returns the path of a tile below root
func TilePath(root string, level int, name string) string {
	return filepath.Join(root, strconv.Itoa(level), name)
}

// LevelDir returns the directory holding the tiles of a level
func LevelDir(root string, level int) string {
	return filepath.Join(root, strconv.Itoa(level))
}

// ParseTilePath recovers level, row and col from a path built by TilePath
func (v Variant) ParseTilePath(prefix, p string) (level, row, col int, err error) {
	level, err = parseIndex(filepath.Base(filepath.Dir(p)))
	if err != nil || level < 1 {
		return 0, 0, 0, fmt.Errorf("tile path %q has no level directory", p)
	}
	row, col, err = v.ParseTileName(prefix, filepath.Base(p))
	if err != nil {
		return 0, 0, 0, err
	}
	return level, row, col, nil
}

// Stem returns the base name of a source path without its extension. Both
// local paths and gs:// object names are accepted.
func Stem(p string) string {
	base := path.Base(filepath.ToSlash(p))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

func parseIndex(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return strconv.Atoi(s)
}
