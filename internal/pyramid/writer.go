package pyramid

import (
	"bytes"
	"image"
	"os"
	"path/filepath"

	"github.com/kiesman99/tilepyramid/internal/raster"
	"github.com/kiesman99/tilepyramid/pkg/tile"
)

// Writer crops cells out of a level raster and stores them as tile files
type Writer struct {
	Root    string
	Variant tile.Variant
	Format  tile.Format
	Prefix  string
	Quality int
}

// EnsureLevel creates the directory of a level
func (w *Writer) EnsureLevel(level int) error {
	dir := tile.LevelDir(w.Root, level)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return tile.Wrap(tile.KindIO, "create level directory", dir, err)
	}
	return nil
}

// Path returns where the tile of cell is stored
func (w *Writer) Path(cell tile.Cell) string {
	return tile.TilePath(w.Root, cell.Level, w.Variant.TileName(w.Prefix, cell.Row, cell.Col, w.Format))
}

// Write crops cell from img, encodes it and writes the tile file
func (w *Writer) Write(img image.Image, cell tile.Cell) error {
	path := w.Path(cell)

	cropped, err := raster.Crop(img, cell.Rect())
	if err != nil {
		return tile.Wrap(tile.KindImageProcessing, "crop tile", path, err)
	}

	var buf bytes.Buffer
	if err := raster.Encode(&buf, cropped, w.Format, w.Quality); err != nil {
		return tile.Wrap(tile.KindImageProcessing, "encode tile", path, err)
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return tile.Wrap(tile.KindIO, "write tile", path, err)
	}
	return nil
}

// writeFile replaces path with data as a whole. A crash never leaves a
// truncated tile behind.
func writeFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tile-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
