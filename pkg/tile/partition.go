package tile

import "image"

// GridSize returns how many tile columns and rows cover a width x height raster
func GridSize(width, height, tileSize int) (cols, rows int) {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return 0, 0
	}
	return ceilDiv(width, tileSize), ceilDiv(height, tileSize)
}

// Partition splits a width x height level raster into cells of tileSize. Cells
// on the right column and bottom row are clamped to what is left of the level.
// Cells are returned row by row.
func Partition(level, width, height, tileSize int) []Cell {
	cols, rows := GridSize(width, height, tileSize)
	cells := make([]Cell, 0, cols*rows)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			left := j * tileSize
			upper := i * tileSize

			w := tileSize
			if left+tileSize >= width {
				w = width - left
			}
			h := tileSize
			if upper+tileSize >= height {
				h = height - upper
			}

			cells = append(cells, Cell{
				Level:  level,
				Row:    i,
				Col:    j,
				Left:   left,
				Upper:  upper,
				Width:  w,
				Height: h,
			})
		}
	}

	return cells
}

// Rect returns the cell as an image rectangle in level coordinates
func (c Cell) Rect() image.Rectangle {
	return image.Rect(c.Left, c.Upper, c.Left+c.Width, c.Upper+c.Height)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
