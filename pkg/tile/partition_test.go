package tile

import "testing"

func TestPartitionCoverage(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
		tileSize      int
	}{
		{name: "exact multiple", width: 1024, height: 1024, tileSize: 512},
		{name: "ragged both axes", width: 1300, height: 517, tileSize: 254},
		{name: "single tile", width: 300, height: 200, tileSize: 512},
		{name: "one pixel tiles", width: 5, height: 3, tileSize: 1},
		{name: "one pixel remainder", width: 513, height: 257, tileSize: 256},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cells := Partition(1, tc.width, tc.height, tc.tileSize)

			cover := make([]int, tc.width*tc.height)
			for _, c := range cells {
				if c.Width <= 0 || c.Height <= 0 {
					t.Fatalf("Empty cell %+v", c)
				}
				for y := c.Upper; y < c.Upper+c.Height; y++ {
					for x := c.Left; x < c.Left+c.Width; x++ {
						if x >= tc.width || y >= tc.height {
							t.Fatalf("Cell %+v leaves the %dx%d raster", c, tc.width, tc.height)
						}
						cover[y*tc.width+x]++
					}
				}
			}

			for i, n := range cover {
				if n != 1 {
					t.Fatalf("Pixel (%d,%d) covered %d times", i%tc.width, i/tc.width, n)
				}
			}
		})
	}
}

func TestPartitionEdgeCells(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
		tileSize      int
		shortCol      bool
		shortRow      bool
	}{
		{name: "exact", width: 1024, height: 512, tileSize: 256, shortCol: false, shortRow: false},
		{name: "short right", width: 1000, height: 512, tileSize: 256, shortCol: true, shortRow: false},
		{name: "short bottom", width: 512, height: 700, tileSize: 256, shortCol: false, shortRow: true},
		{name: "short both", width: 1300, height: 517, tileSize: 254, shortCol: true, shortRow: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cols, rows := GridSize(tc.width, tc.height, tc.tileSize)
			for _, c := range Partition(1, tc.width, tc.height, tc.tileSize) {
				lastCol := c.Col == cols-1
				lastRow := c.Row == rows-1

				if short := c.Width < tc.tileSize; short != (lastCol && tc.shortCol) {
					t.Errorf("Cell %d_%d: width %d, expected short=%v", c.Row, c.Col, c.Width, lastCol && tc.shortCol)
				}
				if short := c.Height < tc.tileSize; short != (lastRow && tc.shortRow) {
					t.Errorf("Cell %d_%d: height %d, expected short=%v", c.Row, c.Col, c.Height, lastRow && tc.shortRow)
				}
			}
		})
	}
}

// Coarse levels must clamp against their own size, not the finest one
func TestPartitionUsesLevelSize(t *testing.T) {
	plan, err := NewPlan(Rectangular, 1300, 900, 256)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for level := plan.Levels; level >= 1; level-- {
		size := plan.LevelSize(level)
		for _, c := range plan.Cells(level) {
			if c.Level != level {
				t.Errorf("Expected level %d, got %d", level, c.Level)
			}
			if c.Left+c.Width > size.Width || c.Upper+c.Height > size.Height {
				t.Errorf("Level %d (%dx%d): cell %+v exceeds the level raster", level, size.Width, size.Height, c)
			}
		}
	}

	// 1300 -> 650 at level 2: last column is 650-512 wide
	cells := plan.Cells(plan.Levels - 1)
	last := cells[len(cells)-1]
	if last.Width != 650-512 {
		t.Errorf("Expected last column width %d, got %d", 650-512, last.Width)
	}
}

func TestPartitionOrder(t *testing.T) {
	cells := Partition(3, 600, 400, 256)
	expected := []struct{ row, col int }{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	if len(cells) != len(expected) {
		t.Fatalf("Expected %d cells, got %d", len(expected), len(cells))
	}
	for i, e := range expected {
		if cells[i].Row != e.row || cells[i].Col != e.col {
			t.Errorf("Cell %d: expected %d_%d, got %d_%d", i, e.row, e.col, cells[i].Row, cells[i].Col)
		}
	}
}

func TestCellRect(t *testing.T) {
	c := Cell{Left: 512, Upper: 256, Width: 100, Height: 50}
	r := c.Rect()
	if r.Min.X != 512 || r.Min.Y != 256 || r.Dx() != 100 || r.Dy() != 50 {
		t.Errorf("Unexpected rect %v", r)
	}
}

func TestGridSizeEmpty(t *testing.T) {
	if cols, rows := GridSize(0, 100, 256); cols != 0 || rows != 0 {
		t.Errorf("Expected empty grid, got %dx%d", cols, rows)
	}
	if cells := Partition(1, 100, 100, 0); len(cells) != 0 {
		t.Errorf("Expected no cells, got %d", len(cells))
	}
}
