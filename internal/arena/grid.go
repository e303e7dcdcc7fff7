package arena

// Cell is a coordinate on the occupancy grid.
type Cell struct {
	X, Y int
}

// GridMap is a discretized occupancy view of the wall layout: a raw grid
// marking every cell a wall overlaps, plus an inflated grid where blocked
// cells are grown outward by a clearance radius so path corners keep distance
// from obstacles. Built once per episode; immutable afterwards.
type GridMap struct {
	cols, rows int
	cellSize   float64
	raw        []bool
	inflated   []bool
}

// NewGridMap builds both occupancy grids from the wall layout. Cells on the
// arena boundary are always blocked.
func NewGridMap(walls []Rect, arenaW, arenaH, cellSize float64, clearance int) *GridMap {
	cols := int(arenaW / cellSize)
	rows := int(arenaH / cellSize)
	g := &GridMap{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		raw:      make([]bool, cols*rows),
		inflated: make([]bool, cols*rows),
	}

	for _, w := range walls {
		x0 := maxInt(0, int(w.MinX()/cellSize))
		y0 := maxInt(0, int(w.MinY()/cellSize))
		x1 := minInt(cols-1, int((w.MaxX()-1)/cellSize))
		y1 := minInt(rows-1, int((w.MaxY()-1)/cellSize))
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				g.raw[cy*cols+cx] = true
			}
		}
	}

	// Boundary cells are impassable regardless of layout.
	for cx := 0; cx < cols; cx++ {
		g.raw[cx] = true
		g.raw[(rows-1)*cols+cx] = true
	}
	for cy := 0; cy < rows; cy++ {
		g.raw[cy*cols] = true
		g.raw[cy*cols+cols-1] = true
	}

	// Inflation: a plain expansion pass. Clearance is small and fixed, so a
	// distance transform would buy nothing.
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if !g.raw[cy*cols+cx] {
				continue
			}
			for dy := -clearance; dy <= clearance; dy++ {
				for dx := -clearance; dx <= clearance; dx++ {
					nx, ny := cx+dx, cy+dy
					if nx >= 0 && nx < cols && ny >= 0 && ny < rows {
						g.inflated[ny*cols+nx] = true
					}
				}
			}
		}
	}
	return g
}

// Cols returns the grid width in cells.
func (g *GridMap) Cols() int { return g.cols }

// Rows returns the grid height in cells.
func (g *GridMap) Rows() int { return g.rows }

// IsBlocked reports whether the cell is occupied. Out-of-range coordinates
// count as blocked: unknown space is impassable, not an error.
func (g *GridMap) IsBlocked(c Cell, inflated bool) bool {
	if c.X < 0 || c.Y < 0 || c.X >= g.cols || c.Y >= g.rows {
		return true
	}
	if inflated {
		return g.inflated[c.Y*g.cols+c.X]
	}
	return g.raw[c.Y*g.cols+c.X]
}

// WorldToCell converts a world position to its containing grid cell.
func (g *GridMap) WorldToCell(p Vec) Cell {
	return Cell{X: int(p.X / g.cellSize), Y: int(p.Y / g.cellSize)}
}

// CellToWorld converts a grid cell to the world position of its centre.
func (g *GridMap) CellToWorld(c Cell) Vec {
	return Vec{
		X: float64(c.X)*g.cellSize + g.cellSize/2,
		Y: float64(c.Y)*g.cellSize + g.cellSize/2,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
