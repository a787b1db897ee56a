package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/world"
)

// SpatialGrid provides bucketed neighbor lookups over a bounded square world
// centered on the origin.
type SpatialGrid struct {
	cellSize float32
	half     float32
	cols     int
	cells    [][]world.EntityID
}

// NewSpatialGrid creates a grid covering [-half, half] on both axes.
func NewSpatialGrid(half, cellSize float32) *SpatialGrid {
	cols := int(2*half/cellSize) + 1

	cells := make([][]world.EntityID, cols*cols)
	for i := range cells {
		cells[i] = make([]world.EntityID, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		half:     half,
		cols:     cols,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(id world.EntityID, x, y float32) {
	col, row := g.cell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], id)
}

// Rebuild clears the grid and inserts every entity with a position.
func (g *SpatialGrid) Rebuild(w *world.World) {
	g.Clear()
	for _, id := range w.Query(components.TypePosition) {
		p := world.Get[components.Position](w, id)
		g.Insert(id, p.X, p.Y)
	}
}

// Candidates calls fn for every entity bucketed in a cell that overlaps the
// square of side 2*radius around (x, y), stopping early when fn returns
// false. Entities are visited in bucket order; fn must do its own exact
// distance check.
func (g *SpatialGrid) Candidates(x, y, radius float32, fn func(id world.EntityID) bool) {
	minCol, minRow := g.cell(x-radius, y-radius)
	maxCol, maxRow := g.cell(x+radius, y+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, id := range g.cells[row*g.cols+col] {
				if !fn(id) {
					return
				}
			}
		}
	}
}

// cell returns the clamped column and row for a world position.
func (g *SpatialGrid) cell(x, y float32) (int, int) {
	col := int((x + g.half) / g.cellSize)
	row := int((y + g.half) / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.cols {
		row = g.cols - 1
	}

	return col, row
}
