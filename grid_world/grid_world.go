// grid_world implements the fixed-size grid of world objects and the operations used
// to build the agent's partial view of it: slicing, rotation, visibility and encoding.
package grid_world

import (
	"fmt"
	"strings"

	"gymtable/models"
)

// Grid is a dense width x height array of optional objects, indexed [x][y].
// A nil cell is empty. The agent is never stored in a grid.
type Grid struct {
	Width, Height int
	cells         [][]*models.Object
}

// NewGrid returns an empty grid. Both dimensions must be positive.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid grid dimensions %dx%d", width, height))
	}
	cells := make([][]*models.Object, width)
	for x := range cells {
		cells[x] = make([]*models.Object, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		cells:  cells,
	}
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g *Grid) mustBeInBounds(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("grid access (%d,%d) out of bounds for %dx%d grid", x, y, g.Width, g.Height))
	}
}

// Get returns the object at (x, y), or nil if the cell is empty.
// Out of bounds access is a programming error and panics.
func (g *Grid) Get(x, y int) *models.Object {
	g.mustBeInBounds(x, y)
	return g.cells[x][y]
}

// Set stores obj at (x, y); obj may be nil to clear the cell.
// Out of bounds access is a programming error and panics.
func (g *Grid) Set(x, y int, obj *models.Object) {
	g.mustBeInBounds(x, y)
	g.cells[x][y] = obj
}

// At and Put are the Point forms of Get and Set.
func (g *Grid) At(p models.Point) *models.Object {
	return g.Get(p.X, p.Y)
}

func (g *Grid) Put(p models.Point, obj *models.Object) {
	g.Set(p.X, p.Y, obj)
}

// HorzWall places a run of walls starting at (x, y) going right.
func (g *Grid) HorzWall(x, y, length int) {
	for i := 0; i < length; i++ {
		g.Set(x+i, y, models.NewWall())
	}
}

// VertWall places a run of walls starting at (x, y) going down.
func (g *Grid) VertWall(x, y, length int) {
	for j := 0; j < length; j++ {
		g.Set(x, y+j, models.NewWall())
	}
}

// WallRect outlines the w x h rectangle anchored at (x, y) with walls.
func (g *Grid) WallRect(x, y, w, h int) {
	g.HorzWall(x, y, w)
	g.HorzWall(x, y+h-1, w)
	g.VertWall(x, y, h)
	g.VertWall(x+w-1, y, h)
}

// Visit calls fn for every cell, column by column.
func (g *Grid) Visit(fn func(x, y int, obj *models.Object)) {
	for x := range g.cells {
		for y := range g.cells[x] {
			fn(x, y, g.cells[x][y])
		}
	}
}

// Slice extracts the w x h sub-grid anchored at (topX, topY). Positions falling outside
// of this grid are filled with boundary walls so the view never silently shows open space
// past the map edge. The sub-grid shares objects with this grid.
func (g *Grid) Slice(topX, topY, w, h int) *Grid {
	sub := NewGrid(w, h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			x, y := topX+i, topY+j
			if g.InBounds(x, y) {
				sub.cells[i][j] = g.cells[x][y]
			} else {
				sub.cells[i][j] = models.NewBoundary()
			}
		}
	}
	return sub
}

// RotateLeft returns a new grid rotated 90 degrees counter-clockwise: the cell at (i, j)
// moves to (j, Width-1-i), and the dimensions swap.
func (g *Grid) RotateLeft() *Grid {
	rotated := NewGrid(g.Height, g.Width)
	for i := 0; i < g.Width; i++ {
		for j := 0; j < g.Height; j++ {
			rotated.cells[j][rotated.Height-1-i] = g.cells[i][j]
		}
	}
	return rotated
}

// Copy returns a deep copy of the grid.
func (g *Grid) Copy() *Grid {
	cp := NewGrid(g.Width, g.Height)
	g.Visit(func(x, y int, obj *models.Object) {
		cp.cells[x][y] = obj.Clone()
	})
	return cp
}

// Equal reports whether both grids hold equal objects in every cell.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for x := range g.cells {
		for y := range g.cells[x] {
			if !g.cells[x][y].Equal(other.cells[x][y]) {
				return false
			}
		}
	}
	return true
}

// String dumps the grid one row per line, two characters per cell.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			sb.WriteString(CellString(g.cells[x][y]))
		}
		if y < g.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
