package grid_world

import "gymtable/models"

// Mask flags visible cells of a grid, indexed [x][y] like the grid itself.
type Mask [][]bool

// NewMask returns an all-false mask.
func NewMask(width, height int) Mask {
	mask := make(Mask, width)
	for x := range mask {
		mask[x] = make([]bool, height)
	}
	return mask
}

// FullMask returns a mask in which every cell is visible.
func FullMask(width, height int) Mask {
	mask := NewMask(width, height)
	for x := range mask {
		for y := range mask[x] {
			mask[x][y] = true
		}
	}
	return mask
}

func (m Mask) Width() int {
	return len(m)
}

func (m Mask) Height() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Count returns the number of visible cells.
func (m Mask) Count() (n int) {
	for x := range m {
		for y := range m[x] {
			if m[x][y] {
				n++
			}
		}
	}
	return
}

func seeThrough(obj *models.Object) bool {
	return obj == nil || obj.SeeBehind()
}

// ProcessVis computes which cells are visible from the agent standing at agent, a cell
// on the bottom row of a view whose forward direction is -y. Rows are scanned from the
// agent's row upward. Within a row, visibility spreads sideways in a left-to-right and
// then a right-to-left pass; every visible, see-through cell also lights the cell above
// it and the upper diagonal toward the direction of the pass. Occluders are themselves
// visible but spread nothing.
//
// Cells left invisible are cleared from the grid, so the grid afterwards only shows what
// the agent can see. Boundary walls from Slice block the view but are never visible.
func (g *Grid) ProcessVis(agent models.Point) Mask {
	mask := NewMask(g.Width, g.Height)
	mask[agent.X][agent.Y] = true

	for j := g.Height - 1; j >= 0; j-- {
		for i := 0; i < g.Width-1; i++ {
			if !mask[i][j] || !seeThrough(g.cells[i][j]) {
				continue
			}
			mask[i+1][j] = true
			if j > 0 {
				mask[i+1][j-1] = true
				mask[i][j-1] = true
			}
		}

		for i := g.Width - 1; i > 0; i-- {
			if !mask[i][j] || !seeThrough(g.cells[i][j]) {
				continue
			}
			mask[i-1][j] = true
			if j > 0 {
				mask[i-1][j-1] = true
				mask[i][j-1] = true
			}
		}
	}
	g.HideBoundary(mask)

	for i := range mask {
		for j := range mask[i] {
			if !mask[i][j] {
				g.cells[i][j] = nil
			}
		}
	}

	return mask
}

// HideBoundary clears the mask over boundary walls. Encode writes them as unseen, so a
// mask that agrees with the encoding must not count them as visible.
func (g *Grid) HideBoundary(mask Mask) {
	for i := range mask {
		for j := range mask[i] {
			if obj := g.cells[i][j]; obj != nil && obj.IsBoundary() {
				mask[i][j] = false
			}
		}
	}
}
