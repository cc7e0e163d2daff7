// cell_views contains views derived from the Board view-model.
package cell_views

import (
	"fmt"

	"gymtable/models"
	"gymtable/table_env"
)

// Board converts a frame into flat, template friendly view parameters. Cells are
// indexed [x][y] in svg orientation, where (0,0) is the top left cell just as in the
// environment's text dump. As a rule of thumb, Board fields should be immediately usable
// as view parameters.
type Board struct {
	Cells   [][]Cell
	Mission string
	Status  string
}

// Cell is a tile filled with Fill, optionally overlaid with a Glyph drawn in GlyphFill.
type Cell struct {
	X, Y      int
	Fill      string
	Glyph     string
	GlyphFill string
	Visible   bool
}

const emptyFill = "#000000"

var agentFill = models.Red.RGB().Hex()

// glyphs draw the shapes that are not plain squares.
var glyphs = map[models.Shape]string{
	models.ShapeDoorOpen:   "▯",
	models.ShapeDoorClosed: "▮",
	models.ShapeDoorLocked: "▣",
	models.ShapeKey:        "⚷",
	models.ShapeCircle:     "●",
	models.ShapeBox:        "□",
	models.ShapeWaves:      "≈",
}

// Convert transforms a frame into the board view-model.
func Convert(frame table_env.Frame) Board {
	cells := make([][]Cell, frame.Width)
	for x := range cells {
		cells[x] = make([]Cell, frame.Height)
		for y := range cells[x] {
			cells[x][y] = Cell{X: x, Y: y, Fill: emptyFill}
		}
	}

	for _, cf := range frame.Cells {
		cell := &cells[cf.X][cf.Y]
		cell.Fill = cf.Fill
		cell.Glyph = glyphs[cf.Shape]
		switch {
		case cf.Shape == models.ShapeWaves:
			cell.GlyphFill = emptyFill
		case cell.Glyph != "":
			// Objects drawn as glyphs sit on an empty tile in their own color.
			cell.Fill = emptyFill
			cell.GlyphFill = cf.Fill
		}
	}
	for _, p := range frame.Visible {
		cells[p.X][p.Y].Visible = true
	}

	agent := &cells[frame.Agent.Pos.X][frame.Agent.Pos.Y]
	agent.Glyph = frame.Agent.Arrow
	agent.GlyphFill = agentFill

	status := fmt.Sprintf("step %d/%d", frame.StepCount, frame.MaxSteps)
	if frame.Agent.Carrying != nil {
		status += ", carrying " + frame.Agent.Carrying.Kind
	}
	if frame.Done {
		status += ", done"
	}

	return Board{
		Cells:   cells,
		Mission: frame.Mission,
		Status:  status,
	}
}
