package levels

import (
	"strings"

	"gymtable/grid_world"
	"gymtable/models"
	"gymtable/table_env"

	"github.com/pkg/errors"
)

// Layout is a hand drawn level in the environment's text form: two characters per
// cell, one row per line, with exactly one agent drawn as a doubled arrow.
type Layout struct {
	grid     *grid_world.Grid
	start    models.Point
	startDir models.Direction
	mission  string
}

// DebugLayout is a small level with every mechanic in reach of the start.
var DebugLayout = []string{
	"WEWEWEWEWEWEWE",
	"WE>>  WE  ABWE",
	"WE    LY    WE",
	"WE  KYWE    WE",
	"WEWEWEWEBR  WE",
	"WEGG        WE",
	"WEWEWEWEWEWEWE",
}

const DebugMission = "fetch the key to reach the goal"

// NewLayout parses rows into a level.
func NewLayout(rows []string, mission string) (*Layout, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrBadLayout, "no rows")
	}
	if mission == "" {
		return nil, table_env.ErrNoMission
	}
	width := len(rows[0]) / 2
	if width == 0 || len(rows[0])%2 != 0 {
		return nil, errors.Wrapf(ErrBadLayout, "row 0 has odd or zero length %d", len(rows[0]))
	}

	lvl := &Layout{
		grid:     grid_world.NewGrid(width, len(rows)),
		start:    models.OffGrid,
		startDir: -1,
		mission:  mission,
	}
	for y, row := range rows {
		if len(row) != 2*width {
			return nil, errors.Wrapf(ErrBadLayout, "row %d has length %d, want %d", y, len(row), 2*width)
		}
		for x := 0; x < width; x++ {
			cell := row[2*x : 2*x+2]
			if dir, ok := DirectionFromArrow(cell); ok {
				if lvl.start != models.OffGrid {
					return nil, errors.Wrapf(ErrBadLayout, "second agent at (%d,%d)", x, y)
				}
				lvl.start = models.Point{X: x, Y: y}
				lvl.startDir = dir
				continue
			}
			obj, err := grid_world.ParseCell(cell)
			if err != nil {
				return nil, errors.Wrapf(ErrBadLayout, "cell (%d,%d): %v", x, y, err)
			}
			if obj != nil {
				obj.InitPos = models.Point{X: x, Y: y}
				obj.CurPos = obj.InitPos
			}
			lvl.grid.Set(x, y, obj)
		}
	}
	if lvl.start == models.OffGrid {
		return nil, errors.Wrap(ErrBadLayout, "no agent")
	}
	return lvl, nil
}

// DirectionFromArrow parses a doubled arrow cell like ">>".
func DirectionFromArrow(cell string) (models.Direction, bool) {
	if len(cell) != 2 || cell[0] != cell[1] {
		return 0, false
	}
	return models.DirectionFromArrow(rune(cell[0]))
}

// Size returns the layout's grid dimensions.
func (lvl *Layout) Size() (width, height int) {
	return lvl.grid.Width, lvl.grid.Height
}

// GenGrid installs a fresh copy of the layout so episodes never share objects.
func (lvl *Layout) GenGrid(env *table_env.Env, width, height int) error {
	if width != lvl.grid.Width || height != lvl.grid.Height {
		return errors.Wrapf(ErrBadLayout, "layout is %dx%d, env is %dx%d",
			lvl.grid.Width, lvl.grid.Height, width, height)
	}
	env.Grid = lvl.grid.Copy()
	env.StartPos = lvl.start
	env.StartDir = lvl.startDir
	env.Mission = lvl.mission
	return nil
}

// String renders the layout back into its text form.
func (lvl *Layout) String() string {
	lines := strings.Split(lvl.grid.String(), "\n")
	row := []byte(lines[lvl.start.Y])
	arrow := byte(lvl.startDir.Arrow())
	row[2*lvl.start.X], row[2*lvl.start.X+1] = arrow, arrow
	lines[lvl.start.Y] = string(row)
	return strings.Join(lines, "\n")
}
