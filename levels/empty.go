package levels

import (
	"gymtable/grid_world"
	"gymtable/models"
	"gymtable/table_env"

	"github.com/pkg/errors"
)

const EmptyMission = "get to the green goal square"

// Empty is a walled room with the goal in the bottom-right corner. The agent starts in
// the top-left corner facing right, or anywhere in the room with RandomStart.
type Empty struct {
	RandomStart bool
}

func (lvl *Empty) GenGrid(env *table_env.Env, width, height int) error {
	if width < 3 || height < 3 {
		return errors.Wrapf(ErrTooSmall, "empty room needs 3x3, got %dx%d", width, height)
	}

	env.Grid = grid_world.NewGrid(width, height)
	env.Grid.WallRect(0, 0, width, height)

	goal := models.NewGoal()
	goalPos := models.Point{X: width - 2, Y: height - 2}
	env.Grid.Put(goalPos, goal)
	goal.InitPos, goal.CurPos = goalPos, goalPos

	env.Mission = EmptyMission

	if lvl.RandomStart {
		_, err := env.PlaceAgent(models.Point{}, models.Point{}, true, table_env.Unbounded)
		return err
	}
	env.StartPos = models.Point{X: 1, Y: 1}
	env.StartDir = models.Right
	return nil
}
