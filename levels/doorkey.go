package levels

import (
	"gymtable/grid_world"
	"gymtable/models"
	"gymtable/table_env"

	"github.com/pkg/errors"
)

const DoorKeyMission = "use the key to open the door and then get to the goal"

// maxPlacementTries bounds rejection sampling in generated levels; the regions are
// never full, so running out indicates a broken generator.
const maxPlacementTries = 1000

// DoorKey splits the room in two with a wall holding a locked door. The agent and the
// matching key start on the left, the goal is in the bottom-right corner.
type DoorKey struct{}

func (lvl *DoorKey) GenGrid(env *table_env.Env, width, height int) error {
	if width < 5 || height < 4 {
		return errors.Wrapf(ErrTooSmall, "door key needs 5x4, got %dx%d", width, height)
	}

	env.Grid = grid_world.NewGrid(width, height)
	env.Grid.WallRect(0, 0, width, height)

	goal := models.NewGoal()
	goalPos := models.Point{X: width - 2, Y: height - 2}
	env.Grid.Put(goalPos, goal)
	goal.InitPos, goal.CurPos = goalPos, goalPos

	splitX := env.RandInt(2, width-2)
	env.Grid.VertWall(splitX, 0, height)

	color := env.RandColor()
	door := models.NewDoor(color, false, true)
	doorPos := models.Point{X: splitX, Y: env.RandInt(1, height-1)}
	env.Grid.Put(doorPos, door)
	door.InitPos, door.CurPos = doorPos, doorPos

	left := models.Point{X: splitX, Y: height}
	if _, err := env.PlaceAgent(models.Point{}, left, true, maxPlacementTries); err != nil {
		return err
	}
	if _, err := env.PlaceObj(models.NewKey(color), models.Point{}, left, nil, maxPlacementTries); err != nil {
		return errors.Wrap(err, "place key")
	}

	env.Mission = DoorKeyMission
	return nil
}
