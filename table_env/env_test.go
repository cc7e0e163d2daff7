package table_env

import (
	"testing"

	"gymtable/grid_world"
	"gymtable/models"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

// room returns a generator for a walled room with the agent at (1,1) facing right,
// letting setup add objects or move the start.
func room(setup func(env *Env)) GeneratorFunc {
	return func(env *Env, width, height int) error {
		env.Grid = grid_world.NewGrid(width, height)
		env.Grid.WallRect(0, 0, width, height)
		env.StartPos = models.Point{X: 1, Y: 1}
		env.StartDir = models.Right
		env.Mission = "test the room"
		if setup != nil {
			setup(env)
		}
		return nil
	}
}

func newRoom(size int, setup func(env *Env)) *Env {
	env, err := NewEnv(Config{Size: size}, room(setup))
	if err != nil {
		panic(err)
	}
	return env
}

func put(x, y int, obj *models.Object) func(env *Env) {
	return func(env *Env) {
		env.Grid.Set(x, y, obj)
	}
}

func TestConfig(t *testing.T) {
	Convey("Config validation", t, func() {
		Convey("Size and width are mutually exclusive", func() {
			_, err := NewEnv(Config{Size: 5, Width: 5}, room(nil))
			So(errors.Cause(err), ShouldEqual, ErrConflictingSize)
		})

		Convey("Some size is required", func() {
			_, err := NewEnv(Config{}, room(nil))
			So(errors.Cause(err), ShouldEqual, ErrInvalidSize)
		})

		Convey("View size must be odd", func() {
			_, err := NewEnv(Config{Size: 5, ViewSize: 4}, room(nil))
			So(errors.Cause(err), ShouldEqual, ErrInvalidViewSize)
		})

		Convey("A generator is required", func() {
			_, err := NewEnv(Config{Size: 5}, nil)
			So(err, ShouldEqual, ErrNoGenerator)
		})

		Convey("Defaults are filled in", func() {
			env := newRoom(5, nil)
			So(env.Width, ShouldEqual, 5)
			So(env.Height, ShouldEqual, 5)
			So(env.MaxSteps, ShouldEqual, DefaultMaxSteps)
			So(env.ViewSize, ShouldEqual, DefaultViewSize)
			So(env.Config.Seed, ShouldEqual, DefaultSeed)
		})
	})

	Convey("Malformed levels are rejected on reset", t, func() {
		Convey("Missing mission", func() {
			_, err := NewEnv(Config{Size: 5}, room(func(env *Env) {
				env.Mission = ""
			}))
			So(errors.Cause(err), ShouldEqual, ErrNoMission)
		})

		Convey("Missing start", func() {
			_, err := NewEnv(Config{Size: 5}, room(func(env *Env) {
				env.StartPos = models.OffGrid
			}))
			So(errors.Cause(err), ShouldEqual, ErrNoStart)
		})

		Convey("Start inside a wall", func() {
			_, err := NewEnv(Config{Size: 5}, room(func(env *Env) {
				env.StartPos = models.Point{}
			}))
			So(errors.Cause(err), ShouldEqual, ErrStartBlocked)
		})

		Convey("Grid of the wrong size", func() {
			_, err := NewEnv(Config{Size: 5}, GeneratorFunc(func(env *Env, width, height int) error {
				return room(nil)(env, width+1, height)
			}))
			So(errors.Cause(err), ShouldEqual, ErrGridSizeMismatch)
		})
	})
}

func TestStep(t *testing.T) {
	Convey("Given an agent at (1,1) facing right", t, func() {
		Convey("Turning changes only the direction", func() {
			env := newRoom(5, nil)
			_, reward, done, info := env.Step(models.TurnLeft)
			So(env.AgentDir, ShouldEqual, models.Up)
			So(env.AgentPos, ShouldResemble, models.Point{X: 1, Y: 1})
			So(reward, ShouldEqual, 0)
			So(done, ShouldBeFalse)
			So(info, ShouldBeEmpty)

			env.Step(models.TurnRight)
			env.Step(models.TurnRight)
			So(env.AgentDir, ShouldEqual, models.Down)
			So(env.StepCount, ShouldEqual, 3)
		})

		Convey("Moving into a wall is a no-op that costs a step", func() {
			env := newRoom(5, nil)
			env.Step(models.TurnLeft)
			_, reward, done, _ := env.Step(models.MoveForward)
			So(env.AgentPos, ShouldResemble, models.Point{X: 1, Y: 1})
			So(reward, ShouldEqual, 0)
			So(done, ShouldBeFalse)
			So(env.StepCount, ShouldEqual, 2)
		})

		Convey("Moving onto the goal terminates with a discounted reward", func() {
			env := newRoom(5, put(2, 1, models.NewGoal()))
			_, reward, done, _ := env.Step(models.MoveForward)
			So(done, ShouldBeTrue)
			So(reward, ShouldAlmostEqual, 0.991, 1e-9)
			So(env.AgentPos, ShouldResemble, models.Point{X: 2, Y: 1})
		})

		Convey("Moving onto lava terminates without reward", func() {
			env := newRoom(5, put(2, 1, models.NewLava()))
			_, reward, done, _ := env.Step(models.MoveForward)
			So(done, ShouldBeTrue)
			So(reward, ShouldEqual, 0)
			So(env.AgentPos, ShouldResemble, models.Point{X: 1, Y: 1})
		})

		Convey("Closed doors block, open doors do not", func() {
			door := models.NewDoor(models.Blue, false, false)
			env := newRoom(5, put(2, 1, door))
			env.Step(models.MoveForward)
			So(env.AgentPos, ShouldResemble, models.Point{X: 1, Y: 1})

			env.Step(models.Toggle)
			So(door.IsOpen, ShouldBeTrue)
			env.Step(models.MoveForward)
			So(env.AgentPos, ShouldResemble, models.Point{X: 2, Y: 1})
		})

		Convey("Pickup then drop restores the cell", func() {
			key := models.NewKey(models.Yellow)
			env := newRoom(5, put(2, 1, key))
			before := env.Grid.Copy()

			env.Step(models.Pickup)
			So(env.Carrying(), ShouldEqual, key)
			So(key.CurPos, ShouldResemble, models.OffGrid)
			So(env.Grid.Get(2, 1), ShouldBeNil)

			env.Step(models.Drop)
			So(env.Carrying(), ShouldBeNil)
			So(env.Grid.Get(2, 1), ShouldEqual, key)
			So(key.CurPos, ShouldResemble, models.Point{X: 2, Y: 1})
			So(env.Grid.Equal(before), ShouldBeTrue)
		})

		Convey("Pickup with full hands changes nothing", func() {
			ball := models.NewBall(models.Red)
			env := newRoom(5, put(2, 1, ball))
			held := models.NewKey(models.Blue)
			env.SetCarrying(held)

			env.Step(models.Pickup)
			So(env.Carrying(), ShouldEqual, held)
			So(env.Grid.Get(2, 1), ShouldEqual, ball)
		})

		Convey("Drop onto an occupied cell changes nothing", func() {
			ball := models.NewBall(models.Red)
			env := newRoom(5, put(2, 1, ball))
			held := models.NewKey(models.Blue)
			env.SetCarrying(held)

			env.Step(models.Drop)
			So(env.Carrying(), ShouldEqual, held)
			So(env.Grid.Get(2, 1), ShouldEqual, ball)
		})

		Convey("A locked door opens only with the matching key", func() {
			door := models.NewDoor(models.Purple, false, true)
			env := newRoom(5, put(2, 1, door))

			env.Step(models.Toggle)
			So(door.IsLocked, ShouldBeTrue)

			env.SetCarrying(models.NewKey(models.Red))
			env.Step(models.Toggle)
			So(door.IsLocked, ShouldBeTrue)

			env.SetCarrying(models.NewKey(models.Purple))
			env.Step(models.Toggle)
			So(door.IsLocked, ShouldBeFalse)
			So(door.IsOpen, ShouldBeTrue)
		})

		Convey("Toggling a box reveals its contents", func() {
			ball := models.NewBall(models.Green)
			env := newRoom(5, put(2, 1, models.NewBox(models.Yellow, ball)))
			env.Step(models.Toggle)
			So(env.Grid.Get(2, 1), ShouldEqual, ball)
		})

		Convey("Done is a no-op", func() {
			env := newRoom(5, nil)
			before := env.String()
			_, _, done, _ := env.Step(models.Done)
			So(done, ShouldBeFalse)
			So(env.String(), ShouldEqual, before)
		})

		Convey("Unknown actions panic", func() {
			env := newRoom(5, nil)
			So(func() { env.Step(models.NumActions) }, ShouldPanic)
		})
	})

	Convey("Episodes end at max steps", t, func() {
		env, err := NewEnv(Config{Size: 5, MaxSteps: 3}, room(nil))
		So(err, ShouldBeNil)

		for i := 0; i < 2; i++ {
			_, _, done, _ := env.Step(models.TurnLeft)
			So(done, ShouldBeFalse)
		}
		_, reward, done, _ := env.Step(models.TurnLeft)
		So(done, ShouldBeTrue)
		So(reward, ShouldEqual, 0)
		So(env.StepsRemaining(), ShouldEqual, 0)

		Convey("and stay ended until reset", func() {
			_, reward, done, _ := env.Step(models.TurnLeft)
			So(done, ShouldBeTrue)
			So(reward, ShouldEqual, 0)
			So(env.StepCount, ShouldEqual, 3)

			_, err := env.Reset()
			So(err, ShouldBeNil)
			So(env.Done(), ShouldBeFalse)
			So(env.StepCount, ShouldEqual, 0)
		})
	})
}

func TestReset(t *testing.T) {
	Convey("Reseeding reproduces the level", t, func() {
		gen := room(func(env *Env) {
			_, err := env.PlaceObj(models.NewGoal(), models.Point{}, models.Point{}, nil, Unbounded)
			So(err, ShouldBeNil)
			_, err = env.PlaceAgent(models.Point{X: 1, Y: 1}, models.Point{X: 6, Y: 6}, true, Unbounded)
			So(err, ShouldBeNil)
		})
		env, err := NewEnv(Config{Size: 8}, gen)
		So(err, ShouldBeNil)

		env.Seed(42)
		env.Reset()
		first := env.String()

		env.Seed(42)
		env.Reset()
		So(env.String(), ShouldEqual, first)
	})

	Convey("Reset clears the inventory", t, func() {
		env := newRoom(5, nil)
		env.SetCarrying(models.NewKey(models.Red))
		env.Reset()
		So(env.Carrying(), ShouldBeNil)
	})
}

func TestString(t *testing.T) {
	Convey("The agent is drawn as its doubled arrow", t, func() {
		env := newRoom(4, put(2, 2, models.NewDoor(models.Yellow, true, false)))
		So(env.String(), ShouldEqual, ""+
			"WEWEWEWE\n"+
			"WE>>  WE\n"+
			"WE  _YWE\n"+
			"WEWEWEWE")
	})
}
