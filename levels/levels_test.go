package levels

import (
	"strings"
	"testing"

	"gymtable/models"
	"gymtable/table_env"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Levels are looked up by name", t, func() {
		So(Names(), ShouldResemble, []string{"debug", "doorkey", "empty", "layout"})

		gen, err := New(Spec{Name: "empty"})
		So(err, ShouldBeNil)
		So(gen, ShouldHaveSameTypeAs, &Empty{})

		_, err = New(Spec{Name: "maze"})
		So(errors.Cause(err), ShouldEqual, ErrUnknownLevel)
	})
}

func TestEmpty(t *testing.T) {
	Convey("The empty room has its goal in the far corner", t, func() {
		env, err := table_env.NewEnv(table_env.Config{Size: 6}, &Empty{})
		So(err, ShouldBeNil)
		So(env.Grid.Get(4, 4).Kind, ShouldEqual, models.Goal)
		So(env.AgentPos, ShouldResemble, models.Point{X: 1, Y: 1})
		So(env.AgentDir, ShouldEqual, models.Right)
		So(env.Mission, ShouldEqual, EmptyMission)

		Convey("and can be solved by walking there", func() {
			actions := []models.Action{
				models.MoveForward, models.MoveForward, models.MoveForward,
				models.TurnRight,
				models.MoveForward, models.MoveForward, models.MoveForward,
			}
			var reward float64
			var done bool
			for _, a := range actions {
				_, reward, done, _ = env.Step(a)
			}
			So(done, ShouldBeTrue)
			So(reward, ShouldAlmostEqual, 1-0.9*7.0/100, 1e-9)
		})
	})

	Convey("Random starts never land on the goal or a wall", t, func() {
		env, err := table_env.NewEnv(table_env.Config{Size: 5}, &Empty{RandomStart: true})
		So(err, ShouldBeNil)
		for seed := int64(1); seed < 30; seed++ {
			env.Seed(seed)
			_, err := env.Reset()
			So(err, ShouldBeNil)
			So(env.Grid.At(env.AgentPos), ShouldBeNil)
		}
	})

	Convey("Tiny rooms are rejected", t, func() {
		_, err := table_env.NewEnv(table_env.Config{Size: 2}, &Empty{})
		So(errors.Cause(err), ShouldEqual, ErrTooSmall)
	})
}

func TestDoorKey(t *testing.T) {
	Convey("Door key levels are solvable by construction", t, func() {
		for seed := int64(1); seed < 40; seed++ {
			env, err := table_env.NewEnv(table_env.Config{Size: 6, Seed: seed}, &DoorKey{})
			So(err, ShouldBeNil)
			So(env.Mission, ShouldEqual, DoorKeyMission)

			var door, key *models.Object
			var doorX, keyX int
			env.Grid.Visit(func(x, y int, obj *models.Object) {
				switch {
				case obj == nil:
				case obj.Kind == models.Door:
					door, doorX = obj, x
				case obj.Kind == models.Key:
					key, keyX = obj, x
				}
			})
			So(door, ShouldNotBeNil)
			So(key, ShouldNotBeNil)
			So(door.IsLocked, ShouldBeTrue)
			So(key.Color, ShouldEqual, door.Color)
			So(keyX, ShouldBeLessThan, doorX)
			So(env.AgentPos.X, ShouldBeLessThan, doorX)
			So(env.AgentPos, ShouldNotResemble, key.CurPos)
		}
	})
}

func TestLayout(t *testing.T) {
	Convey("Layouts round trip through the environment's text form", t, func() {
		lvl, err := NewLayout(DebugLayout, DebugMission)
		So(err, ShouldBeNil)
		So(lvl.String(), ShouldEqual, strings.Join(DebugLayout, "\n"))

		w, h := lvl.Size()
		env, err := table_env.NewEnv(table_env.Config{Width: w, Height: h}, lvl)
		So(err, ShouldBeNil)
		So(env.String(), ShouldEqual, strings.Join(DebugLayout, "\n"))
		So(env.Grid.Get(3, 2).IsLocked, ShouldBeTrue)

		Convey("Episodes do not share objects", func() {
			env.Step(models.MoveForward)
			env.Grid.Set(1, 5, nil)
			_, err := env.Reset()
			So(err, ShouldBeNil)
			So(env.Grid.Get(1, 5).Kind, ShouldEqual, models.Goal)
		})
	})

	Convey("Malformed layouts are rejected", t, func() {
		cases := map[string][]string{
			"no rows":      {},
			"ragged":       {"WEWE", "WE>>WE"},
			"odd":          {"WEW"},
			"no agent":     {"WEWE"},
			"two agents":   {">>VV"},
			"unknown cell": {">>ZZ"},
		}
		for name, rows := range cases {
			Convey(name, func() {
				_, err := NewLayout(rows, "mission")
				So(errors.Cause(err), ShouldEqual, ErrBadLayout)
			})
		}

		_, err := NewLayout([]string{">>"}, "")
		So(err, ShouldEqual, table_env.ErrNoMission)
	})

	Convey("The layout must match the configured size", t, func() {
		lvl, err := NewLayout([]string{"WEWEWE", "WE>>WE", "WEWEWE"}, "m")
		So(err, ShouldBeNil)
		_, err = table_env.NewEnv(table_env.Config{Size: 4}, lvl)
		So(errors.Cause(err), ShouldEqual, ErrBadLayout)
	})
}
