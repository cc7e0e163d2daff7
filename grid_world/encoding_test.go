package grid_world

import (
	"testing"

	"gymtable/models"

	. "github.com/smartystreets/goconvey/convey"
)

// sampleGrid holds every object kind, with no boundary walls and no box contents.
func sampleGrid() *Grid {
	g := NewGrid(5, 4)
	g.WallRect(0, 0, 5, 4)
	g.Set(1, 1, models.NewKey(models.Yellow))
	g.Set(2, 1, models.NewBall(models.Purple))
	g.Set(3, 1, models.NewBox(models.Red, nil))
	g.Set(1, 2, models.NewDoor(models.Blue, true, false))
	g.Set(2, 2, models.NewDoor(models.Green, false, true))
	g.Set(3, 2, models.NewGoal())
	g.Set(4, 3, models.NewDoor(models.Grey, false, false))
	g.Set(0, 3, models.NewFloor(models.Red))
	g.Set(4, 0, models.NewLava())
	return g
}

func TestEncode(t *testing.T) {
	Convey("Encoding is indexed [y][x] with kind, color and door state", t, func() {
		g := sampleGrid()
		img := g.Encode(FullMask(g.Width, g.Height))
		So(img.Width(), ShouldEqual, 5)
		So(img.Height(), ShouldEqual, 4)
		So(img[1][2], ShouldEqual, [3]uint8{uint8(models.Ball), uint8(models.Purple), 0})
		So(img.At(2, 1), ShouldEqual, img[1][2])
		So(img[0][0], ShouldEqual, [3]uint8{uint8(models.Wall), uint8(models.Grey), 0})
		So(img[2][1], ShouldEqual, [3]uint8{uint8(models.Door), uint8(models.Blue), 1})
		So(img[3][4], ShouldEqual, [3]uint8{uint8(models.Door), uint8(models.Grey), 2})
		So(img[2][2], ShouldEqual, [3]uint8{uint8(models.Door), uint8(models.Green), 3})
	})

	Convey("Empty cells encode as empty and hidden cells as unseen", t, func() {
		g := NewGrid(2, 1)
		mask := NewMask(2, 1)
		mask[0][0] = true
		img := g.Encode(mask)
		So(img[0][0], ShouldEqual, [3]uint8{uint8(models.Empty), 0, 0})
		So(img[0][1], ShouldEqual, [3]uint8{uint8(models.Unseen), 0, 0})
	})

	Convey("Boundary walls encode as unseen even when visible", t, func() {
		sub := NewGrid(1, 1).Slice(-1, 0, 2, 1)
		img := sub.Encode(nil)
		So(img[0][0], ShouldEqual, [3]uint8{uint8(models.Unseen), 0, 0})
		So(img[0][1], ShouldEqual, [3]uint8{uint8(models.Empty), 0, 0})
	})

	Convey("Bytes flattens rows", t, func() {
		g := NewGrid(2, 1)
		g.Set(1, 0, models.NewGoal())
		So(g.Encode(nil).Bytes(), ShouldResemble, []byte{1, 0, 0, 8, 1, 0})
	})
}

func TestDecode(t *testing.T) {
	Convey("Decoding a fully visible encoding reproduces the grid", t, func() {
		g := sampleGrid()
		decoded, err := Decode(g.Encode(FullMask(g.Width, g.Height)))
		So(err, ShouldBeNil)
		So(decoded.Equal(g), ShouldBeTrue)
	})

	Convey("Re-encoding a decoded partial view is stable under the same mask", t, func() {
		g := sampleGrid()
		mask := NewMask(g.Width, g.Height)
		for x := 0; x < g.Width; x++ {
			mask[x][1] = true
			mask[x][2] = x%2 == 0
		}
		img := g.Encode(mask)
		decoded, err := Decode(img)
		So(err, ShouldBeNil)
		So(decoded.Get(0, 0), ShouldBeNil)
		So(decoded.Encode(mask), ShouldResemble, img)
	})

	Convey("Invalid encodings are rejected", t, func() {
		bad := []Image{
			{},
			{{{10, 0, 0}}},
			{{{uint8(models.Ball), 6, 0}}},
			{{{uint8(models.Door), 0, 0}}},
			{{{uint8(models.Door), 0, 4}}},
			{{{uint8(models.Ball), 0, 1}}},
			{{{1, 0, 0}, {1, 0, 0}}, {{1, 0, 0}}},
		}
		for _, img := range bad {
			_, err := Decode(img)
			So(err, ShouldNotBeNil)
		}
	})
}
