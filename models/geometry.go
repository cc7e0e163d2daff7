package models

import "fmt"

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

// OffGrid marks the position of an object that is not in any grid cell,
// e.g. while it is carried by the agent.
var OffGrid = Point{-1, -1}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale multiplies both components by k.
func (p Point) Scale(k int) Point {
	return Point{p.X * k, p.Y * k}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is the agent's facing. Values run clockwise starting from +x, so with y
// pointing down the grid Right, Down, Left, Up form a right-handed rotation basis.
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up
	NumDirections
)

var dirVecs = [NumDirections]Point{
	Right: {1, 0},
	Down:  {0, 1},
	Left:  {-1, 0},
	Up:    {0, -1},
}

var dirArrows = [NumDirections]rune{
	Right: '>',
	Down:  'V',
	Left:  '<',
	Up:    '^',
}

func (d Direction) Valid() bool {
	return d >= 0 && d < NumDirections
}

// Vec returns the unit vector pointing in the direction. Panics on an invalid direction.
func (d Direction) Vec() Point {
	if !d.Valid() {
		panic(fmt.Sprintf("invalid direction %d", int(d)))
	}
	return dirVecs[d]
}

// RightVec returns the unit vector pointing to the right of the direction: (-dy, dx).
func (d Direction) RightVec() Point {
	v := d.Vec()
	return Point{-v.Y, v.X}
}

// TurnLeft rotates counter-clockwise by 90 degrees.
func (d Direction) TurnLeft() Direction {
	return (d + NumDirections - 1) % NumDirections
}

// TurnRight rotates clockwise by 90 degrees.
func (d Direction) TurnRight() Direction {
	return (d + 1) % NumDirections
}

// Arrow is the glyph used for the agent in text dumps.
func (d Direction) Arrow() rune {
	return dirArrows[d]
}

// DirectionFromArrow is the inverse of Arrow.
func DirectionFromArrow(r rune) (Direction, bool) {
	for d, arrow := range dirArrows {
		if arrow == r {
			return Direction(d), true
		}
	}
	return 0, false
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case Up:
		return "up"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}
