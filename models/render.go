package models

import "fmt"

// RGB is a palette color in 8-bit channels.
type RGB [3]uint8

var palette = [NumColors]RGB{
	Red:    {255, 0, 0},
	Green:  {0, 255, 0},
	Blue:   {0, 0, 255},
	Purple: {112, 39, 195},
	Yellow: {255, 255, 0},
	Grey:   {100, 100, 100},
}

func (c Color) RGB() RGB {
	return palette[c]
}

// Hex returns the css form of the color, e.g. "#ff0000".
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// Half is the pale variant used for floor tiles.
func (rgb RGB) Half() RGB {
	return RGB{rgb[0] / 2, rgb[1] / 2, rgb[2] / 2}
}

// Shape describes how a renderer should draw an object inside its cell.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeFilledSquare
	ShapePaleSquare
	ShapeDoorOpen
	ShapeDoorClosed
	ShapeDoorLocked
	ShapeKey
	ShapeCircle
	ShapeBox
	ShapeWaves
)

var shapeNames = [...]string{
	ShapeNone:         "none",
	ShapeFilledSquare: "filled-square",
	ShapePaleSquare:   "pale-square",
	ShapeDoorOpen:     "door-open",
	ShapeDoorClosed:   "door-closed",
	ShapeDoorLocked:   "door-locked",
	ShapeKey:          "key",
	ShapeCircle:       "circle",
	ShapeBox:          "box",
	ShapeWaves:        "waves",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// MarshalText lets shapes appear by name in json frames.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RenderHint is everything a renderer needs to draw one object: no pixels, just
// the fill color and a shape.
type RenderHint struct {
	Kind  string
	Fill  string
	Shape Shape
}

// Render returns the object's render hook.
func (obj *Object) Render() RenderHint {
	rgb := obj.Color.RGB()
	hint := RenderHint{
		Kind:  obj.Kind.String(),
		Fill:  rgb.Hex(),
		Shape: ShapeFilledSquare,
	}

	switch obj.Kind {
	case Floor:
		hint.Fill = rgb.Half().Hex()
		hint.Shape = ShapePaleSquare
	case Door:
		switch obj.State() {
		case DoorOpen:
			hint.Shape = ShapeDoorOpen
		case DoorLocked:
			hint.Shape = ShapeDoorLocked
		default:
			hint.Shape = ShapeDoorClosed
		}
	case Key:
		hint.Shape = ShapeKey
	case Ball:
		hint.Shape = ShapeCircle
	case Box:
		hint.Shape = ShapeBox
	case Lava:
		hint.Fill = RGB{255, 128, 0}.Hex()
		hint.Shape = ShapeWaves
	}
	return hint
}
