package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the type of a world object, and doubles as the object-type channel
// of the observation encoding. Unseen and Empty are encoding-only kinds: no Object is
// ever constructed with them.
type Kind uint8

const (
	Unseen Kind = iota
	Empty
	Wall
	Floor
	Door
	Key
	Ball
	Box
	Goal
	Lava
	NumKinds
)

var kindNames = [NumKinds]string{
	Unseen: "unseen",
	Empty:  "empty",
	Wall:   "wall",
	Floor:  "floor",
	Door:   "door",
	Key:    "key",
	Ball:   "ball",
	Box:    "box",
	Goal:   "goal",
	Lava:   "lava",
}

func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsObject reports whether objects of this kind can exist in a grid.
func (k Kind) IsObject() bool {
	return k >= Wall && k < NumKinds
}

// Color is one of the six palette colors, indexed as in the observation encoding.
type Color uint8

const (
	Red Color = iota
	Green
	Blue
	Purple
	Yellow
	Grey
	NumColors
)

var colorNames = [NumColors]string{
	Red:    "red",
	Green:  "green",
	Blue:   "blue",
	Purple: "purple",
	Yellow: "yellow",
	Grey:   "grey",
}

func (c Color) String() string {
	if c < NumColors {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

func (c Color) Valid() bool {
	return c < NumColors
}

// Colors returns the palette in encoding order.
func Colors() []Color {
	return []Color{Red, Green, Blue, Purple, Yellow, Grey}
}

// ColorFromName is the inverse of Color.String.
func ColorFromName(name string) (Color, bool) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), true
		}
	}
	return 0, false
}

// traits are the static capabilities of a kind. Doors override overlap and
// seeBehind with their open state. Lava cannot be stood on; stepping into it ends
// the episode instead.
type traits struct {
	overlap   bool
	pickup    bool
	contain   bool
	seeBehind bool
}

var kindTraits = [NumKinds]traits{
	Wall:  {},
	Floor: {overlap: true, seeBehind: true},
	Door:  {},
	Key:   {pickup: true, seeBehind: true},
	Ball:  {pickup: true, seeBehind: true},
	Box:   {pickup: true, seeBehind: true},
	Goal:  {overlap: true, seeBehind: true},
	Lava:  {seeBehind: true},
}

// Object is a single world object. The set of kinds is closed, so per-kind behavior is
// table driven rather than spread over separate types.
// An Object is exclusively owned by one grid cell, the agent's inventory or a box.
type Object struct {
	Kind  Kind
	Color Color

	// Door state. A locked door is always closed.
	IsOpen   bool
	IsLocked bool

	// Contains is the object held by a Box, if any.
	Contains *Object

	InitPos Point
	CurPos  Point

	boundary bool
}

func newObject(kind Kind, color Color) *Object {
	return &Object{
		Kind:    kind,
		Color:   color,
		InitPos: OffGrid,
		CurPos:  OffGrid,
	}
}

func NewWall() *Object {
	return newObject(Wall, Grey)
}

func NewColoredWall(color Color) *Object {
	return newObject(Wall, color)
}

func NewFloor(color Color) *Object {
	return newObject(Floor, color)
}

func NewKey(color Color) *Object {
	return newObject(Key, color)
}

func NewBall(color Color) *Object {
	return newObject(Ball, color)
}

func NewGoal() *Object {
	return newObject(Goal, Green)
}

func NewLava() *Object {
	return newObject(Lava, Red)
}

// NewDoor returns a door; locking implies closed.
func NewDoor(color Color, isOpen, isLocked bool) *Object {
	obj := newObject(Door, color)
	obj.IsLocked = isLocked
	obj.IsOpen = isOpen && !isLocked
	return obj
}

// NewBox returns a box taking ownership of contains, which may be nil.
func NewBox(color Color, contains *Object) *Object {
	obj := newObject(Box, color)
	obj.Contains = contains
	return obj
}

// NewBoundary returns the wall used to fill positions outside of a grid when slicing.
// It occludes like any wall but encodes as unseen.
func NewBoundary() *Object {
	obj := NewWall()
	obj.boundary = true
	return obj
}

// New constructs an object of the passed kind with default door state.
func New(kind Kind, color Color) (*Object, error) {
	if !kind.IsObject() {
		return nil, errors.Errorf("%v is not an object kind", kind)
	}
	if !color.Valid() {
		return nil, errors.Errorf("invalid color %d", color)
	}
	return newObject(kind, color), nil
}

// IsBoundary reports whether this is an out-of-bounds sentinel wall.
func (obj *Object) IsBoundary() bool {
	return obj.boundary
}

// CanOverlap reports whether the agent can stand on the object.
func (obj *Object) CanOverlap() bool {
	if obj.Kind == Door {
		return obj.IsOpen
	}
	return kindTraits[obj.Kind].overlap
}

func (obj *Object) CanPickup() bool {
	return kindTraits[obj.Kind].pickup
}

func (obj *Object) CanContain() bool {
	return kindTraits[obj.Kind].contain
}

// SeeBehind reports whether the object lets visibility pass through it.
func (obj *Object) SeeBehind() bool {
	if obj.Kind == Door {
		return obj.IsOpen
	}
	return kindTraits[obj.Kind].seeBehind
}

// World is the part of the environment an object may act upon when toggled.
type World interface {
	Carrying() *Object
	SetCell(pos Point, obj *Object)
}

// Toggle triggers the object's action and reports whether it had an effect.
func (obj *Object) Toggle(world World, pos Point) bool {
	switch obj.Kind {
	case Door:
		if obj.IsLocked {
			if held := world.Carrying(); held != nil && held.Kind == Key && held.Color == obj.Color {
				obj.IsLocked = false
				obj.IsOpen = true
				return true
			}
			return false
		}
		obj.IsOpen = !obj.IsOpen
		return true
	case Box:
		// The box is consumed, its contents move into the cell.
		contents := obj.Contains
		obj.Contains = nil
		if contents != nil {
			contents.CurPos = pos
		}
		obj.CurPos = OffGrid
		world.SetCell(pos, contents)
		return true
	}
	return false
}

// DoorState is the extension channel of the encoding.
type DoorState uint8

const (
	DoorNone DoorState = iota
	DoorOpen
	DoorClosed
	DoorLocked
)

// State returns the encoding's state channel value.
func (obj *Object) State() DoorState {
	if obj.Kind != Door {
		return DoorNone
	}
	switch {
	case obj.IsLocked:
		return DoorLocked
	case obj.IsOpen:
		return DoorOpen
	}
	return DoorClosed
}

// Clone returns a deep copy; a box's contents are cloned as well.
func (obj *Object) Clone() *Object {
	if obj == nil {
		return nil
	}
	clone := *obj
	clone.Contains = obj.Contains.Clone()
	return &clone
}

// Equal compares kind, color and door state, recursing into box contents.
// Positions are bookkeeping and do not participate.
func (obj *Object) Equal(other *Object) bool {
	if obj == nil || other == nil {
		return obj == other
	}
	return obj.Kind == other.Kind &&
		obj.Color == other.Color &&
		obj.State() == other.State() &&
		obj.boundary == other.boundary &&
		obj.Contains.Equal(other.Contains)
}

func (obj *Object) String() string {
	if obj == nil {
		return "<nil>"
	}
	if obj.Kind == Door {
		return fmt.Sprintf("%v %v (open=%t locked=%t)", obj.Color, obj.Kind, obj.IsOpen, obj.IsLocked)
	}
	return fmt.Sprintf("%v %v", obj.Color, obj.Kind)
}
