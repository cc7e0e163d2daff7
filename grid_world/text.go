package grid_world

import (
	"gymtable/models"

	"github.com/pkg/errors"
)

// Text form of a cell: an object glyph followed by a color glyph, "  " when empty.
// Doors use 'D' when closed, 'L' when locked and '_' when open.

var kindGlyphs = map[models.Kind]byte{
	models.Wall:  'W',
	models.Floor: 'F',
	models.Door:  'D',
	models.Key:   'K',
	models.Ball:  'A',
	models.Box:   'B',
	models.Goal:  'G',
	models.Lava:  'V',
}

// Grey takes 'E' so that it does not collide with green.
var colorGlyphs = [models.NumColors]byte{
	models.Red:    'R',
	models.Green:  'G',
	models.Blue:   'B',
	models.Purple: 'P',
	models.Yellow: 'Y',
	models.Grey:   'E',
}

// ErrBadCell is returned when a two character cell cannot be parsed.
var ErrBadCell = errors.New("unrecognized cell text")

// CellString returns the two character text form of a cell.
func CellString(obj *models.Object) string {
	if obj == nil {
		return "  "
	}
	glyph := kindGlyphs[obj.Kind]
	if obj.Kind == models.Door {
		switch obj.State() {
		case models.DoorOpen:
			glyph = '_'
		case models.DoorLocked:
			glyph = 'L'
		}
	}
	return string([]byte{glyph, colorGlyphs[obj.Color]})
}

// ParseCell is the inverse of CellString. Blank cells parse to nil.
func ParseCell(cell string) (*models.Object, error) {
	if len(cell) != 2 {
		return nil, errors.Wrapf(ErrBadCell, "%q", cell)
	}
	if cell == "  " {
		return nil, nil
	}

	color, ok := parseColorGlyph(cell[1])
	if !ok {
		return nil, errors.Wrapf(ErrBadCell, "%q: unknown color", cell)
	}

	switch cell[0] {
	case 'D':
		return models.NewDoor(color, false, false), nil
	case 'L':
		return models.NewDoor(color, false, true), nil
	case '_':
		return models.NewDoor(color, true, false), nil
	}
	for kind, glyph := range kindGlyphs {
		if glyph == cell[0] {
			return models.New(kind, color)
		}
	}
	return nil, errors.Wrapf(ErrBadCell, "%q: unknown object", cell)
}

func parseColorGlyph(b byte) (models.Color, bool) {
	for c, glyph := range colorGlyphs {
		if glyph == b {
			return models.Color(c), true
		}
	}
	return 0, false
}
