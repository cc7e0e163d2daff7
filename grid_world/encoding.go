package grid_world

import (
	"gymtable/models"

	"github.com/pkg/errors"
)

// Image is the numeric form of a grid, indexed [y][x] with three channels per cell:
// object kind, color and door state.
type Image [][][3]uint8

// NewImage returns a zeroed, i.e. fully unseen, image.
func NewImage(width, height int) Image {
	img := make(Image, height)
	for y := range img {
		img[y] = make([][3]uint8, width)
	}
	return img
}

func (img Image) Height() int {
	return len(img)
}

func (img Image) Width() int {
	if len(img) == 0 {
		return 0
	}
	return len(img[0])
}

// At returns the channels of cell (x, y).
func (img Image) At(x, y int) [3]uint8 {
	return img[y][x]
}

// Bytes flattens the image row by row.
func (img Image) Bytes() []byte {
	out := make([]byte, 0, img.Width()*img.Height()*3)
	for _, row := range img {
		for _, cell := range row {
			out = append(out, cell[0], cell[1], cell[2])
		}
	}
	return out
}

// ErrInvalidEncoding is returned by Decode for arrays no grid encodes to.
var ErrInvalidEncoding = errors.New("invalid grid encoding")

// Encode converts the grid to an image. Cells outside of mask, and boundary walls
// introduced by Slice, encode as unseen. A nil mask means everything is visible.
func (g *Grid) Encode(mask Mask) Image {
	img := NewImage(g.Width, g.Height)
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			if mask != nil && !mask[x][y] {
				continue
			}
			obj := g.cells[x][y]
			switch {
			case obj == nil:
				img[y][x] = [3]uint8{uint8(models.Empty), 0, 0}
			case obj.IsBoundary():
				img[y][x] = [3]uint8{uint8(models.Unseen), 0, 0}
			default:
				img[y][x] = [3]uint8{uint8(obj.Kind), uint8(obj.Color), uint8(obj.State())}
			}
		}
	}
	return img
}

// Decode is the inverse of Encode, except that unseen cells decode to empty ones.
// Box contents are not part of the encoding, so decoded boxes are always empty.
func Decode(img Image) (*Grid, error) {
	width, height := img.Width(), img.Height()
	if width == 0 || height == 0 {
		return nil, errors.Wrap(ErrInvalidEncoding, "empty image")
	}

	g := NewGrid(width, height)
	for y, row := range img {
		if len(row) != width {
			return nil, errors.Wrapf(ErrInvalidEncoding, "row %d has width %d, expected %d", y, len(row), width)
		}
		for x, cell := range row {
			obj, err := decodeCell(cell)
			if err != nil {
				return nil, errors.Wrapf(err, "cell (%d,%d)", x, y)
			}
			g.cells[x][y] = obj
		}
	}
	return g, nil
}

func decodeCell(cell [3]uint8) (*models.Object, error) {
	kind, color, state := models.Kind(cell[0]), models.Color(cell[1]), models.DoorState(cell[2])
	if kind == models.Unseen || kind == models.Empty {
		return nil, nil
	}
	if !kind.IsObject() {
		return nil, errors.Wrapf(ErrInvalidEncoding, "unknown object type %d", cell[0])
	}
	if !color.Valid() {
		return nil, errors.Wrapf(ErrInvalidEncoding, "unknown color %d", cell[1])
	}

	if kind == models.Door {
		switch state {
		case models.DoorOpen:
			return models.NewDoor(color, true, false), nil
		case models.DoorClosed:
			return models.NewDoor(color, false, false), nil
		case models.DoorLocked:
			return models.NewDoor(color, false, true), nil
		}
		return nil, errors.Wrapf(ErrInvalidEncoding, "invalid door state %d", cell[2])
	}
	if state != models.DoorNone {
		return nil, errors.Wrapf(ErrInvalidEncoding, "%v cannot carry state %d", kind, cell[2])
	}
	return models.New(kind, color)
}
