package table_env

import (
	"gymtable/models"

	"github.com/pkg/errors"
)

// ErrPlacementExhausted means rejection sampling ran out of attempts; the level's
// constraints are likely unsatisfiable.
var ErrPlacementExhausted = errors.New("rejection sampling failed to place object")

// RejectFunc filters out candidate positions by returning true.
type RejectFunc func(env *Env, pos models.Point) bool

// Unbounded lets placement retry forever.
const Unbounded = 0

// PlaceObj places obj at a uniformly random empty cell of the region anchored at top
// with the given size, avoiding the agent's start position and any position reject
// refuses. A zero size means the whole grid. maxTries bounds the number of attempts;
// Unbounded (or any value <= 0) retries until a position is found. obj may be nil,
// which only selects a position.
func (env *Env) PlaceObj(
	obj *models.Object,
	top, size models.Point,
	reject RejectFunc,
	maxTries int,
) (models.Point, error) {
	if size == (models.Point{}) {
		size = models.Point{X: env.Grid.Width, Y: env.Grid.Height}
	}

	for tries := 0; maxTries <= 0 || tries < maxTries; tries++ {
		pos := env.RandPos(top.X, top.X+size.X, top.Y, top.Y+size.Y)

		if env.Grid.At(pos) != nil {
			continue
		}
		if pos == env.StartPos {
			continue
		}
		if reject != nil && reject(env, pos) {
			continue
		}

		env.Grid.Put(pos, obj)
		if obj != nil {
			obj.InitPos = pos
			obj.CurPos = pos
		}
		return pos, nil
	}

	return models.OffGrid, errors.Wrapf(ErrPlacementExhausted,
		"%d attempts in region %v size %v", maxTries, top, size)
}

// PlaceAgent picks the agent's start position the same way PlaceObj picks object
// positions, leaving the cell empty. With randDir the start direction is drawn as well.
func (env *Env) PlaceAgent(top, size models.Point, randDir bool, maxTries int) (models.Point, error) {
	env.StartPos = models.OffGrid
	pos, err := env.PlaceObj(nil, top, size, nil, maxTries)
	if err != nil {
		return models.OffGrid, errors.Wrap(err, "place agent")
	}
	env.StartPos = pos

	if randDir {
		env.StartDir = models.Direction(env.RandInt(0, int(models.NumDirections)))
	}
	return pos, nil
}
