// table_env is the episode state machine: a grid, a directional agent living in it, and
// the partial, egocentric observations the agent receives after every action.
package table_env

import (
	"fmt"
	"math/rand"
	"strings"

	"gymtable/grid_world"
	"gymtable/models"

	"github.com/pkg/errors"
)

const (
	DefaultMaxSteps = 100
	DefaultViewSize = 7
	DefaultSeed     = 1337
)

// Rewards are in [0, 1]: reaching the goal pays 1 - 0.9*(steps/maxSteps), nothing else pays.
const (
	MinReward = 0.0
	MaxReward = 1.0
)

var (
	ErrConflictingSize  = errors.New("size cannot be combined with width or height")
	ErrInvalidSize      = errors.New("grid width and height must be positive")
	ErrInvalidViewSize  = errors.New("view size must be odd and at least 3")
	ErrInvalidMaxSteps  = errors.New("max steps must be positive")
	ErrNoGenerator      = errors.New("no level generator")
	ErrNoGrid           = errors.New("generator did not create a grid")
	ErrNoStart          = errors.New("generator did not set a valid start position and direction")
	ErrStartBlocked     = errors.New("start position is occupied by an object the agent cannot overlap")
	ErrNoMission        = errors.New("environments must define a textual mission string")
	ErrGridSizeMismatch = errors.New("generated grid does not match the configured size")
)

// Config holds the construction parameters of an environment. Size is shorthand for
// equal Width and Height and cannot be combined with them. Zero values select defaults.
type Config struct {
	Width           int   `yaml:"width"`
	Height          int   `yaml:"height"`
	Size            int   `yaml:"size"`
	MaxSteps        int   `yaml:"maxsteps"`
	SeeThroughWalls bool  `yaml:"seethroughwalls"`
	Seed            int64 `yaml:"seed"`
	ViewSize        int   `yaml:"viewsize"`
}

// Normalize validates the config and fills in defaults.
func (cfg Config) Normalize() (Config, error) {
	if cfg.Size != 0 {
		if cfg.Width != 0 || cfg.Height != 0 {
			return cfg, ErrConflictingSize
		}
		cfg.Width, cfg.Height = cfg.Size, cfg.Size
		cfg.Size = 0
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, errors.Wrapf(ErrInvalidSize, "got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.MaxSteps < 0 {
		return cfg, errors.Wrapf(ErrInvalidMaxSteps, "got %d", cfg.MaxSteps)
	}
	if cfg.ViewSize == 0 {
		cfg.ViewSize = DefaultViewSize
	}
	if cfg.ViewSize < 3 || cfg.ViewSize%2 == 0 {
		return cfg, errors.Wrapf(ErrInvalidViewSize, "got %d", cfg.ViewSize)
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	return cfg, nil
}

// Generator builds a level: it must create env.Grid with the passed dimensions and set
// env.StartPos, env.StartDir and env.Mission.
type Generator interface {
	GenGrid(env *Env, width, height int) error
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(env *Env, width, height int) error

func (fn GeneratorFunc) GenGrid(env *Env, width, height int) error {
	return fn(env, width, height)
}

// Observation is the agent's only percept.
type Observation struct {
	// Image is the rotated, occlusion-masked view, with the agent at the bottom center.
	Image     grid_world.Image
	Direction models.Direction
	Mission   string
}

// Info is auxiliary step information; currently always empty.
type Info map[string]interface{}

// Env is a single episode world. It is not safe for concurrent use: one caller owns it.
type Env struct {
	Config

	Grid    *grid_world.Grid
	Mission string

	// Set by the generator; the agent is placed here on reset.
	StartPos models.Point
	StartDir models.Direction

	AgentPos  models.Point
	AgentDir  models.Direction
	StepCount int

	carrying *models.Object
	done     bool
	gen      Generator
	rng      Random
}

// NewEnv validates cfg and generates the first episode.
func NewEnv(cfg Config, gen Generator) (*Env, error) {
	if gen == nil {
		return nil, ErrNoGenerator
	}
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}

	env := &Env{
		Config: cfg,
		gen:    gen,
	}
	env.Seed(cfg.Seed)
	if _, err = env.Reset(); err != nil {
		return nil, err
	}
	return env, nil
}

// Seed replaces the random source with a new one seeded by seed. Reseeding with the same
// value before Reset reproduces the same level.
func (env *Env) Seed(seed int64) {
	env.rng = rand.New(rand.NewSource(seed))
}

// UseRand substitutes the random source, e.g. with a deterministic sequence in tests.
func (env *Env) UseRand(rng Random) {
	env.rng = rng
}

// Rand returns the random source used by generation.
func (env *Env) Rand() Random {
	return env.rng
}

// Reset regenerates the level, places the agent at the start and returns the first
// observation. Generation errors and malformed levels are returned, not retried.
func (env *Env) Reset() (Observation, error) {
	env.Grid = nil
	env.StartPos = models.OffGrid
	env.StartDir = -1

	if err := env.gen.GenGrid(env, env.Width, env.Height); err != nil {
		return Observation{}, errors.Wrap(err, "generate grid")
	}
	if err := env.validateLevel(); err != nil {
		return Observation{}, err
	}

	env.AgentPos = env.StartPos
	env.AgentDir = env.StartDir
	env.carrying = nil
	env.StepCount = 0
	env.done = false

	return env.genObs(), nil
}

func (env *Env) validateLevel() error {
	if env.Grid == nil {
		return ErrNoGrid
	}
	if env.Grid.Width != env.Width || env.Grid.Height != env.Height {
		return errors.Wrapf(ErrGridSizeMismatch, "got %dx%d, configured %dx%d",
			env.Grid.Width, env.Grid.Height, env.Width, env.Height)
	}
	if !env.Grid.InBounds(env.StartPos.X, env.StartPos.Y) || !env.StartDir.Valid() {
		return errors.Wrapf(ErrNoStart, "start %v facing %d", env.StartPos, int(env.StartDir))
	}
	if cell := env.Grid.At(env.StartPos); cell != nil && !cell.CanOverlap() {
		return errors.Wrapf(ErrStartBlocked, "%v at %v", cell, env.StartPos)
	}
	if env.Mission == "" {
		return ErrNoMission
	}
	return nil
}

// Carrying returns the object in the agent's inventory, if any.
func (env *Env) Carrying() *models.Object {
	return env.carrying
}

// SetCarrying puts obj into the agent's inventory, replacing its contents.
func (env *Env) SetCarrying(obj *models.Object) {
	if obj != nil {
		obj.CurPos = models.OffGrid
	}
	env.carrying = obj
}

// SetCell stores obj in the grid; objects toggle the world through it.
func (env *Env) SetCell(pos models.Point, obj *models.Object) {
	env.Grid.Put(pos, obj)
}

// Done reports whether the episode has terminated.
func (env *Env) Done() bool {
	return env.done
}

func (env *Env) StepsRemaining() int {
	return env.MaxSteps - env.StepCount
}

// cellAt returns the object at pos, with positions off the grid reading as boundary walls.
func (env *Env) cellAt(pos models.Point) *models.Object {
	if !env.Grid.InBounds(pos.X, pos.Y) {
		return models.NewBoundary()
	}
	return env.Grid.At(pos)
}

func (env *Env) reward() float64 {
	return 1 - 0.9*(float64(env.StepCount)/float64(env.MaxSteps))
}

// Step applies action and returns the next observation, the reward, whether the episode
// terminated and auxiliary info. Actions that cannot apply are no-ops. Stepping a
// terminated episode changes nothing and reports done again. An action outside of the
// action space is a programming error and panics.
func (env *Env) Step(action models.Action) (obs Observation, reward float64, done bool, info Info) {
	if !action.Valid() {
		panic(fmt.Sprintf("unknown action %d", int(action)))
	}
	if env.done {
		return env.genObs(), 0, true, Info{}
	}

	env.StepCount++

	fwdPos := env.FrontPos()
	fwdCell := env.cellAt(fwdPos)

	switch action {
	case models.TurnLeft:
		env.AgentDir = env.AgentDir.TurnLeft()

	case models.TurnRight:
		env.AgentDir = env.AgentDir.TurnRight()

	case models.MoveForward:
		if fwdCell == nil || fwdCell.CanOverlap() {
			env.AgentPos = fwdPos
		}
		if fwdCell != nil && fwdCell.Kind == models.Goal {
			done = true
			reward = env.reward()
		}
		if fwdCell != nil && fwdCell.Kind == models.Lava {
			done = true
		}

	case models.Pickup:
		if fwdCell != nil && fwdCell.CanPickup() && env.carrying == nil {
			env.carrying = fwdCell
			env.carrying.CurPos = models.OffGrid
			env.Grid.Put(fwdPos, nil)
		}

	case models.Drop:
		if fwdCell == nil && env.carrying != nil {
			env.Grid.Put(fwdPos, env.carrying)
			env.carrying.CurPos = fwdPos
			env.carrying = nil
		}

	case models.Toggle:
		if fwdCell != nil && !fwdCell.IsBoundary() {
			fwdCell.Toggle(env, fwdPos)
		}

	case models.Done:
	}

	if env.StepCount >= env.MaxSteps {
		done = true
	}
	env.done = done

	return env.genObs(), reward, done, Info{}
}

// viewAgent is the agent's fixed slot in its own view.
func (env *Env) viewAgent() models.Point {
	return models.Point{X: env.ViewSize / 2, Y: env.ViewSize - 1}
}

// GenObsGrid returns the sub-grid the agent observes, rotated so that forward is up,
// together with its visibility mask. Hidden cells are cleared from the returned grid,
// and the agent's own slot shows what it carries.
func (env *Env) GenObsGrid() (*grid_world.Grid, grid_world.Mask) {
	top, _ := env.ViewExtents()
	view := env.Grid.Slice(top.X, top.Y, env.ViewSize, env.ViewSize)
	for i := 0; i < int(env.AgentDir)+1; i++ {
		view = view.RotateLeft()
	}

	var mask grid_world.Mask
	if env.SeeThroughWalls {
		mask = grid_world.FullMask(view.Width, view.Height)
		view.HideBoundary(mask)
	} else {
		mask = view.ProcessVis(env.viewAgent())
	}

	// A copy keeps the inventory the sole owner of the carried object.
	view.Put(env.viewAgent(), env.carrying.Clone())

	return view, mask
}

func (env *Env) genObs() Observation {
	if env.Mission == "" {
		panic(ErrNoMission.Error())
	}
	view, mask := env.GenObsGrid()
	return Observation{
		Image:     view.Encode(mask),
		Direction: env.AgentDir,
		Mission:   env.Mission,
	}
}

// Observe returns the current observation without stepping.
func (env *Env) Observe() Observation {
	return env.genObs()
}

// String dumps the grid two characters per cell, drawing the agent as its doubled
// direction arrow.
func (env *Env) String() string {
	var sb strings.Builder
	for y := 0; y < env.Grid.Height; y++ {
		for x := 0; x < env.Grid.Width; x++ {
			if x == env.AgentPos.X && y == env.AgentPos.Y {
				arrow := string(env.AgentDir.Arrow())
				sb.WriteString(arrow + arrow)
				continue
			}
			sb.WriteString(grid_world.CellString(env.Grid.Get(x, y)))
		}
		if y < env.Grid.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
