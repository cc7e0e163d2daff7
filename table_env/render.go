package table_env

import "gymtable/models"

// CellFrame is the render hook of one non-empty grid cell.
type CellFrame struct {
	X, Y int
	models.RenderHint
}

// AgentFrame is the agent's pose as a renderer draws it.
type AgentFrame struct {
	Pos      models.Point
	Dir      models.Direction
	Arrow    string
	Carrying *models.RenderHint `json:",omitempty"`
}

// Frame is a complete, pixel free snapshot of the episode for renderers. Visible lists
// the absolute positions of the cells the agent currently sees, clipped to the grid.
type Frame struct {
	Width, Height int
	Cells         []CellFrame
	Visible       []models.Point
	Agent         AgentFrame
	Mission       string
	StepCount     int
	MaxSteps      int
	Done          bool
}

// Frame snapshots the current episode state.
func (env *Env) Frame() Frame {
	frame := Frame{
		Width:     env.Grid.Width,
		Height:    env.Grid.Height,
		Mission:   env.Mission,
		StepCount: env.StepCount,
		MaxSteps:  env.MaxSteps,
		Done:      env.done,
		Agent: AgentFrame{
			Pos:   env.AgentPos,
			Dir:   env.AgentDir,
			Arrow: string(env.AgentDir.Arrow()),
		},
	}
	if env.carrying != nil {
		hint := env.carrying.Render()
		frame.Agent.Carrying = &hint
	}

	for y := 0; y < env.Grid.Height; y++ {
		for x := 0; x < env.Grid.Width; x++ {
			if obj := env.Grid.Get(x, y); obj != nil {
				frame.Cells = append(frame.Cells, CellFrame{
					X:          x,
					Y:          y,
					RenderHint: obj.Render(),
				})
			}
		}
	}

	_, mask := env.GenObsGrid()
	for vx := range mask {
		for vy := range mask[vx] {
			if !mask[vx][vy] {
				continue
			}
			p := env.AbsoluteCoords(models.Point{X: vx, Y: vy})
			if env.Grid.InBounds(p.X, p.Y) {
				frame.Visible = append(frame.Visible, p)
			}
		}
	}

	return frame
}
