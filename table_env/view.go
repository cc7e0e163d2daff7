package table_env

import "gymtable/models"

// The agent's view is a size x size square in front of it. The agent sits at the bottom
// center of its own view, with view x running along its right vector and view y running
// backward, so that up in the view is forward for the agent.

// ViewExtents returns the absolute top-left and exclusive bottom-right corners of the
// square of cells seen by an agent at pos facing dir.
func ViewExtents(pos models.Point, dir models.Direction, size int) (top, bottom models.Point) {
	half := size / 2
	switch dir {
	case models.Right:
		top = models.Point{X: pos.X, Y: pos.Y - half}
	case models.Down:
		top = models.Point{X: pos.X - half, Y: pos.Y}
	case models.Left:
		top = models.Point{X: pos.X - size + 1, Y: pos.Y - half}
	case models.Up:
		top = models.Point{X: pos.X - half, Y: pos.Y - size + 1}
	default:
		panic("invalid agent direction")
	}
	bottom = models.Point{X: top.X + size, Y: top.Y + size}
	return
}

// viewOrigin is the absolute position of the view's top-left cell, i.e. the far left
// corner as seen by the agent.
func viewOrigin(pos models.Point, dir models.Direction, size int) models.Point {
	return pos.Add(dir.Vec().Scale(size - 1)).Sub(dir.RightVec().Scale(size / 2))
}

// ViewCoords projects the absolute position p into the view of an agent at pos facing
// dir. The result may lie outside of the view.
func ViewCoords(pos models.Point, dir models.Direction, size int, p models.Point) models.Point {
	d, r := dir.Vec(), dir.RightVec()
	l := p.Sub(viewOrigin(pos, dir, size))
	return models.Point{
		X: r.X*l.X + r.Y*l.Y,
		Y: -(d.X*l.X + d.Y*l.Y),
	}
}

// AbsoluteCoords is the inverse of ViewCoords.
func AbsoluteCoords(pos models.Point, dir models.Direction, size int, v models.Point) models.Point {
	return viewOrigin(pos, dir, size).Sub(dir.Vec().Scale(v.Y)).Add(dir.RightVec().Scale(v.X))
}

// RelativeCoords is ViewCoords restricted to the view; ok is false outside of it.
func RelativeCoords(pos models.Point, dir models.Direction, size int, p models.Point) (v models.Point, ok bool) {
	v = ViewCoords(pos, dir, size, p)
	if v.X < 0 || v.Y < 0 || v.X >= size || v.Y >= size {
		return models.Point{}, false
	}
	return v, true
}

func (env *Env) DirVec() models.Point {
	return env.AgentDir.Vec()
}

func (env *Env) RightVec() models.Point {
	return env.AgentDir.RightVec()
}

// FrontPos is the cell directly in front of the agent.
func (env *Env) FrontPos() models.Point {
	return env.AgentPos.Add(env.DirVec())
}

func (env *Env) ViewExtents() (top, bottom models.Point) {
	return ViewExtents(env.AgentPos, env.AgentDir, env.ViewSize)
}

func (env *Env) ViewCoords(p models.Point) models.Point {
	return ViewCoords(env.AgentPos, env.AgentDir, env.ViewSize, p)
}

func (env *Env) AbsoluteCoords(v models.Point) models.Point {
	return AbsoluteCoords(env.AgentPos, env.AgentDir, env.ViewSize, v)
}

func (env *Env) RelativeCoords(p models.Point) (models.Point, bool) {
	return RelativeCoords(env.AgentPos, env.AgentDir, env.ViewSize, p)
}

// InView reports whether p lies in the agent's view square, visible or not.
func (env *Env) InView(p models.Point) bool {
	_, ok := env.RelativeCoords(p)
	return ok
}

// AgentSees reports whether the object at p appears in the agent's current observation.
// Empty cells are never reported as seen.
func (env *Env) AgentSees(p models.Point) bool {
	v, ok := env.RelativeCoords(p)
	if !ok || !env.Grid.InBounds(p.X, p.Y) {
		return false
	}
	world := env.Grid.At(p)
	if world == nil {
		return false
	}

	view, mask := env.GenObsGrid()
	if !mask[v.X][v.Y] {
		return false
	}
	seen := view.At(v)
	return seen != nil && !seen.IsBoundary() && seen.Kind == world.Kind
}
