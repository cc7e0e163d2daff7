package models

import "fmt"

// Action is one of the discrete agent actions.
type Action int

const (
	TurnLeft Action = iota
	TurnRight
	MoveForward
	Pickup
	Drop
	Toggle
	// Done signals task completion; it has no effect on the world.
	Done
	NumActions
)

var actionNames = [NumActions]string{
	TurnLeft:    "left",
	TurnRight:   "right",
	MoveForward: "forward",
	Pickup:      "pickup",
	Drop:        "drop",
	Toggle:      "toggle",
	Done:        "done",
}

func (a Action) Valid() bool {
	return a >= 0 && a < NumActions
}

func (a Action) String() string {
	if a.Valid() {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Actions returns the full action space in order.
func Actions() []Action {
	actions := make([]Action, NumActions)
	for i := range actions {
		actions[i] = Action(i)
	}
	return actions
}
