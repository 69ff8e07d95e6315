package view

import (
	"fmt"

	"github.com/matzehuels/visunn/pkg/tag"
)

// State is the renderer-facing interaction state.
type State struct {
	HoveredName string  // empty when nothing is hovered
	SelectedTag tag.Tag // scope of the current snapshot
	Rotating    bool
	CameraReset bool
}

// Hovering reports whether a node is hovered.
func (s State) Hovering() bool { return s.HoveredName != "" }

// committed is the state installed by every snapshot commit.
func committed(t tag.Tag) State {
	return State{SelectedTag: t, Rotating: true, CameraReset: true}
}

// Command is a control the user can trigger independently of the graph.
type Command int

const (
	ResetRotation Command = iota
	ResetPosition
	PreviousModule
	RootModule
)

// Commands lists every command in display order.
var Commands = []Command{ResetRotation, ResetPosition, PreviousModule, RootModule}

// String returns the button label.
func (c Command) String() string {
	switch c {
	case ResetRotation:
		return "reset rotation"
	case ResetPosition:
		return "reset position"
	case PreviousModule:
		return "previous module"
	case RootModule:
		return "root module"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// Navigates reports whether the command issues a snapshot request.
func (c Command) Navigates() bool {
	return c == PreviousModule || c == RootModule
}
