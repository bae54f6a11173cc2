package selection

import "github.com/ironsheep/screen-speak-mcp/internal/imaging"

// State is the drag gesture state. It is implemented by Idle and Dragging.
type State interface {
	// Name returns "idle" or "dragging".
	Name() string

	isState()
}

// Idle means no pointer is held down.
type Idle struct{}

// Dragging means a gesture is in progress. Anchor is the clamped point where
// it started, in viewport coordinates.
type Dragging struct {
	Anchor imaging.Point
}

func (Idle) Name() string     { return "idle" }
func (Dragging) Name() string { return "dragging" }

func (Idle) isState()     {}
func (Dragging) isState() {}
