// Package selection implements the interactive region selection engine.
//
// An Engine holds one source image, the viewport it is currently fitted
// into, and the selection the user is drawing over it. Pointer events arrive
// in viewport coordinates:
//
//	eng.Load(img)
//	eng.Resize(1280, 720)
//	eng.Start(imaging.Point{X: 40, Y: 30})
//	eng.Move(imaging.Point{X: 300, Y: 200})
//	eng.End()
//	crop, err := eng.Confirm()
//
// The drag gesture is a small state machine. State is either Idle or
// Dragging, and only Dragging carries an anchor, so a move without a start
// cannot be expressed.
//
// Every change to the image, the viewport or the selection repaints the
// preview frame: the image dimmed by a black overlay, the selected area
// restored to full brightness, and a border around it. A container resize
// rescales the selection so it keeps covering the same source pixels.
//
// Confirm maps the selection into source pixel space using the current
// viewport and returns the cropped region as PNG. Regions smaller than the
// minimum size are rejected with ErrSelectionTooSmall and leave the engine
// untouched.
//
// # Thread Safety
//
// An Engine is not safe for concurrent use. The session package serializes
// access to it.
package selection
