package session

// State is the lifecycle stage of a session.
//
//	Idle -> Cropping -> Processing -> Playing -> Idle
//
// Any stage can fall into Error when synthesized audio is malformed; only
// Reset leaves Error.
type State int

const (
	// StateIdle means no image is being cropped and nothing is playing.
	StateIdle State = iota

	// StateCropping means a source image is loaded and the user is selecting
	// a region.
	StateCropping

	// StateProcessing means a region was confirmed and the session is
	// waiting for synthesized audio.
	StateProcessing

	// StatePlaying means audio is being played.
	StatePlaying

	// StateError means the session hit a fatal error and must be reset.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCropping:
		return "cropping"
	case StateProcessing:
		return "processing"
	case StatePlaying:
		return "playing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
