package engine

// State is the lifecycle state of an Engine.
type State int

const (
	// StateIdle means the engine was constructed or closed and has not been played.
	StateIdle State = iota
	// StatePlaying means the engine is subscribed to refresh ticks.
	StatePlaying
	// StatePaused means the engine holds its position and ignores ticks.
	StatePaused
	// StateCompleted means a reader reached end of stream.
	StateCompleted
	// StateFailed means a reader failed to decode a frame.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Finished reports whether the state is terminal until the next Play.
func (s State) Finished() bool {
	return s == StateCompleted || s == StateFailed
}
