package service

// State is the lifecycle of one executor: Idle -> Submitting -> Settled or Failed.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSettled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSettled:
		return "settled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
