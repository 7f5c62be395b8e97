package pipeline

import "fmt"

// State is a target's position in the release pipeline.
type State string

const (
	StatePending  State = "pending"
	StateBuilt    State = "built"
	StatePackaged State = "packaged"
	StateSigned   State = "signed"
	StateDone     State = "done"
	StateFailed   State = "failed"
)

// String implements fmt.Stringer for log output.
func (s State) String() string { return string(s) }

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateFailed:
		return true
	default:
		return false
	}
}

// transition validates and performs a single state change. An invalid
// transition indicates a pipeline bug and is surfaced as an error rather
// than silently accepted.
func transition(from, to State) (State, error) {
	if !allowedTransition(from, to) {
		return from, fmt.Errorf("disallowed pipeline transition: %s -> %s", from, to)
	}
	return to, nil
}

func allowedTransition(from, to State) bool {
	if to == StateFailed {
		return !from.Terminal()
	}
	switch from {
	case StatePending:
		return to == StateBuilt
	case StateBuilt:
		return to == StatePackaged
	case StatePackaged:
		// StateSigned only occurs when signing is enabled.
		return to == StateSigned || to == StateDone
	case StateSigned:
		return to == StateDone
	default:
		return false
	}
}
