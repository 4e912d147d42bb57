// Package loadstate models the lifecycle of an asynchronously loaded
// collection as a small tagged variant: idle, loading, ready, or failed
// with a reason. Collections governed by a loadstate keep their previous
// contents across a failed refresh, so consumers can distinguish "stale
// but available" from "never loaded".
package loadstate

// Phase enumerates the lifecycle states of an async-backed collection.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

// String returns the lowercase name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the loadstate value attached to a collection. Reason is only
// meaningful when Phase is PhaseFailed.
type State struct {
	Phase  Phase
	Reason string
}

// Idle returns the zero state: nothing requested yet. UI collaborators
// use it to distinguish "never loaded" from an empty result.
func Idle() State { return State{Phase: PhaseIdle} }

// Loading returns the in-flight state.
func Loading() State { return State{Phase: PhaseLoading} }

// Ready returns the successfully loaded state.
func Ready() State { return State{Phase: PhaseReady} }

// Failed returns the failed state carrying a human-readable reason.
func Failed(reason string) State { return State{Phase: PhaseFailed, Reason: reason} }

// InFlight reports whether a request is currently outstanding. UI
// collaborators key their progress indicators off this.
func (s State) InFlight() bool { return s.Phase == PhaseLoading }

// IsFailed reports whether the last request ended in an error.
func (s State) IsFailed() bool { return s.Phase == PhaseFailed }
