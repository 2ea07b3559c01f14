package server

import "fmt"

// Phase tracks a managed match through its server-side lifecycle. The
// engine knows whether the game is over; the phase knows what the server
// has done about it.
type Phase int

const (
	// PhaseRunning - the playout goroutine is stepping the match
	PhaseRunning Phase = iota

	// PhaseFinished - the match is decided, still held for spectators
	PhaseFinished

	// PhaseArchived - the summary has been persisted
	PhaseArchived
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "Running"
	case PhaseFinished:
		return "Finished"
	case PhaseArchived:
		return "Archived"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// IsTerminal returns true once the match will never change again
func (p Phase) IsTerminal() bool {
	return p == PhaseArchived
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseRunning:
		return []Phase{PhaseFinished}
	case PhaseFinished:
		return []Phase{PhaseArchived}
	default:
		return []Phase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
