// Package feeding implements the snack counter: clicks fill the friend up,
// idle time digests, and too many snacks make it pop.
package feeding

import "time"

const (
	// MaxClicksBeforePop is the fullness at which the friend pops.
	MaxClicksBeforePop = 30
	// HealingDelay is the idle time before each digest step.
	HealingDelay = 1500 * time.Millisecond
	// FastClickThreshold is the gap under which a click counts as too fast.
	FastClickThreshold = 1000 * time.Millisecond
	// PopResetDelay is how long the popped state lasts before reset.
	PopResetDelay = 1500 * time.Millisecond
)

// Phase represents the current machine state.
type Phase int

const (
	// PhaseIdle accepts clicks. Fullness may be above zero.
	PhaseIdle Phase = iota
	// PhasePopped ignores clicks until the pending reset runs.
	PhasePopped
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePopped:
		return "popped"
	default:
		return "unknown"
	}
}
