package sim

import "fmt"

// Phase is the session life-cycle state. Transitions are monotonic:
// Idle -> Placing -> Active -> Ended, with an explicit reset from Ended
// back to Placing on a fresh session. Triggers that arrive after the
// session has already left the phase they expect are no-ops.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhasePlacing
	PhaseActive
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlacing:
		return "placing"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText lets Phase render as its name in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name back, for event replay tooling.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*p = PhaseIdle
	case "placing":
		*p = PhasePlacing
	case "active":
		*p = PhaseActive
	case "ended":
		*p = PhaseEnded
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}
