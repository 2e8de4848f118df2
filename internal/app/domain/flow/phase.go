package flow

import "fmt"

// Phase is a named step in the choreographed loading sequence.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseSearching
	PhaseResolvingTarget
	PhaseLocking
	PhaseZooming
	PhaseScanning
	PhaseComplete
	PhaseFailed
)

// Sequence is the fixed order a successful flow walks through after Start.
var Sequence = []Phase{
	PhasePreparing,
	PhaseSearching,
	PhaseResolvingTarget,
	PhaseLocking,
	PhaseZooming,
	PhaseScanning,
	PhaseComplete,
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreparing:
		return "preparing"
	case PhaseSearching:
		return "searching"
	case PhaseResolvingTarget:
		return "resolving_target"
	case PhaseLocking:
		return "locking"
	case PhaseZooming:
		return "zooming"
	case PhaseScanning:
		return "scanning"
	case PhaseComplete:
		return "complete"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets phases travel as their names in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (p *Phase) UnmarshalText(b []byte) error {
	for c := PhaseIdle; c <= PhaseFailed; c++ {
		if c.String() == string(b) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Active reports whether a resolver failure can still abort the flow.
func (p Phase) Active() bool {
	return p >= PhasePreparing && p <= PhaseScanning
}

// Terminal reports whether the flow has ended for its generation.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseFailed
}
