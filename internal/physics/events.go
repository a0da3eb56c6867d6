package physics

// EventKind tags something that happened during a frame.
type EventKind int

const (
	EventLanded EventKind = iota
	EventHeadBump
	EventSideBump
	EventSlid
	EventBounced
	EventMagicTouched
	EventJumped
	EventWon
	EventLost
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventLanded:
		return "landed"
	case EventHeadBump:
		return "head-bump"
	case EventSideBump:
		return "side-bump"
	case EventSlid:
		return "slid"
	case EventBounced:
		return "bounced"
	case EventMagicTouched:
		return "magic"
	case EventJumped:
		return "jumped"
	case EventWon:
		return "won"
	case EventLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Event is one thing that happened in a frame. Platform is the index into
// World.Platforms, or -1.
type Event struct {
	Kind     EventKind
	Platform int
}

// Result is the outcome of one Step.
type Result struct {
	State  State
	Events []Event
}

// Has reports whether an event of the given kind occurred.
func (r Result) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
