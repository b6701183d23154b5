package model

// EventKind classifies a diagnostic event.
type EventKind int

const (
	// EventError is a diagnostic that makes the module file unusable.
	EventError EventKind = iota
	// EventWarning is a diagnostic that does not fail compilation.
	EventWarning
	// EventInfo is purely informational.
	EventInfo
)

func (k EventKind) String() string {
	switch k {
	case EventError:
		return "ERROR"
	case EventWarning:
		return "WARNING"
	case EventInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Event is a positioned diagnostic replayed to the user.
type Event struct {
	Kind     EventKind
	Location Location
	Message  string
}

func (e Event) String() string {
	return e.Location.String() + ": " + e.Message
}
