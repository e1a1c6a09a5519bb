package watch

// EventKind discriminates raw filesystem events as delivered by a
// Source. The set is closed; the driver loop switches exhaustively.
type EventKind int

const (
	// EventCreated reports a new file or directory.
	EventCreated EventKind = iota

	// EventWritten reports a modified file.
	EventWritten

	// EventRemoved reports a deleted file or directory.
	EventRemoved

	// EventRenamed reports a rename. From holds the old path; Path holds
	// the new path when the backend reports it. fsnotify does not, so
	// the destination arrives as a separate EventCreated.
	EventRenamed

	// EventMetadata reports a metadata-only change (chmod, mtime touch).
	// Never triggers the pipeline.
	EventMetadata

	// EventRescan reports that the backend lost track of state and
	// rescanned its watches. Possibly spurious; logged, nothing more.
	EventRescan

	// EventError reports a backend error for a specific path. The event
	// stream itself is still alive.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "CREATED"
	case EventWritten:
		return "WRITTEN"
	case EventRemoved:
		return "REMOVED"
	case EventRenamed:
		return "RENAMED"
	case EventMetadata:
		return "METADATA"
	case EventRescan:
		return "RESCAN"
	case EventError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is one raw filesystem event. Arbitrarily frequent and possibly
// duplicated; deduplication happens in the aggregator.
type Event struct {
	Kind EventKind

	// Path is the absolute affected path. For EventRenamed it is the
	// destination, when known.
	Path string

	// From is the rename source for EventRenamed.
	From string

	// Err is set for EventError.
	Err error
}
