package socket

// ReadyState is the coarse transfer state reported on the legacy channel.
type ReadyState int

const (
	Unsent ReadyState = iota
	Opened
	HeadersReceived
	Loading
	Done
)

// String returns the display name of the state.
func (s ReadyState) String() string {
	switch s {
	case Unsent:
		return "Unsent"
	case Opened:
		return "Opened"
	case HeadersReceived:
		return "Headers received"
	case Loading:
		return "Loading"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Transferring reports whether a request in state s can still be aborted.
func (s ReadyState) Transferring() bool {
	return s == Opened || s == HeadersReceived || s == Loading
}
