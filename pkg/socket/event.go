package socket

import "time"

// EventType names a discrete event.
type EventType string

const (
	EventReadyStateChange EventType = "readystatechange"
	EventLoadStart        EventType = "loadstart"
	EventProgress         EventType = "progress"
	EventLoad             EventType = "load"
	EventAbort            EventType = "abort"
	EventTimeout          EventType = "timeout"
	EventError            EventType = "error"
	EventLoadEnd          EventType = "loadend"
)

// DiscreteEvents lists the event types registered with AddEventListener.
var DiscreteEvents = []EventType{
	EventLoadStart, EventProgress, EventLoad, EventAbort, EventTimeout, EventError, EventLoadEnd,
}

// Event is delivered to listeners on both channels.
type Event struct {
	Type       EventType
	ReadyState ReadyState
	Time       time.Time

	// Loaded and Total count response body bytes. Total is only meaningful
	// when LengthComputable is set.
	Loaded           int64
	Total            int64
	LengthComputable bool

	// Err carries the transport failure for error events.
	Err error
}

// Percent returns the transferred share of the body, when known.
func (e Event) Percent() (float64, bool) {
	if !e.LengthComputable || e.Total <= 0 {
		return 0, false
	}
	return float64(e.Loaded) * 100 / float64(e.Total), true
}
