package ajax

import (
	"errors"
	"fmt"

	"github.com/bft-labs/ajaxclient/pkg/socket"
)

// ErrInFlight is logged when an operation is refused because a request is
// still running.
var ErrInFlight = errors.New("ajax: request in flight")

// RequestError describes a failed request. It is passed to the Error
// callback both for unexpected ready-state/status combinations and for
// transport errors reported by the socket.
type RequestError struct {
	Client         *Client
	ReadyState     socket.ReadyState
	ReadyStateText string
	Status         int
	StatusText     string
	Event          socket.Event
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("ajax: request error in state %d (%s), status %d", e.ReadyState, e.ReadyStateText, e.Status)
	if e.StatusText != "" {
		msg += " " + e.StatusText
	}
	if e.Event.Err != nil {
		msg += ": " + e.Event.Err.Error()
	}
	return msg
}

// Unwrap returns the transport error, if any.
func (e *RequestError) Unwrap() error {
	return e.Event.Err
}
