package socket

import (
	"io"
	"time"
)

// StatusUnsent is the numeric status a socket reports before any response
// headers have arrived.
const StatusUnsent = 0

// Listener receives socket events.
type Listener func(Event)

// Socket is the transport a client wraps.
type Socket interface {
	// Open prepares a request. Only asynchronous sockets exist, so async must
	// be true. Opening while a transfer is running cancels that transfer
	// without firing its remaining events.
	Open(method, url string, async bool) error

	// Send starts the transfer opened by Open. A nil body sends none.
	// Send returns once loadstart has been delivered; the rest of the
	// transfer happens in the background.
	Send(body io.Reader) error

	// Abort cancels a transfer between Opened and Done. It is a no-op in any
	// other state.
	Abort()

	// SetRequestHeader adds a request header. Valid only after Open and
	// before Send.
	SetRequestHeader(name, value string) error

	// SetTimeout bounds the next transfer. Zero disables the timeout.
	SetTimeout(d time.Duration)

	Status() int
	StatusText() string
	ReadyState() ReadyState
	ResponseText() string

	// OnReadyStateChange sets the single legacy-channel listener.
	OnReadyStateChange(l Listener)

	// AddEventListener registers l for the discrete event typ.
	AddEventListener(typ EventType, l Listener)
}
