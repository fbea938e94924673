package socket

import "errors"

// Errors returned by Socket implementations. Wrapped errors can be checked
// with errors.Is.
var (
	// ErrInvalidState is returned when an operation does not fit the current
	// ready state, e.g. Send before Open.
	ErrInvalidState = errors.New("socket: invalid state")

	// ErrSyncUnsupported is returned by Open when async is false.
	ErrSyncUnsupported = errors.New("socket: synchronous requests are not supported")

	// ErrInvalidMethod is returned by Open for an empty or malformed method.
	ErrInvalidMethod = errors.New("socket: invalid method")

	// ErrInvalidURL is returned by Open when the url is not absolute.
	ErrInvalidURL = errors.New("socket: invalid url")
)
