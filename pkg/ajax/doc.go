// Package ajax provides an asynchronous HTTP client with an observable,
// callback-driven request lifecycle.
//
// A [Client] wraps one transport socket and manages one request at a time.
// Get and Post return as soon as the request is dispatched; the outcome is
// reported through the optional callbacks in [Handlers]:
//
//	c := ajax.New(ajax.DefaultConfig(), ajax.WithHandlers(ajax.Handlers{
//	    Success:  func(ev socket.Event) { fmt.Println("ok") },
//	    Failure:  func(ev socket.Event) { fmt.Println("http error") },
//	    Complete: func(ev socket.Event) { close(done) },
//	}))
//	if !c.Get("https://example.com/api") {
//	    // not dispatched: bad url or no socket
//	}
//
// # Lifecycle
//
// The socket reports each transfer twice: through the legacy ready-state
// channel and through discrete events. The client merges both into one
// [status.Status]:
//
//   - Opened with status 0 → Connected (connect)
//   - loadstart → Requesting (request)
//   - Headers received with status 200 → Response (response)
//   - progress → Receiving (receive)
//   - load → Success (status < 400) or Failure (status >= 400)
//   - abort → Aborted, timeout → Timeout, error → Error
//   - loadend → complete, status unchanged
//
// Any other ready-state/status combination is a classification error: the
// client moves to Error, fires the error callback once, and ignores the
// legacy channel for the rest of the request. The load event remains the
// authority on success or failure.
//
// Complete fires exactly once per dispatched request, whatever the outcome,
// and is the place to release resources tied to the request.
//
// # Concurrency
//
// Callbacks run on the socket's delivery goroutine, never while the client
// holds a lock, so they may call back into the client. Configuration setters
// are rejected while a request is in flight.
package ajax
