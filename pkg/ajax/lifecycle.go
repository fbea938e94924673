package ajax

import (
	"net/http"

	"github.com/bft-labs/ajaxclient/pkg/log"
	"github.com/bft-labs/ajaxclient/pkg/socket"
	"github.com/bft-labs/ajaxclient/pkg/status"
)

// bind registers the client on both socket channels.
func (c *Client) bind() {
	c.socket.OnReadyStateChange(c.onReadyStateChange)
	c.socket.AddEventListener(socket.EventLoadStart, c.onLoadStart)
	c.socket.AddEventListener(socket.EventProgress, c.onProgress)
	c.socket.AddEventListener(socket.EventLoad, c.onLoad)
	c.socket.AddEventListener(socket.EventAbort, c.onAbort)
	c.socket.AddEventListener(socket.EventTimeout, c.onTimeout)
	c.socket.AddEventListener(socket.EventError, c.onSocketError)
	c.socket.AddEventListener(socket.EventLoadEnd, c.onLoadEnd)
}

// onReadyStateChange classifies the legacy channel. Only Opened and Headers
// received produce transitions; Loading and Done are covered by the discrete
// channel. Anything unexpected is a classification error.
func (c *Client) onReadyStateChange(ev socket.Event) {
	state := ev.ReadyState
	if c.hasErrored() {
		c.logger.Emit(log.LevelLog, "state handler skipping because of former errors",
			log.Stringer("ready_state", state))
		return
	}

	code, text := c.socket.Status(), c.socket.StatusText()
	c.logger.Emit(log.LevelLog, "ready state changed",
		log.Int("ready_state", int(state)),
		log.String("ready_state_text", state.String()),
		log.Int("status", code),
		log.String("status_text", text))

	switch state {
	case socket.Unsent:
		return
	case socket.Opened:
		if code == socket.StatusUnsent {
			if c.advance(status.Connected) {
				c.fire(OutcomeConnect, ev)
			}
			return
		}
	case socket.HeadersReceived:
		if code == http.StatusOK {
			if c.advance(status.Response) {
				c.fire(OutcomeResponse, ev)
			}
			return
		}
	case socket.Loading, socket.Done:
		return
	}

	c.mu.Lock()
	c.errored = true
	c.mu.Unlock()
	c.raise(ev, state, code, text)
}

func (c *Client) onLoadStart(ev socket.Event) {
	c.logger.Emit(log.LevelLog, "listener: loadstart")
	if c.advance(status.Requesting) {
		c.fire(OutcomeRequest, ev)
	}
}

func (c *Client) onProgress(ev socket.Event) {
	if c.hasErrored() {
		return
	}
	fields := []log.Field{log.Int64("loaded", ev.Loaded)}
	if pct, ok := ev.Percent(); ok {
		fields = append(fields, log.Float64("percent", pct))
	}
	c.logger.Emit(log.LevelLog, "listener: progress", fields...)

	if c.advance(status.Receiving) {
		c.fire(OutcomeReceive, ev)
	}
}

// onLoad decides success or failure. It is the only place that does.
func (c *Client) onLoad(ev socket.Event) {
	if !c.settle(ev) {
		return
	}
	code := c.socket.Status()
	if code < http.StatusBadRequest {
		c.logger.Emit(log.LevelInfo, "transfer closed with no errors", log.Int("status", code))
		c.advance(status.Success)
		c.fire(OutcomeSuccess, ev)
		return
	}
	c.logger.Emit(log.LevelInfo, "transfer closed with errors", log.Int("status", code))
	c.advance(status.Failure)
	c.fire(OutcomeFailure, ev)
}

func (c *Client) onAbort(ev socket.Event) {
	if !c.settle(ev) {
		return
	}
	c.advance(status.Aborted)
	c.fire(OutcomeAbort, ev)
}

func (c *Client) onTimeout(ev socket.Event) {
	if !c.settle(ev) {
		return
	}
	c.advance(status.Timeout)
	c.fire(OutcomeTimeout, ev)
}

func (c *Client) onSocketError(ev socket.Event) {
	if !c.settle(ev) {
		return
	}
	c.mu.Lock()
	c.errored = true
	c.mu.Unlock()
	c.raise(ev, c.socket.ReadyState(), c.socket.Status(), c.socket.StatusText())
}

// onLoadEnd reports completion without touching the status.
func (c *Client) onLoadEnd(ev socket.Event) {
	c.logger.Emit(log.LevelLog, "listener: loadend", log.Stringer("status", c.Status()))
	c.inFlight.Store(false)
	c.fire(OutcomeComplete, ev)
}

// raise moves to Error and reports a RequestError.
func (c *Client) raise(ev socket.Event, state socket.ReadyState, code int, text string) {
	c.advance(status.Error)

	rerr := &RequestError{
		Client:         c,
		ReadyState:     state,
		ReadyStateText: state.String(),
		Status:         code,
		StatusText:     text,
		Event:          ev,
	}
	c.logger.Emit(log.LevelError, "error occurred", log.Err(rerr), log.String("request_id", c.RequestID()))

	c.mu.Lock()
	fn := c.handlers.Error
	c.mu.Unlock()

	c.logger.Emit(log.LevelInfo, "triggering handler", log.String("outcome", string(OutcomeError)))
	if fn == nil {
		c.logger.Emit(log.LevelInfo, "handler undefined", log.String("outcome", string(OutcomeError)))
		return
	}
	fn(rerr)
}

// advance applies a status transition unless the request already reached a
// terminal status and next is not terminal.
func (c *Client) advance(next status.Status) bool {
	c.mu.Lock()
	if c.terminal && !next.IsTerminal() {
		c.mu.Unlock()
		c.logger.Emit(log.LevelInfo, "transition after terminal status dropped", log.Stringer("status", next))
		return false
	}
	if next.IsTerminal() {
		c.terminal = true
	}
	c.mu.Unlock()

	c.status.Set(next)
	return true
}

// settle admits the first of load, abort, timeout and error for a request.
func (c *Client) settle(ev socket.Event) bool {
	c.mu.Lock()
	first := !c.settled
	c.settled = true
	c.mu.Unlock()

	if !first {
		c.logger.Emit(log.LevelWarning, "second terminal event ignored", log.String("event", string(ev.Type)))
		return false
	}
	c.logger.Emit(log.LevelLog, "listener: "+string(ev.Type))
	return true
}

func (c *Client) hasErrored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errored
}

// fire invokes the event callback bound to o, if any.
func (c *Client) fire(o Outcome, ev socket.Event) {
	c.mu.Lock()
	fn := eventHandler(c.handlers, o)
	c.mu.Unlock()

	c.logger.Emit(log.LevelInfo, "triggering handler", log.String("outcome", string(o)))
	if fn == nil {
		c.logger.Emit(log.LevelInfo, "handler undefined", log.String("outcome", string(o)))
		return
	}
	fn(ev)
}

// statusChanged is the status model's subscriber.
func (c *Client) statusChanged() {
	c.mu.Lock()
	fn := c.handlers.Status
	c.mu.Unlock()

	c.logger.Emit(log.LevelInfo, "status changed", log.Stringer("status", c.Status()))
	if fn == nil {
		c.logger.Emit(log.LevelInfo, "handler undefined", log.String("outcome", string(OutcomeStatus)))
		return
	}
	fn(c)
}

func eventHandler(h Handlers, o Outcome) func(socket.Event) {
	switch o {
	case OutcomeConnect:
		return h.Connect
	case OutcomeRequest:
		return h.Request
	case OutcomeResponse:
		return h.Response
	case OutcomeReceive:
		return h.Receive
	case OutcomeSuccess:
		return h.Success
	case OutcomeFailure:
		return h.Failure
	case OutcomeAbort:
		return h.Abort
	case OutcomeTimeout:
		return h.Timeout
	case OutcomeComplete:
		return h.Complete
	default:
		return nil
	}
}
