package ajax

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	httpAdapter "github.com/bft-labs/ajaxclient/internal/adapters/http"
	"github.com/bft-labs/ajaxclient/pkg/log"
	"github.com/bft-labs/ajaxclient/pkg/socket"
	"github.com/bft-labs/ajaxclient/pkg/status"
)

// Client is an asynchronous HTTP client that manages one request at a time.
// Use New() to create an instance.
type Client struct {
	cfgMu           sync.RWMutex
	name            string
	debug           log.Level
	timeout         time.Duration
	requestIDHeader string

	mu        sync.Mutex
	handlers  Handlers
	errored   bool // set on the first error of the current request
	terminal  bool // a terminal status was reached for the current request
	settled   bool // one of load, abort, timeout, error was handled
	requestID string

	inFlight atomic.Bool

	socket socket.Socket
	status *status.Model
	logger *log.LevelFilter
}

// New creates a client. The client starts in status.Init and is status.Ready
// when New returns.
func New(cfg Config, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		name:     DefaultName,
		debug:    log.LevelWarning,
		handlers: o.handlers,
	}
	c.logger = log.NewLevelFilter(o.logger, c.Debug, c.logContext)
	c.status = status.NewModel(c.logger)

	c.SetDebug(cfg.Debug)
	c.SetName(cfg.Name)
	c.SetTimeout(cfg.Timeout)
	c.requestIDHeader = strings.TrimSpace(cfg.RequestIDHeader)

	if o.socketSet {
		c.socket = o.socket
	} else {
		c.socket = httpAdapter.NewSocket(httpAdapter.WithLogger(c.logger))
	}
	if c.socket != nil {
		c.bind()
	} else {
		c.logger.Emit(log.LevelWarning, "client created without a socket")
	}

	c.status.Subscribe(c.statusChanged)
	c.status.Set(status.Ready)
	c.logger.Emit(log.LevelLog, "client created")
	return c
}

// Name returns the client name.
func (c *Client) Name() string {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.name
}

// SetName renames the client. An empty name restores DefaultName.
func (c *Client) SetName(name string) {
	if c.refuseInFlight("name") {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}

	c.cfgMu.Lock()
	previous := c.name
	c.name = name
	c.cfgMu.Unlock()

	if previous != name {
		c.logger.Emit(log.LevelLog, "name updated", log.String("previous", previous))
	}
}

// Debug returns the log verbosity.
func (c *Client) Debug() log.Level {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.debug
}

// SetDebug sets the log verbosity. Levels other than the six defined ones
// are ignored.
func (c *Client) SetDebug(level log.Level) {
	if c.refuseInFlight("debug") {
		return
	}
	if !level.Valid() {
		c.logger.Emit(log.LevelWarning, "invalid debug level ignored", log.Int("level", int(level)))
		return
	}

	c.cfgMu.Lock()
	c.debug = level
	c.cfgMu.Unlock()

	c.logger.Emit(log.LevelLog, "debug level updated", log.Stringer("level", level))
}

// SetDebugEnabled switches between full output (LevelDebug) and none
// (LevelQuiet).
func (c *Client) SetDebugEnabled(enabled bool) {
	if enabled {
		c.SetDebug(log.LevelDebug)
	} else {
		c.SetDebug(log.LevelQuiet)
	}
}

// Timeout returns the request timeout; zero means none.
func (c *Client) Timeout() time.Duration {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.timeout
}

// SetTimeout sets the request timeout. A negative value is stored as its
// absolute value, with a warning.
func (c *Client) SetTimeout(d time.Duration) {
	if c.refuseInFlight("timeout") {
		return
	}
	if d < 0 {
		d = -d
		c.logger.Emit(log.LevelWarning, "negative timeout inverted", log.Duration("timeout", d))
	}

	c.cfgMu.Lock()
	c.timeout = d
	c.cfgMu.Unlock()

	c.logger.Emit(log.LevelLog, "timeout updated", log.Duration("timeout", d))
}

// DisableTimeout removes the request timeout.
func (c *Client) DisableTimeout() {
	c.SetTimeout(0)
}

// Handlers returns a copy of the callback table.
func (c *Client) Handlers() Handlers {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handlers
}

// SetHandlers replaces the callback table. Handlers are looked up when an
// event is dispatched, so a change affects the running request too.
func (c *Client) SetHandlers(h Handlers) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = h
}

// Status returns the lifecycle status.
func (c *Client) Status() status.Status {
	return c.status.Status()
}

// StatusName returns the name of the lifecycle status, e.g. "Ready".
func (c *Client) StatusName() string {
	return c.status.Name()
}

// RequestID returns the id of the current or last dispatched request.
func (c *Client) RequestID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestID
}

// InFlight reports whether a dispatched request has not yet completed.
func (c *Client) InFlight() bool {
	return c.inFlight.Load()
}

// ResponseText returns the body of the current or last response.
func (c *Client) ResponseText() string {
	if c.socket == nil {
		return ""
	}
	return c.socket.ResponseText()
}

// HTTPStatus returns the numeric HTTP status reported by the socket.
func (c *Client) HTTPStatus() int {
	if c.socket == nil {
		return socket.StatusUnsent
	}
	return c.socket.Status()
}

func (c *Client) refuseInFlight(field string) bool {
	if !c.inFlight.Load() {
		return false
	}
	c.logger.Emit(log.LevelWarning, "configuration change refused",
		log.String("field", field), log.Err(ErrInFlight))
	return true
}

func (c *Client) logContext() []log.Field {
	return []log.Field{log.String("client", c.Name())}
}
