package ajax

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bft-labs/ajaxclient/pkg/log"
)

// Get dispatches a GET request for url. It returns true once the request is
// on its way; the outcome arrives through the callbacks. It returns false,
// without touching the socket, when url is empty, there is no socket, or a
// request is already in flight.
func (c *Client) Get(url string) bool {
	c.logger.Emit(log.LevelInfo, ".get() called", log.String("url", url))
	return c.dispatch(http.MethodGet, strings.TrimSpace(url), "", false)
}

// Post dispatches a POST request. target is split on its first '?': the part
// before is the url, the rest (kept verbatim, including further '?') is sent
// as an urlencoded body. Without a '?' the request has no body and no
// Content-type header.
//
//	c.Post("http://x/y?a=1&b=2") // POST http://x/y, body "a=1&b=2"
func (c *Client) Post(target string) bool {
	c.logger.Emit(log.LevelInfo, ".post() called", log.String("target", target))
	url, body, hasBody := splitTarget(target)
	return c.dispatch(http.MethodPost, url, body, hasBody)
}

// Abort cancels the running request. Outside of a transfer it does nothing.
func (c *Client) Abort() {
	c.logger.Emit(log.LevelInfo, ".abort() called")
	if c.socket == nil || !c.inFlight.Load() {
		c.logger.Emit(log.LevelLog, "nothing to abort", log.Stringer("status", c.Status()))
		return
	}
	c.socket.Abort()
}

// splitTarget splits once on '?' and trims both halves.
func splitTarget(target string) (url, body string, hasBody bool) {
	target = strings.TrimSpace(target)
	url, body, hasBody = strings.Cut(target, "?")
	return strings.TrimSpace(url), strings.TrimSpace(body), hasBody
}

func (c *Client) dispatch(method, url, body string, hasBody bool) bool {
	if c.socket == nil {
		c.logger.Emit(log.LevelError, "socket unavailable", log.String("method", method))
		return false
	}
	if url == "" {
		c.logger.Emit(log.LevelError, "no valid URL specified, aborting", log.String("method", method))
		return false
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Emit(log.LevelError, "request refused", log.String("method", method), log.Err(ErrInFlight))
		return false
	}

	id := newRequestID()
	c.mu.Lock()
	c.errored = false
	c.terminal = false
	c.settled = false
	c.requestID = id
	c.mu.Unlock()

	c.socket.SetTimeout(c.Timeout())

	fields := []log.Field{log.String("method", method), log.String("url", url), log.String("request_id", id)}
	c.logger.Emit(log.LevelLog, "opening connection", fields...)
	if err := c.socket.Open(method, url, true); err != nil {
		c.inFlight.Store(false)
		c.logger.Emit(log.LevelError, "open failed", append(fields, log.Err(err))...)
		return false
	}

	var reader io.Reader
	if hasBody {
		if err := c.socket.SetRequestHeader("Content-type", FormContentType); err != nil {
			c.inFlight.Store(false)
			c.logger.Emit(log.LevelError, "set content type failed", append(fields, log.Err(err))...)
			return false
		}
		reader = strings.NewReader(body)
	}
	if header := c.idHeader(); header != "" {
		if err := c.socket.SetRequestHeader(header, id); err != nil {
			c.logger.Emit(log.LevelWarning, "set request id header failed", append(fields, log.Err(err))...)
		}
	}

	if err := c.socket.Send(reader); err != nil {
		c.inFlight.Store(false)
		c.logger.Emit(log.LevelError, "send failed", append(fields, log.Err(err))...)
		return false
	}
	c.logger.Emit(log.LevelLog, "request sent", append(fields, log.Bool("body", hasBody))...)
	return true
}

func (c *Client) idHeader() string {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.requestIDHeader
}

// newRequestID returns a time-ordered UUIDv7, falling back to v4.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
