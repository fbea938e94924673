package ajax

import (
	"github.com/bft-labs/ajaxclient/pkg/log"
	"github.com/bft-labs/ajaxclient/pkg/socket"
)

// Option configures optional behavior of a Client.
type Option func(*options)

type options struct {
	socket    socket.Socket
	socketSet bool
	logger    log.Logger
	handlers  Handlers
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithSocket sets the transport. Without it the client uses a net/http
// socket. Passing nil leaves the client without a socket, so Get and Post
// refuse to dispatch.
func WithSocket(s socket.Socket) Option {
	return func(o *options) {
		o.socket = s
		o.socketSet = true
	}
}

// WithLogger sets the logging sink. If not provided, a no-op logger is used.
// The client's Debug level filters what reaches it.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHandlers installs the initial callback table.
func WithHandlers(h Handlers) Option {
	return func(o *options) {
		o.handlers = h
	}
}
