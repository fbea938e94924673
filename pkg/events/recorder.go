package events

import (
	"github.com/bft-labs/ajaxclient/pkg/ajax"
	"github.com/bft-labs/ajaxclient/pkg/log"
	"github.com/bft-labs/ajaxclient/pkg/socket"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithSource sets the CloudEvent source attribute.
func WithSource(source string) Option {
	return func(r *Recorder) {
		if source != "" {
			r.source = source
		}
	}
}

// WithLogger sets the logger used to report emit failures.
func WithLogger(logger log.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithOutcomes limits recording to the given outcomes.
func WithOutcomes(outcomes ...ajax.Outcome) Option {
	return func(r *Recorder) {
		r.only = make(map[ajax.Outcome]bool, len(outcomes))
		for _, o := range outcomes {
			r.only[o] = true
		}
	}
}

// Recorder converts client outcomes into CloudEvents.
type Recorder struct {
	emitter Emitter
	source  string
	logger  log.Logger
	only    map[ajax.Outcome]bool
}

// NewRecorder creates a Recorder that sends every outcome to emitter.
func NewRecorder(emitter Emitter, opts ...Option) *Recorder {
	r := &Recorder{
		emitter: emitter,
		source:  DefaultSource,
		logger:  log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach wraps the client's current callbacks. Callbacks installed with
// SetHandlers after Attach replace the wrapping.
func (r *Recorder) Attach(c *ajax.Client) {
	h := c.Handlers()
	h.Connect = r.wrap(c, ajax.OutcomeConnect, h.Connect)
	h.Request = r.wrap(c, ajax.OutcomeRequest, h.Request)
	h.Response = r.wrap(c, ajax.OutcomeResponse, h.Response)
	h.Receive = r.wrap(c, ajax.OutcomeReceive, h.Receive)
	h.Success = r.wrap(c, ajax.OutcomeSuccess, h.Success)
	h.Failure = r.wrap(c, ajax.OutcomeFailure, h.Failure)
	h.Abort = r.wrap(c, ajax.OutcomeAbort, h.Abort)
	h.Timeout = r.wrap(c, ajax.OutcomeTimeout, h.Timeout)
	h.Complete = r.wrap(c, ajax.OutcomeComplete, h.Complete)

	onError := h.Error
	h.Error = func(err *ajax.RequestError) {
		data := r.data(c)
		data.ReadyState = err.ReadyStateText
		data.HTTPStatus = err.Status
		data.Error = err.Error()
		r.emit(ajax.OutcomeError, data)
		if onError != nil {
			onError(err)
		}
	}

	onStatus := h.Status
	h.Status = func(c *ajax.Client) {
		r.emit(ajax.OutcomeStatus, r.data(c))
		if onStatus != nil {
			onStatus(c)
		}
	}

	c.SetHandlers(h)
}

func (r *Recorder) wrap(c *ajax.Client, o ajax.Outcome, next func(socket.Event)) func(socket.Event) {
	return func(ev socket.Event) {
		data := r.data(c)
		data.ReadyState = ev.ReadyState.String()
		data.Loaded = ev.Loaded
		if ev.LengthComputable {
			data.Total = ev.Total
		}
		if ev.Err != nil {
			data.Error = ev.Err.Error()
		}
		r.emit(o, data)
		if next != nil {
			next(ev)
		}
	}
}

func (r *Recorder) data(c *ajax.Client) Data {
	return Data{
		Client:     c.Name(),
		RequestID:  c.RequestID(),
		Status:     c.StatusName(),
		HTTPStatus: c.HTTPStatus(),
	}
}

func (r *Recorder) emit(o ajax.Outcome, data Data) {
	if r.only != nil && !r.only[o] {
		return
	}
	event := NewEvent(o, r.source, data)
	if err := event.Validate(); err != nil {
		r.logger.Warn("invalid lifecycle event", log.String("type", event.Type()), log.Err(err))
		return
	}
	if err := r.emitter.Emit(event); err != nil {
		r.logger.Warn("failed to emit lifecycle event", log.String("type", event.Type()), log.Err(err))
	}
}
