package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bft-labs/ajaxclient/pkg/log"
	"github.com/bft-labs/ajaxclient/pkg/socket"
)

// DefaultProgressInterval is the minimum spacing of progress events.
const DefaultProgressInterval = 50 * time.Millisecond

const readChunkSize = 32 << 10

// HTTPClient abstracts HTTP request execution for testing and custom transports.
// The standard *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Socket.
type Option func(*Socket)

// WithHTTPClient sets the client used to execute requests.
func WithHTTPClient(client HTTPClient) Option {
	return func(s *Socket) {
		s.client = client
	}
}

// WithLogger sets the logger used for transport diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(s *Socket) {
		s.logger = logger
	}
}

// WithProgressInterval sets the minimum spacing of progress events. Zero or
// negative values report every body chunk.
func WithProgressInterval(d time.Duration) Option {
	return func(s *Socket) {
		s.progressInterval = d
	}
}

// Socket implements socket.Socket on top of net/http.
//
// Each Send runs the transfer on its own goroutine, which delivers every event
// of that transfer in order. Open bumps a generation counter so that a
// superseded transfer never delivers another event.
type Socket struct {
	client           HTTPClient
	logger           log.Logger
	progressInterval time.Duration

	mu         sync.Mutex
	gen        uint64
	state      socket.ReadyState
	method     string
	target     string
	header     http.Header
	timeout    time.Duration
	sent       bool
	aborted    bool
	cancel     context.CancelFunc
	status     int
	statusText string
	respHeader http.Header
	body       bytes.Buffer

	onReadyState socket.Listener
	listeners    map[socket.EventType][]socket.Listener
}

// NewSocket creates a socket in the Unsent state.
func NewSocket(opts ...Option) *Socket {
	s := &Socket{
		client:           &http.Client{},
		logger:           log.NewNoopLogger(),
		progressInterval: DefaultProgressInterval,
		state:            socket.Unsent,
		listeners:        make(map[socket.EventType][]socket.Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open prepares a request and moves to Opened.
func (s *Socket) Open(method, rawURL string, async bool) error {
	if !async {
		return socket.ErrSyncUnsupported
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" || strings.ContainsAny(method, " \t\r\n") {
		return fmt.Errorf("%w: %q", socket.ErrInvalidMethod, method)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", socket.ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q is not absolute", socket.ErrInvalidURL, rawURL)
	}

	s.mu.Lock()
	if s.cancel != nil {
		// Superseded transfer: cancel it and drop its remaining events.
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen
	s.method = method
	s.target = u.String()
	s.header = make(http.Header)
	s.sent = false
	s.aborted = false
	s.status = socket.StatusUnsent
	s.statusText = ""
	s.respHeader = nil
	s.body.Reset()
	s.state = socket.Opened
	s.mu.Unlock()

	s.emitReadyState(gen)
	return nil
}

// SetRequestHeader adds a header to the opened request.
func (s *Socket) SetRequestHeader(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != socket.Opened || s.sent {
		return fmt.Errorf("set header %q: %w", name, socket.ErrInvalidState)
	}
	s.header.Add(name, value)
	return nil
}

// SetTimeout bounds the next transfer.
func (s *Socket) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

// Send starts the transfer. It fires loadstart before returning.
func (s *Socket) Send(body io.Reader) error {
	s.mu.Lock()
	if s.state != socket.Opened || s.sent {
		s.mu.Unlock()
		return fmt.Errorf("send: %w", socket.ErrInvalidState)
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	req, err := http.NewRequestWithContext(ctx, s.method, s.target, body)
	if err != nil {
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("create request: %w", err)
	}
	req.Header = s.header.Clone()

	s.sent = true
	s.cancel = cancel
	gen := s.gen
	s.mu.Unlock()

	s.emit(gen, socket.Event{Type: socket.EventLoadStart})

	go s.run(ctx, gen, req)
	return nil
}

// Abort cancels the running transfer. The abort, readystatechange and loadend
// events are delivered by the transfer goroutine.
func (s *Socket) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Transferring() {
		return
	}
	if s.state == socket.Opened && !s.sent {
		// Nothing on the wire yet.
		s.state = socket.Unsent
		return
	}
	s.aborted = true
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Socket) Status() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Socket) StatusText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusText
}

func (s *Socket) ReadyState() socket.ReadyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ResponseText returns the body received so far.
func (s *Socket) ResponseText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body.String()
}

// ResponseHeader returns a response header value, or "" before headers arrive.
func (s *Socket) ResponseHeader(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.respHeader == nil {
		return ""
	}
	return s.respHeader.Get(name)
}

func (s *Socket) OnReadyStateChange(l socket.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReadyState = l
}

func (s *Socket) AddEventListener(typ socket.EventType, l socket.Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[typ] = append(s.listeners[typ], l)
}

// run performs the transfer and delivers its events.
func (s *Socket) run(ctx context.Context, gen uint64, req *http.Request) {
	defer s.release(gen)

	resp, err := s.client.Do(req)
	if err != nil {
		s.fail(ctx, gen, err)
		return
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	if !s.transition(gen, func() {
		s.status = resp.StatusCode
		s.statusText = statusText(resp)
		s.respHeader = resp.Header.Clone()
		s.state = socket.HeadersReceived
	}) {
		return
	}
	s.emitReadyState(gen)

	if !s.transition(gen, func() { s.state = socket.Loading }) {
		return
	}
	s.emitReadyState(gen)

	limiter := s.progressLimiter()
	progress := func(loaded int64) socket.Event {
		return socket.Event{
			Type:             socket.EventProgress,
			Loaded:           loaded,
			Total:            total,
			LengthComputable: total >= 0,
		}
	}

	var (
		loaded   int64
		reported int64 = -1
		buf            = make([]byte, readChunkSize)
	)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			loaded += int64(n)
			if !s.transition(gen, func() { s.body.Write(buf[:n]) }) {
				return
			}
			if limiter == nil || limiter.Allow() {
				s.emit(gen, progress(loaded))
				reported = loaded
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			s.fail(ctx, gen, readErr)
			return
		}
	}

	// The final byte count is always reported.
	if reported != loaded {
		s.emit(gen, progress(loaded))
	}

	s.finish(gen, socket.EventLoad, nil)
}

// fail classifies a transport error as abort, timeout or error.
func (s *Socket) fail(ctx context.Context, gen uint64, err error) {
	s.mu.Lock()
	aborted := s.aborted
	s.mu.Unlock()

	switch {
	case aborted:
		s.finish(gen, socket.EventAbort, nil)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		s.logger.Debug("transfer timed out", log.Err(err))
		s.finish(gen, socket.EventTimeout, nil)
	default:
		s.logger.Debug("transfer failed", log.Err(err))
		s.finish(gen, socket.EventError, err)
	}
}

// finish moves to Done and fires the terminal event followed by loadend.
// An abort requested after the body completed still wins.
func (s *Socket) finish(gen uint64, typ socket.EventType, cause error) {
	ok := s.transition(gen, func() {
		if typ == socket.EventLoad && s.aborted {
			typ = socket.EventAbort
		}
		if typ != socket.EventLoad {
			s.status = socket.StatusUnsent
			s.statusText = ""
		}
		s.state = socket.Done
	})
	if !ok {
		return
	}

	s.emitReadyState(gen)
	s.emit(gen, socket.Event{Type: typ, Err: cause})
	s.emit(gen, socket.Event{Type: socket.EventLoadEnd})
}

// release drops the cancel func of a finished transfer.
func (s *Socket) release(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// transition applies fn under the lock if gen is still current.
func (s *Socket) transition(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	fn()
	return true
}

func (s *Socket) progressLimiter() *rate.Limiter {
	if s.progressInterval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(s.progressInterval), 1)
}

func (s *Socket) emitReadyState(gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	l := s.onReadyState
	state := s.state
	s.mu.Unlock()

	if l != nil {
		l(socket.Event{Type: socket.EventReadyStateChange, ReadyState: state, Time: time.Now()})
	}
}

func (s *Socket) emit(gen uint64, ev socket.Event) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	ls := append([]socket.Listener(nil), s.listeners[ev.Type]...)
	ev.ReadyState = s.state
	s.mu.Unlock()

	ev.Time = time.Now()
	for _, l := range ls {
		l(ev)
	}
}

// statusText strips the numeric prefix net/http puts into Response.Status.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

var _ socket.Socket = (*Socket)(nil)
