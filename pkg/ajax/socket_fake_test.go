package ajax

import (
	"io"
	"sync"
	"time"

	"github.com/bft-labs/ajaxclient/pkg/socket"
)

// fakeSocket records calls and lets a test drive both channels by hand.
type fakeSocket struct {
	mu sync.Mutex

	opens   []string // "METHOD url"
	headers map[string]string
	bodies  []string
	sends   int
	aborts  int
	timeout time.Duration

	openErr error
	sendErr error

	state      socket.ReadyState
	status     int
	statusText string
	response   string

	onReadyState socket.Listener
	listeners    map[socket.EventType][]socket.Listener
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		headers:   make(map[string]string),
		listeners: make(map[socket.EventType][]socket.Listener),
	}
}

// Open fires the Opened ready state before returning, like a real socket.
func (f *fakeSocket) Open(method, url string, async bool) error {
	f.mu.Lock()
	if f.openErr != nil {
		f.mu.Unlock()
		return f.openErr
	}
	f.opens = append(f.opens, method+" "+url)
	f.headers = make(map[string]string)
	f.response = ""
	f.mu.Unlock()

	f.readyState(socket.Opened, socket.StatusUnsent, "")
	return nil
}

func (f *fakeSocket) Send(body io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sends++
	if body == nil {
		f.bodies = append(f.bodies, "<nil>")
		return nil
	}
	b, _ := io.ReadAll(body)
	f.bodies = append(f.bodies, string(b))
	return nil
}

func (f *fakeSocket) Abort() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aborts++
}

func (f *fakeSocket) SetRequestHeader(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headers[name] = value
	return nil
}

func (f *fakeSocket) SetTimeout(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeout = d
}

func (f *fakeSocket) Status() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeSocket) StatusText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusText
}

func (f *fakeSocket) ReadyState() socket.ReadyState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSocket) ResponseText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.response
}

func (f *fakeSocket) OnReadyStateChange(l socket.Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onReadyState = l
}

func (f *fakeSocket) AddEventListener(typ socket.EventType, l socket.Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners[typ] = append(f.listeners[typ], l)
}

// readyState moves to state with the given HTTP status and fires the legacy
// channel.
func (f *fakeSocket) readyState(state socket.ReadyState, status int, text string) {
	f.mu.Lock()
	f.state = state
	f.status = status
	f.statusText = text
	l := f.onReadyState
	f.mu.Unlock()
	if l != nil {
		l(socket.Event{Type: socket.EventReadyStateChange, ReadyState: state})
	}
}

func (f *fakeSocket) fire(ev socket.Event) {
	f.mu.Lock()
	ev.ReadyState = f.state
	ls := append([]socket.Listener(nil), f.listeners[ev.Type]...)
	f.mu.Unlock()
	for _, l := range ls {
		l(ev)
	}
}

// respond plays a complete transfer that ends with load.
func (f *fakeSocket) respond(status int, text, body string) {
	f.fire(socket.Event{Type: socket.EventLoadStart})
	f.readyState(socket.HeadersReceived, status, text)
	f.readyState(socket.Loading, status, text)
	f.mu.Lock()
	f.response = body
	f.mu.Unlock()
	n := int64(len(body))
	f.fire(socket.Event{Type: socket.EventProgress, Loaded: n, Total: n, LengthComputable: true})
	f.readyState(socket.Done, status, text)
	f.fire(socket.Event{Type: socket.EventLoad})
	f.fire(socket.Event{Type: socket.EventLoadEnd})
}

// end plays loadstart, then a terminal event of typ, then loadend.
func (f *fakeSocket) end(typ socket.EventType, cause error) {
	f.fire(socket.Event{Type: socket.EventLoadStart})
	f.readyState(socket.Done, socket.StatusUnsent, "")
	f.fire(socket.Event{Type: typ, Err: cause})
	f.fire(socket.Event{Type: socket.EventLoadEnd})
}

var _ socket.Socket = (*fakeSocket)(nil)
