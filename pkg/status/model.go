package status

import (
	"sync"

	"github.com/bft-labs/ajaxclient/pkg/log"
)

// Model stores the current status and notifies one optional subscriber on
// every accepted update. It is safe for concurrent use.
type Model struct {
	mu         sync.RWMutex
	current    Status
	subscriber func()
	logger     log.Logger
}

// NewModel creates a model in Init.
func NewModel(logger log.Logger) *Model {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Model{current: Init, logger: logger}
}

// Subscribe installs the subscriber, replacing any previous one. Pass nil to
// remove it.
func (m *Model) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriber = fn
}

// Set stores v and notifies the subscriber. Values outside [Init, Error] are
// ignored with a warning; Set never fails.
func (m *Model) Set(v Status) {
	m.logger.Debug("status update requested", log.Int("status", int(v)))

	if !v.Valid() {
		m.logger.Warn("status not in valid range, ignoring", log.Int("status", int(v)))
		return
	}

	m.mu.Lock()
	m.current = v
	fn := m.subscriber
	m.mu.Unlock()

	// Notify outside of lock
	if fn != nil {
		fn()
	} else {
		m.logger.Debug("status subscriber undefined", log.String("status", v.String()))
	}
}

// Status returns the current value.
func (m *Model) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Name returns the current value's name, or UndefinedName when the value
// matches no enumeration entry.
func (m *Model) Name() string {
	return m.Status().String()
}
