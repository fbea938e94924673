package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Emitter receives lifecycle events.
type Emitter interface {
	Emit(event cloudevents.Event) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(event cloudevents.Event) error

func (f EmitterFunc) Emit(event cloudevents.Event) error {
	return f(event)
}

// Writer writes events as JSON lines in the CloudEvents structured format.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

func (w *Writer) Emit(event cloudevents.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(event); err != nil {
		return fmt.Errorf("write event %s: %w", event.ID(), err)
	}
	return nil
}

// Buffer keeps events in memory.
type Buffer struct {
	mu     sync.Mutex
	events []cloudevents.Event
}

func (b *Buffer) Emit(event cloudevents.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

// Events returns a copy of the buffered events.
func (b *Buffer) Events() []cloudevents.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]cloudevents.Event(nil), b.events...)
}

// Types returns the type of each buffered event, in order.
func (b *Buffer) Types() []string {
	events := b.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type()
	}
	return types
}
