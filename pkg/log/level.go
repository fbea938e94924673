package log

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a verbosity level. The values are bit-spaced so they can be
// compared directly: a message is emitted when its level is <= the configured
// level.
type Level int

const (
	LevelQuiet   Level = 0
	LevelError   Level = 1
	LevelWarning Level = 2
	LevelLog     Level = 4
	LevelInfo    Level = 8
	LevelDebug   Level = 16
)

// String returns the lower-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelQuiet:
		return "quiet"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelLog:
		return "log"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
}

// Valid reports whether l is one of the six defined levels.
func (l Level) Valid() bool {
	switch l {
	case LevelQuiet, LevelError, LevelWarning, LevelLog, LevelInfo, LevelDebug:
		return true
	}
	return false
}

// Admits reports whether a message of level msg is emitted at verbosity l.
func (l Level) Admits(msg Level) bool {
	return msg > LevelQuiet && msg <= l
}

// ParseLevel parses a level name ("warning", "debug", ...) or its numeric value.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "quiet", "off", "none":
		return LevelQuiet, nil
	case "error":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "log":
		return LevelLog, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse level %q: unknown level", s)
	}
	if l := Level(n); l.Valid() {
		return l, nil
	}
	return 0, fmt.Errorf("parse level %q: not a defined level", s)
}

// LevelFilter is a Logger that drops messages the current verbosity does not
// admit and prefixes every message with a set of context fields.
//
// Both the verbosity and the context are read on every call, so the owner can
// change them at any time.
type LevelFilter struct {
	next      Logger
	verbosity func() Level
	context   func() []Field
}

// NewLevelFilter wraps next. A nil next discards everything; a nil context adds
// no fields.
func NewLevelFilter(next Logger, verbosity func() Level, context func() []Field) *LevelFilter {
	if next == nil {
		next = NoopLogger{}
	}
	return &LevelFilter{next: next, verbosity: verbosity, context: context}
}

// Emit sends msg to the severity channel matching lvl, or drops it.
func (f *LevelFilter) Emit(lvl Level, msg string, fields ...Field) {
	if !f.verbosity().Admits(lvl) {
		return
	}
	if f.context != nil {
		fields = append(f.context(), fields...)
	}
	switch lvl {
	case LevelError:
		f.next.Error(msg, fields...)
	case LevelWarning:
		f.next.Warn(msg, fields...)
	case LevelLog:
		f.next.Info(msg, fields...)
	default:
		f.next.Debug(msg, fields...)
	}
}

// Debug logs at LevelInfo, the most verbose level that carries messages.
func (f *LevelFilter) Debug(msg string, fields ...Field) { f.Emit(LevelInfo, msg, fields...) }

// Info logs at LevelLog.
func (f *LevelFilter) Info(msg string, fields ...Field) { f.Emit(LevelLog, msg, fields...) }

// Warn logs at LevelWarning.
func (f *LevelFilter) Warn(msg string, fields ...Field) { f.Emit(LevelWarning, msg, fields...) }

// Error logs at LevelError.
func (f *LevelFilter) Error(msg string, fields ...Field) { f.Emit(LevelError, msg, fields...) }
