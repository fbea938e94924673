package log

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type entry struct {
	severity string
	msg      string
	fields   []Field
}

// recordingLogger captures messages for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (r *recordingLogger) add(sev, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{sev, msg, fields})
}

func (r *recordingLogger) Debug(msg string, fields ...Field) { r.add("debug", msg, fields) }
func (r *recordingLogger) Info(msg string, fields ...Field)  { r.add("info", msg, fields) }
func (r *recordingLogger) Warn(msg string, fields ...Field)  { r.add("warn", msg, fields) }
func (r *recordingLogger) Error(msg string, fields ...Field) { r.add("error", msg, fields) }

func TestLevel_Admits(t *testing.T) {
	tests := []struct {
		verbosity Level
		msg       Level
		want      bool
	}{
		{LevelQuiet, LevelError, false},
		{LevelError, LevelError, true},
		{LevelError, LevelWarning, false},
		{LevelWarning, LevelError, true},
		{LevelWarning, LevelWarning, true},
		{LevelWarning, LevelLog, false},
		{LevelLog, LevelLog, true},
		{LevelLog, LevelInfo, false},
		{LevelInfo, LevelInfo, true},
		{LevelDebug, LevelInfo, true},
		{LevelDebug, LevelQuiet, false},
	}

	for _, tt := range tests {
		if got := tt.verbosity.Admits(tt.msg); got != tt.want {
			t.Errorf("%v.Admits(%v) = %v, want %v", tt.verbosity, tt.msg, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"quiet", LevelQuiet, false},
		{"ERROR", LevelError, false},
		{" warn ", LevelWarning, false},
		{"log", LevelLog, false},
		{"info", LevelInfo, false},
		{"debug", LevelDebug, false},
		{"8", LevelInfo, false},
		{"3", 0, true},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_String(t *testing.T) {
	if got := LevelWarning.String(); got != "warning" {
		t.Errorf("LevelWarning.String() = %q", got)
	}
	if got := Level(3).String(); got != "level(3)" {
		t.Errorf("Level(3).String() = %q", got)
	}
}

func TestLevelFilter_RoutesBySeverity(t *testing.T) {
	rec := &recordingLogger{}
	f := NewLevelFilter(rec, func() Level { return LevelDebug }, nil)

	f.Emit(LevelError, "e")
	f.Emit(LevelWarning, "w")
	f.Emit(LevelLog, "l")
	f.Emit(LevelInfo, "i")

	want := []string{"error", "warn", "info", "debug"}
	if len(rec.entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(rec.entries), len(want))
	}
	for i, sev := range want {
		if rec.entries[i].severity != sev {
			t.Errorf("entry %d severity = %s, want %s", i, rec.entries[i].severity, sev)
		}
	}
}

func TestLevelFilter_DropsBelowVerbosity(t *testing.T) {
	rec := &recordingLogger{}
	level := LevelWarning
	f := NewLevelFilter(rec, func() Level { return level }, nil)

	f.Info("dropped")
	f.Debug("dropped")
	f.Warn("kept")
	if len(rec.entries) != 1 || rec.entries[0].msg != "kept" {
		t.Fatalf("entries = %+v, want only 'kept'", rec.entries)
	}

	level = LevelQuiet
	f.Error("dropped")
	if len(rec.entries) != 1 {
		t.Errorf("quiet filter emitted %d entries", len(rec.entries)-1)
	}
}

func TestLevelFilter_PrependsContext(t *testing.T) {
	rec := &recordingLogger{}
	f := NewLevelFilter(rec, func() Level { return LevelError },
		func() []Field { return []Field{String("client", "orders")} })

	f.Error("boom", Int("status", 500))

	fields := rec.entries[0].fields
	if len(fields) != 2 {
		t.Fatalf("fields = %+v", fields)
	}
	if fields[0].Key != "client" || fields[0].Value != "orders" {
		t.Errorf("first field = %+v, want client=orders", fields[0])
	}
	if fields[1].Key != "status" {
		t.Errorf("second field = %+v, want status", fields[1])
	}
}

func TestZerologAdapter_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	a := NewZerologAdapterWithLogger(zerolog.New(&buf))

	a.Warn("timeout fixed", Duration("timeout", 0), String("client", "c"), Err(errors.New("bad")))

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"client":"c"`, `"error":"bad"`, `"message":"timeout fixed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}
