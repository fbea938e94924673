package ajax

import (
	"time"

	"github.com/bft-labs/ajaxclient/pkg/log"
)

// DefaultName identifies clients that were not given a name.
const DefaultName = "AJAX.Client"

// FormContentType is set on POST requests that carry a body.
const FormContentType = "application/x-www-form-urlencoded"

// Config holds the caller-visible settings of a Client.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// Name identifies the client in log output. Empty means DefaultName.
	Name string

	// Debug is the log verbosity. Values other than the six defined levels
	// are ignored.
	Debug log.Level

	// Timeout bounds each request. Zero disables it; negative values are
	// normalized to their absolute value.
	Timeout time.Duration

	// RequestIDHeader, when set, carries each request's id to the server.
	RequestIDHeader string
}

// DefaultConfig returns a Config that logs warnings and errors and never
// times out.
func DefaultConfig() Config {
	return Config{
		Name:  DefaultName,
		Debug: log.LevelWarning,
	}
}
