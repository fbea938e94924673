package cliconfig

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/ajaxclient/pkg/log"
)

// Config holds CLI configuration for ajax.
type Config struct {
	Name  string
	Debug string
	Level log.Level // derived from Debug during Validate

	URL     string
	Method  string
	Body    string
	Timeout time.Duration

	RequestIDHeader  string
	ProgressInterval time.Duration
	Debounce         time.Duration
	Events           bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Name:             "ajax",
		Debug:            "warning",
		Level:            log.LevelWarning,
		Method:           http.MethodGet,
		RequestIDHeader:  "X-Request-ID",
		ProgressInterval: 50 * time.Millisecond,
		Debounce:         250 * time.Millisecond,
	}
}

// Validate checks the configuration for errors and sets derived values.
func (c *Config) Validate() error {
	c.URL = strings.TrimSpace(c.URL)
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("url %q must be absolute", c.URL)
	}

	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	switch c.Method {
	case "":
		c.Method = http.MethodGet
	case http.MethodGet, http.MethodPost:
	default:
		return fmt.Errorf("method %q not supported (GET or POST)", c.Method)
	}
	if c.Method == http.MethodGet && c.Body != "" {
		return fmt.Errorf("body is only valid for POST")
	}

	level, err := log.ParseLevel(c.Debug)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}
	c.Level = level

	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress interval must not be negative")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}

	return nil
}

// Target returns the string passed to the client: the url for GET, and the
// url joined with the body by '?' for POST.
func (c *Config) Target() string {
	if c.Method == http.MethodPost && c.Body != "" {
		return c.URL + "?" + c.Body
	}
	return c.URL
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
// A bare integer is read as milliseconds.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
