package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (AJAX_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", os.Getenv("AJAX_NAME"), &cfg.Name)
	s.setString("debug", os.Getenv("AJAX_DEBUG"), &cfg.Debug)
	s.setString("url", os.Getenv("AJAX_URL"), &cfg.URL)
	s.setString("method", os.Getenv("AJAX_METHOD"), &cfg.Method)
	s.setString("body", os.Getenv("AJAX_BODY"), &cfg.Body)
	s.setString("request-id-header", os.Getenv("AJAX_REQUEST_ID_HEADER"), &cfg.RequestIDHeader)

	if err := s.setDuration("timeout", os.Getenv("AJAX_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("progress-interval", os.Getenv("AJAX_PROGRESS_INTERVAL"), &cfg.ProgressInterval); err != nil {
		return err
	}

	s.setBoolFromString("events", os.Getenv("AJAX_EVENTS"), &cfg.Events)

	return nil
}
