// Package log provides the logging sink used by ajax clients.
//
// A Logger has one method per severity. Clients never write to a Logger
// directly: every message passes through a [LevelFilter], which compares the
// message's verbosity [Level] against the client's configured level and drops
// anything the client was not asked to report.
//
// # Usage
//
// Wrap zerolog:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or discard everything:
//
//	logger := log.NewNoopLogger()
//
// # Levels
//
// Verbosity levels are ordered Quiet < Error < Warning < Log < Info < Debug.
// A message of level L is emitted when L <= the configured level, so Debug
// admits everything and Quiet admits nothing. Levels map onto Logger methods
// as Error→Error, Warning→Warn, Log→Info, and Info and Debug→Debug.
package log
