// Package socket defines the transport boundary an ajax client drives.
//
// A [Socket] performs a single HTTP transfer at a time and reports its
// progress through two channels:
//
//   - the legacy ready-state channel, one notification per [ReadyState]
//     transition (registered with OnReadyStateChange), and
//   - the discrete event channel: loadstart, progress, load, abort, timeout,
//     error and loadend (registered with AddEventListener).
//
// For one dispatched request a Socket delivers loadstart first, then zero or
// more progress events, then exactly one of load, abort, timeout or error, and
// finally loadend. All events of one request are delivered sequentially.
package socket
