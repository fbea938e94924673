// Package status holds the request lifecycle status of an ajax client.
//
// [Status] is a totally ordered enumeration following lifecycle progression,
// not severity:
//
//	Init < Ready < Connected < Requesting < Response < Receiving
//	     < Success < Failure < Aborted < Timeout < Error
//
// The last five are terminal. A [Model] stores the current value and notifies
// a single optional subscriber whenever a valid value is set.
package status
