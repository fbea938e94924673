// Package events turns the outcomes of an ajax.Client into CloudEvents.
//
// A Recorder wraps a client's callback table so that every outcome is also
// delivered to an Emitter as a CloudEvent of type "com.bftlabs.ajax.<outcome>".
// The client's own callbacks keep running in the same order.
//
//	rec := events.NewRecorder(events.NewWriter(os.Stdout))
//	rec.Attach(client)
//	client.Get("http://localhost:8080/status/200")
package events
