package events

import (
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"

	"github.com/bft-labs/ajaxclient/pkg/ajax"
)

const (
	// TypePrefix is prepended to the outcome name to form the event type.
	TypePrefix = "com.bftlabs.ajax."

	// DefaultSource is the event source when none is configured.
	DefaultSource = "ajaxclient"

	// ExtensionRequestID carries the client's request id.
	ExtensionRequestID = "requestid"
)

// Data is the payload of every lifecycle event.
type Data struct {
	Client     string `json:"client"`
	RequestID  string `json:"request_id,omitempty"`
	Status     string `json:"status"`
	HTTPStatus int    `json:"http_status"`
	ReadyState string `json:"ready_state,omitempty"`
	Loaded     int64  `json:"loaded,omitempty"`
	Total      int64  `json:"total,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Type returns the CloudEvent type for an outcome.
func Type(o ajax.Outcome) string {
	return TypePrefix + string(o)
}

// NewEvent builds a CloudEvent for one outcome. The id is a UUIDv7.
func NewEvent(o ajax.Outcome, source string, data Data) cloudevents.Event {
	event := cloudevents.NewEvent()
	event.SetID(newEventID())
	event.SetSource(source)
	event.SetType(Type(o))
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)
	if data.RequestID != "" {
		event.SetExtension(ExtensionRequestID, data.RequestID)
	}
	_ = event.SetData(cloudevents.ApplicationJSON, data)
	return event
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
