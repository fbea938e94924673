package ajax

import "github.com/bft-labs/ajaxclient/pkg/socket"

// Outcome names a callback slot.
type Outcome string

const (
	OutcomeConnect  Outcome = "connect"
	OutcomeRequest  Outcome = "request"
	OutcomeResponse Outcome = "response"
	OutcomeReceive  Outcome = "receive"
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"
	OutcomeAbort    Outcome = "abort"
	OutcomeTimeout  Outcome = "timeout"
	OutcomeError    Outcome = "error"
	OutcomeComplete Outcome = "complete"
	OutcomeStatus   Outcome = "status"
)

// Outcomes lists every callback slot in lifecycle order.
var Outcomes = []Outcome{
	OutcomeConnect, OutcomeRequest, OutcomeResponse, OutcomeReceive,
	OutcomeSuccess, OutcomeFailure, OutcomeAbort, OutcomeTimeout,
	OutcomeError, OutcomeComplete, OutcomeStatus,
}

// Handlers is the outcome callback table. A nil field means nobody listens;
// the client logs that and moves on.
type Handlers struct {
	Connect  func(socket.Event) // socket opened
	Request  func(socket.Event) // request sent
	Response func(socket.Event) // 200 headers received
	Receive  func(socket.Event) // body chunk received, may repeat
	Success  func(socket.Event) // transfer closed with status < 400
	Failure  func(socket.Event) // transfer closed with status >= 400
	Abort    func(socket.Event)
	Timeout  func(socket.Event)
	Error    func(*RequestError)
	Complete func(socket.Event) // always last, exactly once per request
	Status   func(*Client)      // every status change
}
