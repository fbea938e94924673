package status

// Status is the lifecycle status of a client's current request.
type Status int

const (
	Init       Status = iota - 1 // before construction completes
	Ready                        // idle, nothing dispatched yet
	Connected                    // socket opened
	Requesting                   // request sent, loadstart seen
	Response                     // response headers received
	Receiving                    // body transfer in progress
	Success                      // transfer closed with status < 400
	Failure                      // transfer closed with status >= 400
	Aborted
	Timeout
	Error
)

// UndefinedName is returned by String for values outside the enumeration.
const UndefinedName = "Undefined"

// String returns the human-readable name of the status.
func (s Status) String() string {
	switch s {
	case Init:
		return "Init"
	case Ready:
		return "Ready"
	case Connected:
		return "Connected"
	case Requesting:
		return "Requesting"
	case Response:
		return "Response"
	case Receiving:
		return "Receiving"
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case Aborted:
		return "Aborted"
	case Timeout:
		return "Timeout"
	case Error:
		return "Error"
	default:
		return UndefinedName
	}
}

// Valid reports whether s lies within [Init, Error].
func (s Status) Valid() bool {
	return s >= Init && s <= Error
}

// IsTerminal reports whether s ends a request.
func (s Status) IsTerminal() bool {
	return s >= Success && s <= Error
}

// All returns every status in lifecycle order.
func All() []Status {
	return []Status{Init, Ready, Connected, Requesting, Response, Receiving, Success, Failure, Aborted, Timeout, Error}
}
