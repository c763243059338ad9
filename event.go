package telnet

import "strconv"

// EventKind tags the concrete type carried by an Event.
type EventKind int

const (
	// EventData carries a run of user-payload bytes, already un-escaped.
	EventData EventKind = iota
	// EventUnknownIAC carries an IAC followed by an unrecognized command
	// byte.
	EventUnknownIAC
	// EventNegotiation carries a received WILL/WONT/DO/DONT.
	EventNegotiation
	// EventSubnegotiation carries a complete, un-escaped SB payload.
	EventSubnegotiation
	// EventError carries a recoverable protocol violation.
	EventError
	// EventRemoteEnabled fires when the Q-Method registry confirms the
	// remote side has enabled an option.
	EventRemoteEnabled
	// EventRemoteDisabled fires when the registry confirms the remote side
	// has disabled (or refused) an option.
	EventRemoteDisabled
	// EventLocalEnabled fires when the registry confirms this side has
	// enabled an option.
	EventLocalEnabled
	// EventLocalDisabled fires when the registry confirms this side has
	// disabled (or had refused) an option.
	EventLocalDisabled
	// EventTimedOut is a façade-only event: ReadTimeout's deadline elapsed
	// with no event available. It is never produced by the Parser.
	EventTimedOut
	// EventNoData is a façade-only event: ReadNonblocking found nothing
	// available. It is never produced by the Parser.
	EventNoData
)

func (k EventKind) String() string {
	switch k {
	case EventData:
		return "Data"
	case EventUnknownIAC:
		return "UnknownIAC"
	case EventNegotiation:
		return "Negotiation"
	case EventSubnegotiation:
		return "Subnegotiation"
	case EventError:
		return "Error"
	case EventRemoteEnabled:
		return "RemoteEnabled"
	case EventRemoteDisabled:
		return "RemoteDisabled"
	case EventLocalEnabled:
		return "LocalEnabled"
	case EventLocalDisabled:
		return "LocalDisabled"
	case EventTimedOut:
		return "TimedOut"
	case EventNoData:
		return "NoData"
	default:
		return "Unknown"
	}
}

// Event is the single value type the Parser and Connection emit. Only the
// fields relevant to Kind are populated; the zero value of the others is
// meaningless for a given Kind.
type Event struct {
	Kind   EventKind
	Data   []byte
	Action Action
	Option Option
	Err    *ProtocolError
}

// String renders a short human-readable description, handy for debug hooks.
func (e Event) String() string {
	switch e.Kind {
	case EventData:
		return "Data(" + strconv.Itoa(len(e.Data)) + " bytes)"
	case EventUnknownIAC:
		if len(e.Data) > 0 {
			return "UnknownIAC(" + byteDecimal(e.Data[0]) + ")"
		}
		return "UnknownIAC"
	case EventNegotiation:
		return "Negotiation(" + e.Action.String() + " " + e.Option.String() + ")"
	case EventSubnegotiation:
		return "Subnegotiation(" + e.Option.String() + ")"
	case EventError:
		if e.Err != nil {
			return "Error(" + e.Err.Error() + ")"
		}
		return "Error"
	case EventRemoteEnabled, EventRemoteDisabled, EventLocalEnabled, EventLocalDisabled:
		return e.Kind.String() + "(" + e.Option.String() + ")"
	default:
		return e.Kind.String()
	}
}

func dataEvent(b []byte) Event {
	return Event{Kind: EventData, Data: b}
}

func unknownIACEvent(b byte) Event {
	return Event{Kind: EventUnknownIAC, Data: []byte{b}}
}

func negotiationEvent(a Action, opt Option) Event {
	return Event{Kind: EventNegotiation, Action: a, Option: opt}
}

func subnegotiationEvent(opt Option, payload []byte) Event {
	return Event{Kind: EventSubnegotiation, Option: opt, Data: payload}
}

func errorEvent(kind ErrorKind, opt Option, detail string) Event {
	return Event{Kind: EventError, Option: opt, Err: &ProtocolError{Kind: kind, Option: opt, Detail: detail}}
}

func optionStateEvent(kind EventKind, opt Option) Event {
	return Event{Kind: kind, Option: opt}
}
