package telnet

// parserState tags which phase of a command the Parser is mid-way through.
// The Parser holds exactly one of these across calls so that a frame split
// across two reads is stitched together transparently.
type parserState int

const (
	stateNormal parserState = iota
	stateIAC
	stateNegotiation
	stateSB
	stateSBData
)

// Parser is a resumable, single-threaded byte-to-Event state machine. It
// never blocks and never allocates more than the current in-flight frame;
// callers feed it bytes from any source (a socket read, a test fixture) via
// Feed and drain completed events with Next.
//
// A Parser must not be used from more than one goroutine concurrently.
type Parser struct {
	state parserState

	// pendingAction is valid only in stateNegotiation: the WILL/WONT/DO/DONT
	// byte already seen, awaiting its option byte.
	pendingAction Action

	// sbOption, sbBuffer, sbPendingIAC are valid only in stateSB/stateSBData:
	// the option byte of the in-progress subnegotiation (once seen), its
	// accumulated and already-unescaped payload, and whether the previous
	// byte was an IAC awaiting disambiguation.
	sbOption     Option
	sbBuffer     []byte
	sbPendingIAC bool

	events *queue[Event]
}

// NewParser creates a Parser ready to consume the start of a fresh Telnet
// byte stream.
func NewParser() *Parser {
	return &Parser{
		state:  stateNormal,
		events: newQueue[Event](16),
	}
}

// Feed parses input and appends any completed events to the Parser's
// internal queue, retrievable via Next. Feed never blocks and never returns
// an error: malformed sequences are surfaced as Error events rather than
// aborting the parse (see ErrorKind).
func (p *Parser) Feed(input []byte) {
	i := 0
	dataStart := 0

	for i < len(input) {
		b := input[i]

		switch p.state {
		case stateNormal:
			if b != IAC {
				i++
				continue
			}

			if i > dataStart {
				p.events.Queue(dataEvent(cloneBytes(input[dataStart:i])))
			}
			i++
			dataStart = i
			p.state = stateIAC

		case stateIAC:
			switch {
			case b == IAC:
				// Escaped literal 0xFF: resume normal accumulation with
				// this byte as the start of the new run, without flushing
				// yet, so a following plain-byte run coalesces into the
				// same Data event instead of fragmenting at every escape.
				dataStart = i
				p.state = stateNormal
				i++
			case b == SB:
				i++
				p.state = stateSB
			default:
				if action, ok := parseAction(b); ok {
					p.pendingAction = action
					i++
					p.state = stateNegotiation
				} else {
					p.events.Queue(unknownIACEvent(b))
					i++
					dataStart = i
					p.state = stateNormal
				}
			}

		case stateNegotiation:
			p.events.Queue(negotiationEvent(p.pendingAction, ParseOption(b)))
			i++
			dataStart = i
			p.state = stateNormal

		case stateSB:
			p.sbOption = ParseOption(b)
			p.sbBuffer = p.sbBuffer[:0]
			p.sbPendingIAC = false
			i++
			p.state = stateSBData

		case stateSBData:
			if !p.sbPendingIAC {
				if b == IAC {
					p.sbPendingIAC = true
				} else {
					p.sbBuffer = append(p.sbBuffer, b)
				}
				i++
				continue
			}

			switch b {
			case SE:
				p.events.Queue(subnegotiationEvent(p.sbOption, cloneBytes(p.sbBuffer)))
				i++
				dataStart = i
				p.state = stateNormal
			case IAC:
				p.sbBuffer = append(p.sbBuffer, IAC)
				p.sbPendingIAC = false
				i++
			default:
				p.events.Queue(errorEvent(ErrUnexpectedByte, p.sbOption, "IAC followed by "+CommandName(b)+" inside subnegotiation"))
				p.sbBuffer = append(p.sbBuffer, b)
				p.sbPendingIAC = false
				i++
			}
		}
	}

	if p.state == stateNormal && i > dataStart {
		p.events.Queue(dataEvent(cloneBytes(input[dataStart:i])))
	}
}

// Next dequeues the oldest pending event. ok is false when no event is
// currently available; the caller should feed more bytes.
func (p *Parser) Next() (event Event, ok bool) {
	if p.events.Len() == 0 {
		return Event{}, false
	}
	return p.events.Dequeue(), true
}

// Pending reports how many completed events are queued and not yet
// retrieved via Next.
func (p *Parser) Pending() int {
	return p.events.Len()
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
