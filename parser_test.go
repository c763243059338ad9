package telnet

import (
	"bytes"
	"testing"
)

func drain(p *Parser) []Event {
	var events []Event
	for {
		ev, ok := p.Next()
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}

func TestParserDoubleIACInData(t *testing.T) {
	p := NewParser()
	p.Feed([]byte{0x40, 0x5A, 0xFF, 0xFF, 0x31, 0x34})

	events := drain(p)
	var data []byte
	for _, ev := range events {
		if ev.Kind != EventData {
			t.Fatalf("unexpected event kind %v", ev.Kind)
		}
		data = append(data, ev.Data...)
	}

	want := []byte{0x40, 0x5A, 0xFF, 0x31, 0x34}
	if !bytes.Equal(data, want) {
		t.Errorf("parsed data = %v, want %v", data, want)
	}
}

func TestParserEscapedIACCoalescesWithFollowingData(t *testing.T) {
	p := NewParser()
	p.Feed([]byte{0x40, 0x5A, 0xFF, 0xFF, 0x31, 0x34})

	events := drain(p)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Kind != EventData || !bytes.Equal(events[0].Data, []byte{0x40, 0x5A}) {
		t.Errorf("event 0 = %+v, want Data([0x40, 0x5A])", events[0])
	}
	if events[1].Kind != EventData || !bytes.Equal(events[1].Data, []byte{0xFF, 0x31, 0x34}) {
		t.Errorf("event 1 = %+v, want Data([0xFF, 0x31, 0x34])", events[1])
	}
}

func TestParserNegotiationAmidData(t *testing.T) {
	p := NewParser()
	p.Feed([]byte{0x01, 0xFF, WILL, 0x01, 0x02})

	events := drain(p)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}
	if events[0].Kind != EventData || !bytes.Equal(events[0].Data, []byte{0x01}) {
		t.Errorf("event 0 = %+v, want Data([0x01])", events[0])
	}
	if events[1].Kind != EventNegotiation || events[1].Action != Will || events[1].Option != Echo {
		t.Errorf("event 1 = %+v, want Negotiation(Will, Echo)", events[1])
	}
	if events[2].Kind != EventData || !bytes.Equal(events[2].Data, []byte{0x02}) {
		t.Errorf("event 2 = %+v, want Data([0x02])", events[2])
	}
}

func TestParserSubnegotiationWithEscapedIAC(t *testing.T) {
	p := NewParser()
	p.Feed([]byte{IAC, SB, byte(TTYPE), 0x01, IAC, IAC, 0x03, IAC, SE})

	events := drain(p)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %+v", len(events), events)
	}
	ev := events[0]
	if ev.Kind != EventSubnegotiation || ev.Option != TTYPE {
		t.Fatalf("event = %+v, want Subnegotiation(TTYPE, ...)", ev)
	}
	want := []byte{0x01, 0xFF, 0x03}
	if !bytes.Equal(ev.Data, want) {
		t.Errorf("subnegotiation payload = %v, want %v", ev.Data, want)
	}
}

func TestParserUnknownIAC(t *testing.T) {
	p := NewParser()
	p.Feed([]byte{IAC, 0x01, 0x41})

	events := drain(p)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Kind != EventUnknownIAC || events[0].Data[0] != 0x01 {
		t.Errorf("event 0 = %+v, want UnknownIAC(1)", events[0])
	}
	if events[1].Kind != EventData || !bytes.Equal(events[1].Data, []byte{0x41}) {
		t.Errorf("event 1 = %+v, want Data([0x41])", events[1])
	}
}

func TestParserUnexpectedByteInSubnegotiation(t *testing.T) {
	p := NewParser()
	// IAC SB opt <data> IAC <bad> ... IAC SE
	p.Feed([]byte{IAC, SB, byte(NAWS), 0x01, IAC, 0x05, 0x02, IAC, SE})

	events := drain(p)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Kind != EventError {
		t.Errorf("event 0 = %+v, want Error", events[0])
	}
	if events[1].Kind != EventSubnegotiation {
		t.Fatalf("event 1 = %+v, want Subnegotiation", events[1])
	}
	want := []byte{0x01, 0x05, 0x02}
	if !bytes.Equal(events[1].Data, want) {
		t.Errorf("subnegotiation payload = %v, want %v", events[1].Data, want)
	}
}

func eventsEqual(a, b []Event) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Action != b[i].Action || a[i].Option != b[i].Option {
			return false
		}
		if !bytes.Equal(a[i].Data, b[i].Data) {
			return false
		}
	}
	return true
}

// mergeAdjacentData collapses consecutive Data events, matching the spec's
// resumability property which allows a single logical data run to be split
// across a buffer boundary.
func mergeAdjacentData(events []Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == EventData && len(out) > 0 && out[len(out)-1].Kind == EventData {
			out[len(out)-1].Data = append(out[len(out)-1].Data, ev.Data...)
			continue
		}
		out = append(out, ev)
	}
	return out
}

func TestParserResumabilityAcrossEverySplit(t *testing.T) {
	input := []byte{
		0x01, 0x02, IAC, IAC, 0x03,
		IAC, WILL, byte(Echo),
		IAC, SB, byte(TTYPE), 0x10, IAC, IAC, 0x11, IAC, SE,
		IAC, DONT, byte(SuppressGoAhead),
		0x04, 0x05,
	}

	whole := NewParser()
	whole.Feed(input)
	wantEvents := mergeAdjacentData(drain(whole))

	for split := 0; split <= len(input); split++ {
		p := NewParser()
		p.Feed(input[:split])
		p.Feed(input[split:])

		gotEvents := mergeAdjacentData(drain(p))
		if !eventsEqual(gotEvents, wantEvents) {
			t.Errorf("split at %d: events = %+v, want %+v", split, gotEvents, wantEvents)
		}
	}
}

func TestParserNoZeroLengthDataEvents(t *testing.T) {
	p := NewParser()
	p.Feed([]byte{IAC, WILL, byte(Echo), IAC, WONT, byte(Echo)})

	for _, ev := range drain(p) {
		if ev.Kind == EventData && len(ev.Data) == 0 {
			t.Errorf("got zero-length Data event: %+v", ev)
		}
	}
}
