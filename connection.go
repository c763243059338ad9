package telnet

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
)

// Connection is the synchronous façade over a Transport, Parser, Writer,
// and negotiation Registry. It performs no background work: every public
// method does at most the transport I/O its name implies, and never spawns
// a goroutine. See the concurrency notes in SPEC_FULL.md for why this
// diverges from a multi-loop terminal design.
type Connection struct {
	id        uuid.UUID
	transport Transport
	parser    *Parser
	writer    *Writer
	registry  *Registry
	buf       []byte

	debug *EventPublisher
}

// Connect dials network/addr with net.Dialer and wraps the resulting
// connection as a Connection's transport.
func Connect(ctx context.Context, network, addr string, cfg Config) (*Connection, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	return FromTransport(NewNetTransport(conn), cfg), nil
}

// FromTransport builds a Connection directly atop an already-established
// Transport, e.g. a loopback fixture in a test or a TLS-wrapped socket.
func FromTransport(t Transport, cfg Config) *Connection {
	c := &Connection{
		id:        uuid.New(),
		transport: t,
		parser:    NewParser(),
		buf:       make([]byte, cfg.bufSize()),
		debug:     NewPublisher(),
	}
	c.writer = NewWriter(t)
	c.registry = NewRegistry(c.writer, c.parser.events)

	for opt, policy := range cfg.Policies {
		c.registry.SetPolicy(opt, policy)
	}

	return c
}

// ID returns the session-correlation identifier assigned to this
// Connection at construction, suitable for tagging log lines when multiple
// connections are active in the same process.
func (c *Connection) ID() uuid.UUID {
	return c.id
}

// OnEvent registers hook to observe every Event returned by Read,
// ReadTimeout, and ReadNonblocking, in addition to the caller receiving it
// directly. Intended for debug logging.
func (c *Connection) OnEvent(hook EventHook) {
	c.debug.Register(hook)
}

// AllowOption installs policy for opt, controlling whether future
// WILL/DO requests for it are accepted.
func (c *Connection) AllowOption(opt Option, policy Policy) {
	c.registry.SetPolicy(opt, policy)
}

// Read blocks until at least one event is available and returns it. It is
// the only method that may block indefinitely.
func (c *Connection) Read() (Event, error) {
	for {
		if ev, ok := c.parser.Next(); ok {
			c.publish(ev)
			return ev, nil
		}

		if err := c.fill(); err != nil {
			return Event{}, err
		}
	}
}

// ReadTimeout blocks until at least one event is available or d elapses,
// whichever comes first. On timeout it returns an EventTimedOut event and
// a nil error; the connection's parse state is left untouched so the next
// call resumes where this one left off.
func (c *Connection) ReadTimeout(d time.Duration) (Event, error) {
	deadline := time.Now().Add(d)
	defer c.transport.SetReadDeadline(time.Time{})

	for {
		if ev, ok := c.parser.Next(); ok {
			c.publish(ev)
			return ev, nil
		}

		if err := c.transport.SetReadDeadline(deadline); err != nil {
			return Event{}, err
		}

		err := c.fill()
		if isTimeout(err) {
			ev := Event{Kind: EventTimedOut}
			c.publish(ev)
			return ev, nil
		}
		if err != nil {
			return Event{}, err
		}
	}
}

// ReadNonblocking attempts to retrieve one event without waiting for the
// transport. If no event is immediately available it returns an EventNoData
// event and a nil error.
func (c *Connection) ReadNonblocking() (Event, error) {
	if ev, ok := c.parser.Next(); ok {
		c.publish(ev)
		return ev, nil
	}

	if err := c.transport.SetNonblocking(true); err != nil {
		return Event{}, err
	}
	defer c.transport.SetNonblocking(false)

	err := c.fill()
	if isTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		ev := Event{Kind: EventNoData}
		c.publish(ev)
		return ev, nil
	}
	if err != nil {
		return Event{}, err
	}

	if ev, ok := c.parser.Next(); ok {
		c.publish(ev)
		return ev, nil
	}

	ev := Event{Kind: EventNoData}
	c.publish(ev)
	return ev, nil
}

// fill performs exactly one transport read, feeds the bytes to the parser,
// and routes any Negotiation events through the Q-Method registry.
func (c *Connection) fill() error {
	n, err := c.transport.Read(c.buf)
	if n > 0 {
		before := c.parser.events.Len()
		c.parser.Feed(c.buf[:n])
		c.processNegotiations(before)
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("telnet: transport read returned 0 bytes with no error")
	}
	return nil
}

// processNegotiations routes any Negotiation events appended by the most
// recent Feed call (i.e. at or past the sinceLen watermark) through the
// registry, which may itself enqueue a response write and a higher-level
// RemoteEnabled/RemoteDisabled/etc. event ahead of whatever comes next.
// Only the newly appended slice is examined so an event already routed on
// a prior call, but not yet dequeued by Read, is never handled twice.
//
// The slice is copied out of the shared queue before iterating: registry
// is handed the same *queue[Event] the Parser appends to, so
// HandleNegotiation can itself call Queue and trigger straighten(), which
// shifts the queue's backing array in place. Iterating a live Buffer()
// view across that call would read shifted or stale entries.
func (c *Connection) processNegotiations(sinceLen int) {
	buffered := append([]Event(nil), c.parser.events.Buffer()[sinceLen:]...)
	for _, ev := range buffered {
		if ev.Kind != EventNegotiation {
			continue
		}
		c.registry.HandleNegotiation(ev.Action, ev.Option)
	}
}

func (c *Connection) publish(ev Event) {
	c.debug.Fire(c, ev)
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// Write sends src as escaped user data.
func (c *Connection) Write(src []byte) (int, error) {
	return c.writer.WriteData(src)
}

// Negotiate sends a raw negotiation frame without consulting the Q-Method
// registry. Prefer AskEnableRemote/AskEnableLocal for connection-driven
// option activation; Negotiate exists for callers that need to answer a
// negotiation manually.
func (c *Connection) Negotiate(action Action, opt Option) error {
	return c.writer.WriteNegotiate(action, opt)
}

// Subnegotiate sends a complete IAC SB opt ... IAC SE frame.
func (c *Connection) Subnegotiate(opt Option, params []byte) (int, error) {
	return c.writer.WriteSubnegotiate(opt, params)
}

// AskEnableRemote requests the remote side activate opt.
func (c *Connection) AskEnableRemote(opt Option) error { return c.registry.AskEnableRemote(opt) }

// AskDisableRemote requests the remote side deactivate opt.
func (c *Connection) AskDisableRemote(opt Option) error { return c.registry.AskDisableRemote(opt) }

// AskEnableLocal requests to activate opt on this side.
func (c *Connection) AskEnableLocal(opt Option) error { return c.registry.AskEnableLocal(opt) }

// AskDisableLocal requests to deactivate opt on this side.
func (c *Connection) AskDisableLocal(opt Option) error { return c.registry.AskDisableLocal(opt) }

// RemoteEnabled reports whether opt is currently active on the remote side.
func (c *Connection) RemoteEnabled(opt Option) bool { return c.registry.RemoteEnabled(opt) }

// LocalEnabled reports whether opt is currently active on this side.
func (c *Connection) LocalEnabled(opt Option) bool { return c.registry.LocalEnabled(opt) }

// Transport returns the underlying Transport, e.g. to call BeginZlib on a
// *ZlibTransport after negotiating Compress2.
func (c *Connection) Transport() Transport {
	return c.transport
}
