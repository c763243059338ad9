package telnet

import (
	"compress/zlib"
	"io"
	"net"
	"time"
)

// Transport is the byte-stream capability a Connection consumes. It is an
// external collaborator: the parser, writer, and negotiation registry never
// reference it directly, only Connection does. Implementations wrap a TCP
// socket, a TLS session, or (via ZlibTransport) a compressed substream.
type Transport interface {
	io.Reader
	io.Writer

	// Flush pushes any internally buffered output to the underlying sink.
	// Implementations with no buffering may make this a no-op.
	Flush() error

	// SetNonblocking toggles whether Read should return a timeout error
	// immediately instead of waiting for data.
	SetNonblocking(nonblocking bool) error

	// SetReadDeadline bounds how long Read calls may wait until the
	// deadline is changed again. A zero Time disables the deadline.
	SetReadDeadline(t time.Time) error
}

// NetTransport adapts a net.Conn (TCP, TLS, or any other stream-oriented
// net.Conn) to Transport.
type NetTransport struct {
	conn net.Conn
}

// NewNetTransport wraps conn as a Transport.
func NewNetTransport(conn net.Conn) *NetTransport {
	return &NetTransport{conn: conn}
}

func (t *NetTransport) Read(p []byte) (int, error)  { return t.conn.Read(p) }
func (t *NetTransport) Write(p []byte) (int, error) { return t.conn.Write(p) }
func (t *NetTransport) Flush() error                { return nil }

func (t *NetTransport) SetNonblocking(nonblocking bool) error {
	if nonblocking {
		return t.conn.SetReadDeadline(time.Unix(0, 1))
	}
	return t.conn.SetReadDeadline(time.Time{})
}

func (t *NetTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

// Conn returns the underlying net.Conn, e.g. to close it or inspect its
// remote address.
func (t *NetTransport) Conn() net.Conn {
	return t.conn
}

// ZlibTransport decorates a Transport with on/off zlib decompression of
// inbound bytes, the mechanism MCCP2 (option Compress2) uses to switch an
// already-established connection to a compressed substream without
// reframing. Outbound writes are never compressed: MCCP2 is unidirectional
// (server to client).
type ZlibTransport struct {
	under Transport
	zr    io.ReadCloser
}

// NewZlibTransport wraps under; reads pass through uncompressed until
// BeginZlib is called.
func NewZlibTransport(under Transport) *ZlibTransport {
	return &ZlibTransport{under: under}
}

// BeginZlib switches subsequent Read calls to decompress through a zlib
// reader sourced from under. It is idempotent only in the sense that
// calling it twice starts a fresh zlib stream over whatever bytes follow;
// callers should call it exactly once, when the peer signals the start of
// its compressed stream.
func (z *ZlibTransport) BeginZlib() error {
	zr, err := zlib.NewReader(z.under)
	if err != nil {
		return err
	}
	z.zr = zr
	return nil
}

// EndZlib reverts to reading raw bytes from the underlying transport.
func (z *ZlibTransport) EndZlib() error {
	if z.zr == nil {
		return nil
	}
	err := z.zr.Close()
	z.zr = nil
	return err
}

func (z *ZlibTransport) Read(p []byte) (int, error) {
	if z.zr != nil {
		return z.zr.Read(p)
	}
	return z.under.Read(p)
}

func (z *ZlibTransport) Write(p []byte) (int, error)       { return z.under.Write(p) }
func (z *ZlibTransport) Flush() error                      { return z.under.Flush() }
func (z *ZlibTransport) SetNonblocking(n bool) error       { return z.under.SetNonblocking(n) }
func (z *ZlibTransport) SetReadDeadline(t time.Time) error { return z.under.SetReadDeadline(t) }
