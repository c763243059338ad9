package telnet

// DefaultBufSize is a convenience size for callers who want a larger
// Transport.Read buffer than the zero-value Config promotes to; it is not
// applied implicitly anywhere. Set Config.BufSize to DefaultBufSize to use
// it.
const DefaultBufSize = 4096

// Config controls how a Connection reads from its transport and which
// options it is willing to negotiate. The zero value is usable: it reads
// one byte at a time and disallows every option on both sides until
// Policies or AllowOption populates them.
type Config struct {
	// BufSize is the size of the buffer used for each Transport.Read call.
	// Values less than 1, including the zero value, are promoted to 1. Set
	// this explicitly (e.g. to DefaultBufSize) to read larger chunks.
	BufSize int

	// Policies seeds the negotiation Registry's per-option policy table at
	// construction time. Additional entries can be installed later via
	// Connection.AllowOption.
	Policies map[Option]Policy
}

func (c Config) bufSize() int {
	if c.BufSize < 1 {
		return 1
	}
	return c.BufSize
}
