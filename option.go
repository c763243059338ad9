package telnet

import "strconv"

// Option identifies a negotiable Telnet feature by its RFC 1340 registry
// code. Values outside the named set are preserved as their byte value
// rather than rejected, so the parser never has to refuse an option byte.
type Option byte

// Named options from the RFC 1340 Telnet option registry. Unlisted byte
// values are still valid Options; use String to render them and Code to
// recover the byte.
const (
	TransmitBinary  Option = 0
	Echo            Option = 1
	Reconnection    Option = 2
	SuppressGoAhead Option = 3
	AMSN            Option = 4
	Status          Option = 5
	TimingMark      Option = 6
	RCTE            Option = 7
	OutLineWidth    Option = 8
	OutPageSize     Option = 9
	NAOCRD          Option = 10
	NAOHTS          Option = 11
	NAOHTD          Option = 12
	NAOFFD          Option = 13
	NAOVTS          Option = 14
	NAOVTD          Option = 15
	NAOLFD          Option = 16
	XASCII          Option = 17
	Logout          Option = 18
	ByteMacro       Option = 19
	DET             Option = 20
	SUPDUP          Option = 21
	SUPDUPOutput    Option = 22
	SNDLOC          Option = 23
	TTYPE           Option = 24
	EOR             Option = 25
	TUID            Option = 26
	OUTMRK          Option = 27
	TTYLOC          Option = 28
	OPT3270Regime   Option = 29
	X3PAD           Option = 30
	NAWS            Option = 31
	TSPEED          Option = 32
	LFLOW           Option = 33
	Linemode        Option = 34
	XDISPLOC        Option = 35
	Environment     Option = 36
	Authentication  Option = 37
	Encryption      Option = 38
	NewEnvironment  Option = 39
	MSSP            Option = 70
	Compress        Option = 85
	Compress2       Option = 86
	ZMP             Option = 93
	EXOPL           Option = 255
)

var optionNames = map[Option]string{
	TransmitBinary:  "TRANSMIT-BINARY",
	Echo:            "ECHO",
	Reconnection:    "RECONNECTION",
	SuppressGoAhead: "SUPPRESS-GO-AHEAD",
	AMSN:            "APPROX-MESSAGE-SIZE-NEGOTIATION",
	Status:          "STATUS",
	TimingMark:      "TIMING-MARK",
	RCTE:            "RCTE",
	OutLineWidth:    "OUTPUT-LINE-WIDTH",
	OutPageSize:     "OUTPUT-PAGE-SIZE",
	NAOCRD:          "OUTPUT-CR-DISPOSITION",
	NAOHTS:          "OUTPUT-HORIZONTAL-TABSTOPS",
	NAOHTD:          "OUTPUT-HORIZONTAL-TAB-DISPOSITION",
	NAOFFD:          "OUTPUT-FORMFEED-DISPOSITION",
	NAOVTS:          "OUTPUT-VERTICAL-TABSTOPS",
	NAOVTD:          "OUTPUT-VERTICAL-TAB-DISPOSITION",
	NAOLFD:          "OUTPUT-LINEFEED-DISPOSITION",
	XASCII:          "EXTENDED-ASCII",
	Logout:          "LOGOUT",
	ByteMacro:       "BYTE-MACRO",
	DET:             "DATA-ENTRY-TERMINAL",
	SUPDUP:          "SUPDUP",
	SUPDUPOutput:    "SUPDUP-OUTPUT",
	SNDLOC:          "SEND-LOCATION",
	TTYPE:           "TERMINAL-TYPE",
	EOR:             "END-OF-RECORD",
	TUID:            "TACACS-USER-IDENTIFICATION",
	OUTMRK:          "OUTPUT-MARKING",
	TTYLOC:          "TERMINAL-LOCATION-NUMBER",
	OPT3270Regime:   "TELNET-3270-REGIME",
	X3PAD:           "X.3-PAD",
	NAWS:            "NEGOTIATE-ABOUT-WINDOW-SIZE",
	TSPEED:          "TERMINAL-SPEED",
	LFLOW:           "REMOTE-FLOW-CONTROL",
	Linemode:        "LINEMODE",
	XDISPLOC:        "X-DISPLAY-LOCATION",
	Environment:     "ENVIRONMENT-OPTION",
	Authentication:  "AUTHENTICATION-OPTION",
	Encryption:      "ENCRYPTION-OPTION",
	NewEnvironment:  "NEW-ENVIRONMENT-OPTION",
	MSSP:            "MSSP",
	Compress:        "COMPRESS",
	Compress2:       "COMPRESS2",
	ZMP:             "ZMP",
	EXOPL:           "EXTENDED-OPTIONS-LIST",
}

// ParseOption converts a wire byte into an Option. Every byte value maps to
// some Option: named registry entries get their symbolic constant, and all
// other bytes round-trip as themselves as unnamed Option values.
func ParseOption(b byte) Option {
	return Option(b)
}

// Code returns the wire byte for this option. ParseOption(opt.Code()) == opt
// for every Option value.
func (o Option) Code() byte {
	return byte(o)
}

// String renders the option's registry name, or its decimal code in
// parentheses if it has no registered name.
func (o Option) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return "OPTION(" + strconv.Itoa(int(o)) + ")"
}

// Policy records whether a connection permits a given option to be enabled
// locally, remotely, or both. The zero value disallows both sides, matching
// the negotiation state machine's conservative default.
type Policy struct {
	// LocalAllowed permits this side to answer an incoming DO with WILL
	// rather than WONT. AskEnableLocal does not consult it.
	LocalAllowed bool
	// RemoteAllowed permits the remote side to enable the option, i.e. this
	// side will answer an incoming WILL with DO rather than DONT.
	RemoteAllowed bool
}
