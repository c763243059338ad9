package telnet

import "testing"

func TestOptionByteBijection(t *testing.T) {
	for b := 0; b <= 255; b++ {
		opt := ParseOption(byte(b))
		if got := opt.Code(); got != byte(b) {
			t.Errorf("ParseOption(%d).Code() = %d, want %d", b, got, b)
		}
	}
}

func TestOptionNamedRoundTrip(t *testing.T) {
	named := []Option{
		TransmitBinary, Echo, SuppressGoAhead, Status, TTYPE, EOR, NAWS,
		Linemode, NewEnvironment, MSSP, Compress, Compress2, EXOPL,
	}

	for _, opt := range named {
		if got := ParseOption(opt.Code()); got != opt {
			t.Errorf("ParseOption(%d) = %v, want %v", opt.Code(), got, opt)
		}
		if opt.String() == "" {
			t.Errorf("Option %d has empty String()", opt.Code())
		}
	}
}

func TestOptionUnknownRendersDecimal(t *testing.T) {
	opt := ParseOption(200)
	want := "OPTION(200)"
	if got := opt.String(); got != want {
		t.Errorf("ParseOption(200).String() = %q, want %q", got, want)
	}
}
