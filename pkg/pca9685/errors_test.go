package pca9685

import (
	"errors"
	"testing"
)

func TestParseRegisterValue(t *testing.T) {
	cases := []struct {
		in   string
		want uint8
	}{
		{in: "0x1a\n", want: 0x1A},
		{in: "0XFF", want: 0xFF},
		{in: "  00 ", want: 0},
		{in: "a0", want: 0xA0},
	}
	for _, tc := range cases {
		got, err := ParseRegisterValue(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseRegisterValue(%q)=%#x,%v want %#x", tc.in, got, err, tc.want)
		}
	}

	for _, in := range []string{"", "\n", "Error: Read failed", "0x100", "0xZZ"} {
		if _, err := ParseRegisterValue(in); !errors.Is(err, ErrDecode) {
			t.Fatalf("ParseRegisterValue(%q) err=%v want ErrDecode", in, err)
		}
	}
}

func TestTransportError(t *testing.T) {
	err := error(&TransportError{Op: "write", Register: 0xFE, Err: errBus})
	if err.Error() != "pca9685: write register 0xFE: bus busy" {
		t.Fatalf("Error()=%q", err.Error())
	}
	if !errors.Is(err, errBus) {
		t.Fatalf("TransportError does not unwrap")
	}
}
