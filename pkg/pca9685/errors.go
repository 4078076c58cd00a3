package pca9685

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrRange is returned before any bus access when an argument is outside
	// the domain the chip accepts.
	ErrRange = errors.New("pca9685: value out of range")

	// ErrDecode is returned by transports whose register reads come back as
	// text that is not a byte value.
	ErrDecode = errors.New("pca9685: cannot decode register value")
)

// TransportError wraps a failed bus transaction.
type TransportError struct {
	Op       string
	Register uint8
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pca9685: %s register 0x%02X: %v", e.Op, e.Register, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func rangeErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrRange}, args...)...)
}

// ParseRegisterValue decodes a register value printed as hex text, with or
// without a 0x prefix, as i2cget prints it.
func ParseRegisterValue(s string) (uint8, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	if t == "" {
		return 0, fmt.Errorf("%w: empty output", ErrDecode)
	}
	v, err := strconv.ParseUint(t, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrDecode, strings.TrimSpace(s))
	}
	return uint8(v), nil
}
