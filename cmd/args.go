package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

func parseChannel(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("channel %q: %w", s, err)
	}
	return n, nil
}

// parseCount accepts decimal or 0x-prefixed counts. Range checks against
// MaxCount are left to the driver.
func parseCount(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: count %q", pca9685.ErrRange, s)
	}
	return uint16(n), nil
}

func parseByte(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: byte %q", pca9685.ErrRange, s)
	}
	return uint8(n), nil
}

// parseFrequency accepts a bare number of hertz or a value with a unit such
// as "50Hz" or "1kHz".
func parseFrequency(s string) (float64, error) {
	if hz, err := strconv.ParseFloat(s, 64); err == nil {
		return hz, nil
	}
	var f physic.Frequency
	if err := f.Set(s); err != nil {
		return 0, fmt.Errorf("frequency %q: %w", s, err)
	}
	return float64(f) / float64(physic.Hertz), nil
}

// parseDelay accepts a Go duration ("470ms") or fractional seconds ("0.47").
func parseDelay(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("delay %q: want a duration or seconds", s)
	}
	return pca9685.Seconds(sec), nil
}
