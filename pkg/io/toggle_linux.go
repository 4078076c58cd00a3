//go:build linux

package io

import (
	"fmt"
	"strconv"

	"github.com/warthog618/go-gpiocdev"
	"github.com/warthog618/go-gpiocdev/device/rpi"
)

// OpenOutputEnable requests pin on chip (e.g. "gpiochip0") as an output held
// high, so outputs stay blanked until Enable. pin is a line offset or a
// Raspberry Pi name such as "GPIO17" or "J8p11".
func OpenOutputEnable(chip, pin string) (*OutputEnable, error) {
	offset, err := pinOffset(pin)
	if err != nil {
		return nil, err
	}
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(1),
		gpiocdev.WithConsumer("pca9685-oe"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request OE line %s on %s: %w", pin, chip, err)
	}
	return &OutputEnable{line: &gpioLine{l}}, nil
}

func pinOffset(pin string) (int, error) {
	if n, err := strconv.Atoi(pin); err == nil {
		return n, nil
	}
	n, err := rpi.Pin(pin)
	if err != nil {
		return 0, fmt.Errorf("unknown OE pin %q: %w", pin, err)
	}
	return n, nil
}

type gpioLine struct {
	*gpiocdev.Line
}

// Close releases the line as an input so the board pull-up keeps OE high.
func (g *gpioLine) Close() error {
	_ = g.Line.Reconfigure(gpiocdev.AsInput)
	return g.Line.Close()
}
