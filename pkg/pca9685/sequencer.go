package pca9685

import (
	"math"
	"time"
)

// SetPWMPair writes first to channel, blocks for delay, then writes second.
// It is the move-then-stop gesture used for servo sweeps. A zero delay issues
// the two writes back to back. If the first write fails the second is not
// attempted.
func (d *Device) SetPWMPair(channel int, first, second Duty, delay time.Duration) error {
	if err := validateChannel(channel); err != nil {
		return err
	}
	if err := first.validate(); err != nil {
		return err
	}
	if err := second.validate(); err != nil {
		return err
	}
	if delay < 0 {
		return rangeErr("delay %s is negative", delay)
	}

	reg := channelRegister(channel)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeBlock(reg, first.Bytes()); err != nil {
		return err
	}
	if delay > 0 {
		sleep(delay)
	}
	return d.writeBlock(reg, second.Bytes())
}

// Seconds converts a fractional number of seconds into a delay for SetPWMPair.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
