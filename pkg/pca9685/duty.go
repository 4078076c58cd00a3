package pca9685

// Duty is one PWM period's on and off tick, each in [0, MaxCount].
type Duty struct {
	On  uint16
	Off uint16
}

// SplitCount splits a 12-bit count into the low and high register bytes.
func SplitCount(count uint16) (lo, hi byte) {
	return byte(count & 0xFF), byte(count >> 8)
}

// Bytes is the ON_L, ON_H, OFF_L, OFF_H register block for d.
func (d Duty) Bytes() [4]byte {
	var b [4]byte
	b[0], b[1] = SplitCount(d.On)
	b[2], b[3] = SplitCount(d.Off)
	return b
}

func (d Duty) validate() error {
	if d.On > MaxCount || d.Off > MaxCount {
		return rangeErr("counts on=%d off=%d exceed %d", d.On, d.Off, MaxCount)
	}
	return nil
}

func validateChannel(channel int) error {
	if channel < 0 || channel >= Channels {
		return rangeErr("channel %d not in [0,%d]", channel, Channels-1)
	}
	return nil
}
