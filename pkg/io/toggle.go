package io

// outputLine is the part of a GPIO line the output enable pin needs.
type outputLine interface {
	SetValue(value int) error
	Close() error
}

// OutputEnable drives the PCA9685's active-low OE pin. While disabled every
// channel output is off regardless of its PWM registers.
type OutputEnable struct {
	line outputLine
}

// Enable turns the channel outputs on.
func (o *OutputEnable) Enable() error {
	return o.line.SetValue(0)
}

// Disable blanks every channel output.
func (o *OutputEnable) Disable() error {
	return o.line.SetValue(1)
}

// Set enables or disables the outputs.
func (o *OutputEnable) Set(on bool) error {
	if on {
		return o.Enable()
	}
	return o.Disable()
}

// Close releases the pin.
func (o *OutputEnable) Close() error {
	return o.line.Close()
}
