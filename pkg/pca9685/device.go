// Package pca9685 drives the PCA9685 16-channel, 12-bit PWM controller at the
// register level. Bus access goes through an injected Transport.
package pca9685

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

var sleep = time.Sleep

// Transport performs register transactions against a chip on a bus.
type Transport interface {
	WriteRegister(bus int, addr, reg, value uint8) error
	WriteBlock(bus int, addr, reg uint8, data [4]byte) error
	ReadRegister(bus int, addr, reg uint8) (uint8, error)
}

// Device is one PCA9685 bound to a bus and address.
//
// Operations on a Device are serialized. Two Devices bound to the same chip
// must be coordinated by the caller.
type Device struct {
	mu sync.Mutex

	t    Transport
	bus  int
	addr uint8
	log  *slog.Logger
	base *slog.Logger

	initialHz float64
	prescale  uint8
	asleep    bool
}

type Option func(*Device)

// WithLogger sets the logger used for initialization and mode changes.
func WithLogger(l *slog.Logger) Option {
	return func(d *Device) { d.log = l }
}

// WithFrequency overrides the frequency programmed during construction.
func WithFrequency(hz float64) Option {
	return func(d *Device) { d.initialHz = hz }
}

// New binds a Device to addr on bus, resets the chip and programs the
// construction frequency (DefaultFrequency unless overridden).
func New(t Transport, bus int, addr uint8, opts ...Option) (*Device, error) {
	if t == nil {
		return nil, fmt.Errorf("pca9685: transport is nil")
	}
	if addr > 0x7F {
		return nil, rangeErr("address 0x%02X is not a 7-bit address", addr)
	}
	d := &Device{
		t:         t,
		bus:       bus,
		addr:      addr,
		log:       slog.Default(),
		initialHz: DefaultFrequency,
	}
	for _, o := range opts {
		o(d)
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	d.base = d.log
	d.log = d.log.With("bus", bus, "addr", fmt.Sprintf("0x%02X", addr))

	if err := d.Reset(); err != nil {
		return nil, err
	}
	if err := d.SetFrequency(d.initialHz); err != nil {
		return nil, err
	}
	d.log.Debug("pca9685 initialized", "prescale", d.prescale, "hz", FrequencyFor(d.prescale))
	return d, nil
}

// Rebind returns a new, fully initialized Device on the same transport.
func (d *Device) Rebind(bus int, addr uint8) (*Device, error) {
	return New(d.t, bus, addr, WithLogger(d.base), WithFrequency(d.initialHz))
}

func (d *Device) Bus() int       { return d.bus }
func (d *Device) Address() uint8 { return d.addr }

// PreScale is the last value the driver programmed into PRE_SCALE.
func (d *Device) PreScale() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prescale
}

// Frequency is the effective PWM frequency for PreScale.
func (d *Device) Frequency() float64 {
	return FrequencyFor(d.PreScale())
}

// Asleep reports whether the driver last put the oscillator to sleep.
func (d *Device) Asleep() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.asleep
}

// Reset sets RESTART in MODE1 and waits for the chip to settle.
func (d *Device) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.write(RegMode1, Mode1Restart); err != nil {
		return err
	}
	sleep(resetSettle)
	d.asleep = false
	return nil
}

// Sleep stops the oscillator. Other MODE1 bits are kept, RESTART is cleared.
func (d *Device) Sleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	mode, err := d.read(RegMode1)
	if err != nil {
		return err
	}
	if err := d.write(RegMode1, sleepMode(mode)); err != nil {
		return err
	}
	d.asleep = true
	return nil
}

// Wake clears SLEEP and, when the chip reports RESTART, resumes the PWM
// outputs it had before sleeping.
func (d *Device) Wake() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	mode, err := d.read(RegMode1)
	if err != nil {
		return err
	}
	awake := mode &^ (Mode1Sleep | Mode1Restart)
	if err := d.write(RegMode1, awake); err != nil {
		return err
	}
	d.asleep = false
	if mode&Mode1Restart == 0 {
		return nil
	}
	sleep(wakeSettle)
	return d.write(RegMode1, awake|Mode1Restart)
}

// SetFrequency programs PRE_SCALE for hz. The oscillator is put to sleep for
// the write and MODE1 is restored afterwards with auto-increment and RESTART
// set. SLEEP is restored with the rest of MODE1, so a sleeping chip stays
// asleep. A failure part way leaves the chip as the last successful write
// left it; call Reset or SetFrequency again to resynchronize.
func (d *Device) SetFrequency(hz float64) error {
	if !(hz > 0) || math.IsInf(hz, 0) {
		return rangeErr("frequency %v Hz", hz)
	}
	prescale := Prescale(hz)

	d.mu.Lock()
	defer d.mu.Unlock()
	oldMode, err := d.read(RegMode1)
	if err != nil {
		return err
	}
	if err := d.write(RegMode1, sleepMode(oldMode)); err != nil {
		return err
	}
	if err := d.write(RegPreScale, prescale); err != nil {
		return err
	}
	if err := d.write(RegMode1, oldMode); err != nil {
		return err
	}
	sleep(frequencySettle)
	if err := d.write(RegMode1, oldMode|Mode1Restart|Mode1AutoInc); err != nil {
		return err
	}
	d.prescale = prescale
	d.asleep = oldMode&Mode1Sleep != 0
	d.log.Debug("pca9685 frequency set", "requested_hz", hz, "prescale", prescale)
	return nil
}

// SetPWM writes one channel's on and off counts in a single block write.
func (d *Device) SetPWM(channel int, on, off uint16) error {
	duty := Duty{On: on, Off: off}
	if err := validateChannel(channel); err != nil {
		return err
	}
	if err := duty.validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeBlock(channelRegister(channel), duty.Bytes())
}

// SetAll writes the ALL_LED registers, which apply to every channel.
func (d *Device) SetAll(off, on uint16) error {
	duty := Duty{On: on, Off: off}
	if err := duty.validate(); err != nil {
		return err
	}
	b := duty.Bytes()

	d.mu.Lock()
	defer d.mu.Unlock()
	for i, reg := range []uint8{RegAllOnL, RegAllOnH, RegAllOffL, RegAllOffH} {
		if err := d.write(reg, b[i]); err != nil {
			return err
		}
	}
	return nil
}

// Read returns a single register.
func (d *Device) Read(reg uint8) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read(reg)
}

// Write sets a single register.
func (d *Device) Write(reg, value uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(reg, value)
}

// WriteBlock writes four contiguous registers starting at reg. It relies on
// auto-increment, which SetFrequency enables.
func (d *Device) WriteBlock(reg uint8, data [4]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeBlock(reg, data)
}

func (d *Device) read(reg uint8) (uint8, error) {
	v, err := d.t.ReadRegister(d.bus, d.addr, reg)
	if err != nil {
		return 0, &TransportError{Op: "read", Register: reg, Err: err}
	}
	return v, nil
}

func (d *Device) write(reg, value uint8) error {
	if err := d.t.WriteRegister(d.bus, d.addr, reg, value); err != nil {
		return &TransportError{Op: "write", Register: reg, Err: err}
	}
	return nil
}

func (d *Device) writeBlock(reg uint8, data [4]byte) error {
	if err := d.t.WriteBlock(d.bus, d.addr, reg, data); err != nil {
		return &TransportError{Op: "block write", Register: reg, Err: err}
	}
	return nil
}

func sleepMode(mode uint8) uint8 {
	return mode&0x7F | Mode1Sleep
}
