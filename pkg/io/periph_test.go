package io

import (
	"bytes"
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	periphpca "periph.io/x/devices/v3/pca9685"

	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

func newPlaybackPeriph(t *testing.T, ops []i2ctest.IO) (*Periph, *[]string) {
	t.Helper()
	var opened []string
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	p := &Periph{
		open: func(name string) (i2c.BusCloser, error) {
			opened = append(opened, name)
			return pb, nil
		},
		buses: map[int]i2c.BusCloser{},
	}
	return p, &opened
}

func TestPeriph_DeviceInitAndPWM(t *testing.T) {
	p, opened := newPlaybackPeriph(t, []i2ctest.IO{
		{Addr: 0x40, W: []byte{0x00, 0x80}},
		{Addr: 0x40, W: []byte{0x00}, R: []byte{0x80}},
		{Addr: 0x40, W: []byte{0x00, 0x10}},
		{Addr: 0x40, W: []byte{0xFE, 0x79}},
		{Addr: 0x40, W: []byte{0x00, 0x80}},
		{Addr: 0x40, W: []byte{0x00, 0xA0}},
		{Addr: 0x40, W: []byte{66, 0x00, 0x00, 0x99, 0x01}},
	})

	d, err := pca9685.New(p, 1, 0x40, pca9685.WithFrequency(50))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := d.SetPWM(15, 0, 0x199); err != nil {
		t.Fatalf("SetPWM() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("playback not fully consumed: %v", err)
	}
	if len(*opened) != 1 || (*opened)[0] != "I2C1" {
		t.Fatalf("opened=%v want [I2C1]", *opened)
	}
}

func TestPeriph_ReadRegister(t *testing.T) {
	p, _ := newPlaybackPeriph(t, []i2ctest.IO{
		{Addr: 0x41, W: []byte{0x01}, R: []byte{0x04}},
	})
	v, err := p.ReadRegister(1, 0x41, 0x01)
	if err != nil || v != 0x04 {
		t.Fatalf("ReadRegister()=%#x,%v want 0x04", v, err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestPeriph_OpenError(t *testing.T) {
	want := errors.New("no such bus")
	p := &Periph{
		open:  func(string) (i2c.BusCloser, error) { return nil, want },
		buses: map[int]i2c.BusCloser{},
	}
	if err := p.WriteRegister(7, 0x40, 0, 0); !errors.Is(err, want) {
		t.Fatalf("err=%v want %v", err, want)
	}
}

// periphRegBus is an i2c.Bus backed by a register file, enough for periph's own
// pca9685 driver to initialize against.
type periphRegBus struct {
	regs [256]byte
}

func (b *periphRegBus) String() string { return "regbus" }
func (b *periphRegBus) SetSpeed(physic.Frequency) error { return nil }

func (b *periphRegBus) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 {
		return nil
	}
	reg := w[0]
	for i, v := range w[1:] {
		b.regs[reg+byte(i)] = v
	}
	for i := range r {
		r[i] = b.regs[reg+byte(i)]
	}
	return nil
}

type recordCloser struct {
	*i2ctest.Record
}

func (recordCloser) Close() error { return nil }

func TestPeriph_ChannelBytesMatchPeriphDriver(t *testing.T) {
	cases := []struct {
		channel int
		on, off uint16
	}{
		{channel: 0, on: 0, off: 0x199},
		{channel: 7, on: 0x123, off: 0xFFF},
		{channel: 15, on: 4095, off: 0},
	}

	ref := &i2ctest.Record{Bus: &periphRegBus{}}
	want, err := periphpca.NewI2C(ref, periphpca.I2CAddr)
	if err != nil {
		t.Fatalf("periph NewI2C() error: %v", err)
	}

	rec := &i2ctest.Record{Bus: &periphRegBus{}}
	p := &Periph{
		open:  func(string) (i2c.BusCloser, error) { return recordCloser{rec}, nil },
		buses: map[int]i2c.BusCloser{},
	}
	d, err := pca9685.New(p, 1, pca9685.DefaultAddress)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, tc := range cases {
		ref.Ops = nil
		rec.Ops = nil
		if err := want.SetPwm(tc.channel, gpio.Duty(tc.on), gpio.Duty(tc.off)); err != nil {
			t.Fatalf("periph SetPwm(%d) error: %v", tc.channel, err)
		}
		if err := d.SetPWM(tc.channel, tc.on, tc.off); err != nil {
			t.Fatalf("SetPWM(%d) error: %v", tc.channel, err)
		}
		if len(ref.Ops) != 1 || len(rec.Ops) != 1 {
			t.Fatalf("channel %d: ops ref=%v got=%v", tc.channel, ref.Ops, rec.Ops)
		}
		if rec.Ops[0].Addr != ref.Ops[0].Addr || !bytes.Equal(rec.Ops[0].W, ref.Ops[0].W) {
			t.Fatalf("channel %d: wrote %#x to %#x, periph wrote %#x to %#x",
				tc.channel, rec.Ops[0].W, rec.Ops[0].Addr, ref.Ops[0].W, ref.Ops[0].Addr)
		}
	}
}
