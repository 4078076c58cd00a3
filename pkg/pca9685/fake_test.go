package pca9685

import (
	"errors"
	"testing"
	"time"
)

type op struct {
	kind  string // "w", "b" or "r"
	bus   int
	addr  uint8
	reg   uint8
	value uint8
	block [4]byte
	at    time.Time
}

type fakeBus struct {
	regs map[uint8]uint8
	ops  []op

	// failAt makes the n-th call (1-based) fail with errBus.
	failAt int
	calls  int
}

var errBus = errors.New("bus busy")

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[uint8]uint8{}}
}

func (f *fakeBus) fail() bool {
	f.calls++
	return f.failAt != 0 && f.calls == f.failAt
}

func (f *fakeBus) WriteRegister(bus int, addr, reg, value uint8) error {
	if f.fail() {
		return errBus
	}
	f.ops = append(f.ops, op{kind: "w", bus: bus, addr: addr, reg: reg, value: value, at: time.Now()})
	f.regs[reg] = value
	return nil
}

func (f *fakeBus) WriteBlock(bus int, addr, reg uint8, data [4]byte) error {
	if f.fail() {
		return errBus
	}
	f.ops = append(f.ops, op{kind: "b", bus: bus, addr: addr, reg: reg, block: data, at: time.Now()})
	for i, b := range data {
		f.regs[reg+uint8(i)] = b
	}
	return nil
}

func (f *fakeBus) ReadRegister(bus int, addr, reg uint8) (uint8, error) {
	if f.fail() {
		return 0, errBus
	}
	f.ops = append(f.ops, op{kind: "r", bus: bus, addr: addr, reg: reg, at: time.Now()})
	return f.regs[reg], nil
}

func (f *fakeBus) clear() {
	f.ops = nil
	f.calls = 0
	f.failAt = 0
}

func (f *fakeBus) writes() []op {
	var out []op
	for _, o := range f.ops {
		if o.kind == "w" {
			out = append(out, o)
		}
	}
	return out
}

// stubSleep records requested pauses instead of sleeping.
func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var got []time.Duration
	old := sleep
	sleep = func(d time.Duration) { got = append(got, d) }
	t.Cleanup(func() { sleep = old })
	return &got
}

func newTestDevice(t *testing.T) (*Device, *fakeBus) {
	t.Helper()
	f := newFakeBus()
	d, err := New(f, DefaultBus, DefaultAddress)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	f.clear()
	return d, f
}
