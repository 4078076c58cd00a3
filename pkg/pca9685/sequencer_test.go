package pca9685

import (
	"errors"
	"testing"
	"time"
)

func TestSetPWMPair_ZeroDelay(t *testing.T) {
	pauses := stubSleep(t)
	d, f := newTestDevice(t)
	*pauses = nil

	err := d.SetPWMPair(2, Duty{On: 0, Off: 200}, Duty{On: 200, Off: 300}, 0)
	if err != nil {
		t.Fatalf("SetPWMPair() error: %v", err)
	}
	if len(f.ops) != 2 || f.ops[0].reg != 14 || f.ops[1].reg != 14 {
		t.Fatalf("ops=%+v want two block writes at 14", f.ops)
	}
	if f.ops[0].block != [4]byte{0, 0, 200, 0} || f.ops[1].block != [4]byte{200, 0, 0x2C, 0x01} {
		t.Fatalf("blocks=%v %v", f.ops[0].block, f.ops[1].block)
	}
	if len(*pauses) != 0 {
		t.Fatalf("pauses=%v want none", *pauses)
	}
}

func TestSetPWMPair_HoldsForDelay(t *testing.T) {
	stubSleep(t)
	d, f := newTestDevice(t)
	sleep = time.Sleep

	const delay = 30 * time.Millisecond
	if err := d.SetPWMPair(0, Duty{Off: 200}, Duty{On: 200, Off: 300}, delay); err != nil {
		t.Fatalf("SetPWMPair() error: %v", err)
	}
	if len(f.ops) != 2 {
		t.Fatalf("ops=%+v want 2", f.ops)
	}
	if gap := f.ops[1].at.Sub(f.ops[0].at); gap < delay {
		t.Fatalf("gap=%s want >= %s", gap, delay)
	}
}

func TestSetPWMPair_FirstFailureStops(t *testing.T) {
	pauses := stubSleep(t)
	d, f := newTestDevice(t)
	*pauses = nil
	f.failAt = 1

	err := d.SetPWMPair(0, Duty{Off: 200}, Duty{Off: 300}, time.Second)
	if !errors.Is(err, errBus) {
		t.Fatalf("err=%v want bus error", err)
	}
	if f.calls != 1 || len(*pauses) != 0 {
		t.Fatalf("calls=%d pauses=%v want a single attempt and no wait", f.calls, *pauses)
	}
}

func TestSetPWMPair_RangeErrors(t *testing.T) {
	stubSleep(t)
	d, f := newTestDevice(t)
	cases := []struct {
		name    string
		channel int
		first   Duty
		second  Duty
		delay   time.Duration
	}{
		{name: "channel low", channel: -1},
		{name: "channel high", channel: 16},
		{name: "first count", first: Duty{Off: 4096}},
		{name: "second count", second: Duty{On: 4096}},
		{name: "negative delay", delay: -time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := d.SetPWMPair(tc.channel, tc.first, tc.second, tc.delay)
			if !errors.Is(err, ErrRange) {
				t.Fatalf("err=%v want ErrRange", err)
			}
		})
	}
	if f.calls != 0 {
		t.Fatalf("transport calls=%d want 0", f.calls)
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(0.47); got != 470*time.Millisecond {
		t.Fatalf("Seconds(0.47)=%s want 470ms", got)
	}
}
