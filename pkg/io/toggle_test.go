package io

import "testing"

type fakeLine struct {
	values []int
	closed bool
}

func (l *fakeLine) SetValue(v int) error {
	l.values = append(l.values, v)
	return nil
}

func (l *fakeLine) Close() error {
	l.closed = true
	return nil
}

func TestOutputEnable_ActiveLow(t *testing.T) {
	l := &fakeLine{}
	oe := &OutputEnable{line: l}

	if err := oe.Enable(); err != nil {
		t.Fatalf("Enable() error: %v", err)
	}
	if err := oe.Disable(); err != nil {
		t.Fatalf("Disable() error: %v", err)
	}
	if err := oe.Set(true); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := oe.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	want := []int{0, 1, 0}
	if len(l.values) != len(want) {
		t.Fatalf("values=%v want %v", l.values, want)
	}
	for i := range want {
		if l.values[i] != want[i] {
			t.Fatalf("values=%v want %v", l.values, want)
		}
	}
	if !l.closed {
		t.Fatalf("line not closed")
	}
}
