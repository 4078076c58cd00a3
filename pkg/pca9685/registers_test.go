package pca9685

import (
	"math"
	"testing"
	"time"
)

func TestPrescale(t *testing.T) {
	cases := []struct {
		hz   float64
		want uint8
	}{
		{hz: 60, want: 101},
		{hz: 50, want: 121},
		{hz: 1000, want: 5},
		{hz: 1500, want: 3},
		{hz: 1600, want: 3},
		{hz: 10000, want: 3},
		{hz: 24, want: 253},
		{hz: 23, want: 255},
		{hz: 1, want: 255},
	}
	for _, tc := range cases {
		if got := Prescale(tc.hz); got != tc.want {
			t.Fatalf("Prescale(%v)=%d want %d", tc.hz, got, tc.want)
		}
	}
}

func TestPrescale_MatchesFormulaInsideRange(t *testing.T) {
	for hz := 25.0; hz <= 1500; hz += 7.5 {
		want := math.Round(25_000_000/(4096*hz)) - 1
		if want < MinPrescale || want > MaxPrescale {
			continue
		}
		if got := Prescale(hz); float64(got) != want {
			t.Fatalf("Prescale(%v)=%d want %v", hz, got, want)
		}
	}
}

func TestFrequencyFor(t *testing.T) {
	got := FrequencyFor(121)
	if math.Abs(got-50.03) > 0.01 {
		t.Fatalf("FrequencyFor(121)=%v want ~50.03", got)
	}
	if p := PeriodFor(121); p < 19980*time.Microsecond || p > 19999*time.Microsecond {
		t.Fatalf("PeriodFor(121)=%s want ~19.99ms", p)
	}
}

func TestChannelRegister(t *testing.T) {
	if r := channelRegister(0); r != 6 {
		t.Fatalf("channel 0 reg=%d want 6", r)
	}
	if r := channelRegister(15); r != 66 {
		t.Fatalf("channel 15 reg=%d want 66", r)
	}
}

func TestSplitCount(t *testing.T) {
	cases := []struct {
		count  uint16
		lo, hi byte
	}{
		{0, 0x00, 0x00},
		{0x0FF, 0xFF, 0x00},
		{0x100, 0x00, 0x01},
		{0x123, 0x23, 0x01},
		{MaxCount, 0xFF, 0x0F},
	}
	for _, tc := range cases {
		lo, hi := SplitCount(tc.count)
		if lo != tc.lo || hi != tc.hi {
			t.Fatalf("SplitCount(%#x)=(%#x,%#x) want (%#x,%#x)", tc.count, lo, hi, tc.lo, tc.hi)
		}
	}

	got := Duty{On: 0x123, Off: 0xABC}.Bytes()
	want := [4]byte{0x23, 0x01, 0xBC, 0x0A}
	if got != want {
		t.Fatalf("Bytes()=%v want %v", got, want)
	}
}
