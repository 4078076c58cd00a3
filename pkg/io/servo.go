package io

import (
	"fmt"
	"math"
	"time"

	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

// Standard hobby servo pulse range: 0.5ms is 0 degrees, 2.5ms is full travel.
const (
	DefaultMinPulse = 500 * time.Microsecond
	DefaultMaxPulse = 2500 * time.Microsecond
	DefaultMaxAngle = 180
)

// Servo positions a hobby servo on one PCA9685 channel. Pulse widths are
// converted to ticks with the frequency the device is currently programmed
// for, so set it to 50-60Hz first.
type Servo struct {
	dev      *pca9685.Device
	channel  int
	minPulse time.Duration
	maxPulse time.Duration
	maxAngle float64
}

func NewServo(dev *pca9685.Device, channel int, minPulse, maxPulse time.Duration, maxAngle float64) (*Servo, error) {
	if channel < 0 || channel >= pca9685.Channels {
		return nil, fmt.Errorf("%w: servo channel %d", pca9685.ErrRange, channel)
	}
	if minPulse <= 0 || maxPulse <= minPulse {
		return nil, fmt.Errorf("%w: servo pulse range %s..%s", pca9685.ErrRange, minPulse, maxPulse)
	}
	if maxAngle <= 0 {
		return nil, fmt.Errorf("%w: servo max angle %v", pca9685.ErrRange, maxAngle)
	}
	return &Servo{
		dev:      dev,
		channel:  channel,
		minPulse: minPulse,
		maxPulse: maxPulse,
		maxAngle: maxAngle,
	}, nil
}

// Count is the off tick for angle, which is clamped to [0, max angle].
func (s *Servo) Count(angle float64) uint16 {
	if angle < 0 {
		angle = 0
	} else if angle > s.maxAngle {
		angle = s.maxAngle
	}
	pulse := float64(s.minPulse) + float64(s.maxPulse-s.minPulse)*angle/s.maxAngle
	period := pca9685.PeriodFor(s.dev.PreScale())
	ticks := math.Round(pulse / float64(period) * (pca9685.MaxCount + 1))
	if ticks > pca9685.MaxCount {
		ticks = pca9685.MaxCount
	}
	return uint16(ticks)
}

// SetAngle moves the servo to angle.
func (s *Servo) SetAngle(angle float64) error {
	return s.dev.SetPWM(s.channel, 0, s.Count(angle))
}

// Sweep moves to from, holds, then moves to to.
func (s *Servo) Sweep(from, to float64, hold time.Duration) error {
	return s.dev.SetPWMPair(s.channel,
		pca9685.Duty{Off: s.Count(from)},
		pca9685.Duty{Off: s.Count(to)},
		hold)
}
