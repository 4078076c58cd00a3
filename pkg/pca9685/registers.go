package pca9685

import (
	"math"
	"time"

	periphpca "periph.io/x/devices/v3/pca9685"
)

// Register map.
const (
	RegMode1    uint8 = 0x00
	RegLED0OnL  uint8 = 0x06
	RegAllOnL   uint8 = 250
	RegAllOnH   uint8 = 251
	RegAllOffL  uint8 = 252
	RegAllOffH  uint8 = 253
	RegPreScale uint8 = 0xFE
)

// MODE1 bits.
const (
	Mode1Restart uint8 = 0x80
	Mode1AutoInc uint8 = 0x20
	Mode1Sleep   uint8 = 0x10
)

const (
	Channels = 16
	MaxCount = 4095

	DefaultBus       = 1
	DefaultAddress   = uint8(periphpca.I2CAddr)
	DefaultFrequency = 1000.0

	MinPrescale = 3
	MaxPrescale = 255

	oscillatorHz = 25_000_000
	resolution   = 4096
)

// Settle pauses required by the chip before the next register access.
const (
	resetSettle     = 10 * time.Microsecond
	frequencySettle = 5 * time.Microsecond
	wakeSettle      = 500 * time.Microsecond
)

// Prescale returns the PRE_SCALE value for hz, clamped to what the chip accepts.
// hz must be positive.
func Prescale(hz float64) uint8 {
	v := math.Round(oscillatorHz/(resolution*hz)) - 1
	if v < MinPrescale {
		return MinPrescale
	}
	if v > MaxPrescale {
		return MaxPrescale
	}
	return uint8(v)
}

// FrequencyFor is the PWM frequency the chip runs at with the given prescale.
func FrequencyFor(prescale uint8) float64 {
	return oscillatorHz / (resolution * (float64(prescale) + 1))
}

// PeriodFor is the length of one PWM cycle with the given prescale.
func PeriodFor(prescale uint8) time.Duration {
	return time.Duration(float64(time.Second) / FrequencyFor(prescale))
}

func channelRegister(channel int) uint8 {
	return RegLED0OnL + uint8(4*channel)
}
