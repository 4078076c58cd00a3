//go:build !linux

package io

import "fmt"

var errDevFSUnsupported = fmt.Errorf("i2c devfs: unsupported OS (need linux)")

type DevFS struct{}

func NewDevFS() *DevFS { return &DevFS{} }

func (d *DevFS) WriteRegister(bus int, addr, reg, value uint8) error {
	return errDevFSUnsupported
}

func (d *DevFS) WriteBlock(bus int, addr, reg uint8, data [4]byte) error {
	return errDevFSUnsupported
}

func (d *DevFS) ReadRegister(bus int, addr, reg uint8) (uint8, error) {
	return 0, errDevFSUnsupported
}

func (d *DevFS) Close() error { return nil }
