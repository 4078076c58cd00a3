//go:build linux

package io

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// I2C_RDWR lets a register read be a combined write+read with a repeated
// start, which the PCA9685 needs.
const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// DevFS is a register transport over the kernel's /dev/i2c-N character
// devices.
type DevFS struct {
	mu    sync.Mutex
	files map[int]*os.File
}

func NewDevFS() *DevFS {
	return &DevFS{files: map[int]*os.File{}}
}

func (d *DevFS) file(bus int) (*os.File, error) {
	if f, ok := d.files[bus]; ok {
		return f, nil
	}
	f, err := os.OpenFile(fmt.Sprintf("/dev/i2c-%d", bus), os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("i2c devfs: %w", err)
	}
	d.files[bus] = f
	return f, nil
}

func (d *DevFS) tx(bus int, addr uint8, w, r []byte) error {
	if addr == 0 || addr > 0x7F {
		return fmt.Errorf("invalid i2c addr 0x%X", addr)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	f, err := d.file(bus)
	if err != nil {
		return err
	}

	msgs := make([]i2cMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2cMsg{addr: uint16(addr), len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2cMsg{addr: uint16(addr), flags: i2cMrd, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return nil
	}
	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *DevFS) WriteRegister(bus int, addr, reg, value uint8) error {
	return d.tx(bus, addr, []byte{reg, value}, nil)
}

func (d *DevFS) WriteBlock(bus int, addr, reg uint8, data [4]byte) error {
	return d.tx(bus, addr, []byte{reg, data[0], data[1], data[2], data[3]}, nil)
}

func (d *DevFS) ReadRegister(bus int, addr, reg uint8) (uint8, error) {
	var r [1]byte
	if err := d.tx(bus, addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (d *DevFS) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	for n, f := range d.files {
		errs = append(errs, f.Close())
		delete(d.files, n)
	}
	return errors.Join(errs...)
}
