package io

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Periph is a register transport over periph.io I2C buses. Buses are opened
// on first use and kept until Close.
type Periph struct {
	mu    sync.Mutex
	open  func(name string) (i2c.BusCloser, error)
	buses map[int]i2c.BusCloser
}

// NewPeriph initializes the periph.io host drivers.
func NewPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	return &Periph{open: i2creg.Open, buses: map[int]i2c.BusCloser{}}, nil
}

func (p *Periph) dev(bus int, addr uint8) (*i2c.Dev, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.buses[bus]
	if !ok {
		var err error
		// Most Raspberry Pi boards expose the header bus as I2C1.
		b, err = p.open(fmt.Sprintf("I2C%d", bus))
		if err != nil {
			return nil, err
		}
		p.buses[bus] = b
	}
	return &i2c.Dev{Bus: b, Addr: uint16(addr)}, nil
}

func (p *Periph) WriteRegister(bus int, addr, reg, value uint8) error {
	d, err := p.dev(bus, addr)
	if err != nil {
		return err
	}
	return d.Tx([]byte{reg, value}, nil)
}

func (p *Periph) WriteBlock(bus int, addr, reg uint8, data [4]byte) error {
	d, err := p.dev(bus, addr)
	if err != nil {
		return err
	}
	return d.Tx([]byte{reg, data[0], data[1], data[2], data[3]}, nil)
}

func (p *Periph) ReadRegister(bus int, addr, reg uint8) (uint8, error) {
	d, err := p.dev(bus, addr)
	if err != nil {
		return 0, err
	}
	var r [1]byte
	if err := d.Tx([]byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// Close releases every bus opened so far.
func (p *Periph) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for n, b := range p.buses {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
		delete(p.buses, n)
	}
	return first
}
