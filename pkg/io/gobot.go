package io

import (
	"fmt"
	"sync"

	"gobot.io/x/gobot/drivers/i2c"
	"gobot.io/x/gobot/platforms/raspi"
)

// gobotConn is the part of a gobot i2c.Connection the transport uses.
type gobotConn interface {
	ReadByteData(reg uint8) (uint8, error)
	WriteByteData(reg uint8, val uint8) error
	WriteBlockData(reg uint8, b []byte) error
	Close() error
}

type connKey struct {
	bus  int
	addr uint8
}

// Gobot is a register transport over a gobot i2c.Connector, by default the
// Raspberry Pi adaptor.
type Gobot struct {
	mu       sync.Mutex
	connect  func(addr, bus int) (gobotConn, error)
	finalize func() error
	conns    map[connKey]gobotConn
}

func NewGobot() *Gobot {
	r := raspi.NewAdaptor()
	return newGobot(r, r.Finalize)
}

func newGobot(c i2c.Connector, finalize func() error) *Gobot {
	return &Gobot{
		connect: func(addr, bus int) (gobotConn, error) {
			conn, err := c.GetConnection(addr, bus)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		finalize: finalize,
		conns:    map[connKey]gobotConn{},
	}
}

func (g *Gobot) conn(bus int, addr uint8) (gobotConn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := connKey{bus: bus, addr: addr}
	if c, ok := g.conns[k]; ok {
		return c, nil
	}
	c, err := g.connect(int(addr), bus)
	if err != nil {
		return nil, fmt.Errorf("gobot i2c connection bus=%d addr=0x%02X: %w", bus, addr, err)
	}
	g.conns[k] = c
	return c, nil
}

func (g *Gobot) WriteRegister(bus int, addr, reg, value uint8) error {
	c, err := g.conn(bus, addr)
	if err != nil {
		return err
	}
	return c.WriteByteData(reg, value)
}

func (g *Gobot) WriteBlock(bus int, addr, reg uint8, data [4]byte) error {
	c, err := g.conn(bus, addr)
	if err != nil {
		return err
	}
	return c.WriteBlockData(reg, data[:])
}

func (g *Gobot) ReadRegister(bus int, addr, reg uint8) (uint8, error) {
	c, err := g.conn(bus, addr)
	if err != nil {
		return 0, err
	}
	return c.ReadByteData(reg)
}

func (g *Gobot) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for k, c := range g.conns {
		_ = c.Close()
		delete(g.conns, k)
	}
	if g.finalize != nil {
		return g.finalize()
	}
	return nil
}
