// Package master implements the bus-master side of the mesh: the address
// poller that turns tile pressed flags into key events, and the relay that
// forwards host scoring commands onto the bus. Both are written against the
// drivers.I2C interface so any controller, real or fake, can carry them.
package master

import (
	"tinygo.org/x/drivers"

	"steps/tile-mesh/protocol"
)

// KeySink receives the press/release events the poller synthesizes, keyed by
// the symbol mapped to each tile address.
type KeySink interface {
	Press(sym byte)
	Release(sym byte)
}

// Poller visits every tile address in ascending order once per pass and
// emits a key event at each pressed-flag transition. Ascending order is the
// fairness policy: every tile gets the same bounded polling slot.
type Poller struct {
	bus  drivers.I2C
	keys KeySink

	wasPressed [protocol.NumTiles]bool
	buf        [1]byte
}

func NewPoller(bus drivers.I2C, keys KeySink) *Poller {
	return &Poller{bus: bus, keys: keys}
}

// Pass polls tiles 1..NumTiles once each.
func (p *Poller) Pass() {
	for addr := uint8(1); addr <= protocol.NumTiles; addr++ {
		p.poll(addr)
	}
}

func (p *Poller) poll(addr uint8) {
	if err := p.bus.Tx(uint16(addr), nil, p.buf[:]); err != nil {
		// Non-responding tile: skip this cycle, keep the edge memory so
		// the next successful poll compares against the last known state.
		return
	}

	pressed := p.buf[0] != 0
	i := addr - 1
	switch {
	case pressed && !p.wasPressed[i]:
		p.keys.Press(protocol.Keys[i])
		p.wasPressed[i] = true
	case !pressed && p.wasPressed[i]:
		p.keys.Release(protocol.Keys[i])
		p.wasPressed[i] = false
	}
}

// ByteSource is a buffered byte stream. machine.Serial satisfies it.
type ByteSource interface {
	Buffered() int
	ReadByte() (byte, error)
}

// Relay drains complete two-byte host commands from src and writes each to
// the addressed tile. Fire-and-forget: no acknowledgement is awaited and a
// malformed pair is dropped without a word back to the host.
type Relay struct {
	bus drivers.I2C
}

func NewRelay(bus drivers.I2C) *Relay {
	return &Relay{bus: bus}
}

// Pump forwards every complete pair currently buffered on src.
func (r *Relay) Pump(src ByteSource) {
	for src.Buffered() >= 2 {
		addrByte, err := src.ReadByte()
		if err != nil {
			return
		}
		cmdByte, err := src.ReadByte()
		if err != nil {
			return
		}

		addr, cmd, ok := protocol.ParseHostPair(addrByte, cmdByte)
		if !ok {
			continue
		}
		p := [1]byte{byte(cmd)}
		r.bus.Tx(uint16(addr), p[:], nil)
	}
}
