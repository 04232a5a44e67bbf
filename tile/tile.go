// Package tile holds the hardware-independent tile logic: the pressure
// threshold reader and the two cells shared between the tile main loop and
// the bus event goroutine.
package tile

import (
	"sync/atomic"

	"steps/tile-mesh/protocol"
)

// Pad is a single pressure sensor channel. machine.ADC satisfies it.
type Pad interface {
	Get() uint16
}

// Sensor aggregates a tile's pressure pads. The tile reads as pressed when
// the summed pad readings exceed the threshold; there is no hysteresis, the
// animation engine's override window handles debouncing against game
// feedback.
type Sensor struct {
	Pads      []Pad
	Threshold uint32
}

// Pressed samples every pad and applies the threshold.
func (s *Sensor) Pressed() bool {
	var total uint32
	for _, p := range s.Pads {
		total += uint32(p.Get())
	}
	return total > s.Threshold
}

// Responder is the tile's face on the bus. The main loop writes the pressed
// flag and consumes pending commands; the bus goroutine does the reverse.
// Each cell has a single writer and a single reader, so two atomics are all
// the synchronization needed.
type Responder struct {
	pressed atomic.Bool
	pending atomic.Uint32 // zero when empty, else the raw command byte
}

// SetPressed publishes the tile's pressed flag. Main loop only.
func (r *Responder) SetPressed(v bool) {
	r.pressed.Store(v)
}

// StatusByte answers a master read request: 1 pressed, 0 not. It only loads
// the precomputed flag, so it is safe to call from the bus event path.
func (r *Responder) StatusByte() byte {
	if r.pressed.Load() {
		return 1
	}
	return 0
}

// Deliver stores a command byte from a master write. A command already
// pending is overwritten: last command wins.
func (r *Responder) Deliver(b byte) {
	r.pending.Store(uint32(b))
}

// Take consumes the pending command, if any. Main loop only.
func (r *Responder) Take() (protocol.Command, bool) {
	v := r.pending.Swap(0)
	if v == 0 {
		return 0, false
	}
	return protocol.Command(v), true
}
