package master

import (
	"errors"
	"fmt"
	"testing"

	"steps/tile-mesh/protocol"
)

var errNoResponse = errors.New("no response")

type busWrite struct {
	addr uint16
	data byte
}

// fakeBus is a drivers.I2C with a settable pressed byte per tile address.
type fakeBus struct {
	status [protocol.NumTiles + 1]byte
	dead   [protocol.NumTiles + 1]bool
	writes []busWrite
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	if f.dead[addr] {
		return errNoResponse
	}
	if len(w) > 0 {
		f.writes = append(f.writes, busWrite{addr, w[0]})
	}
	if len(r) > 0 {
		r[0] = f.status[addr]
	}
	return nil
}

func (f *fakeBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return f.Tx(uint16(addr), nil, buf)
}

func (f *fakeBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return f.Tx(uint16(addr), buf, nil)
}

type eventLog []string

func (l *eventLog) Press(sym byte)   { *l = append(*l, fmt.Sprintf("press %c", sym)) }
func (l *eventLog) Release(sym byte) { *l = append(*l, fmt.Sprintf("release %c", sym)) }

func (l eventLog) equal(want ...string) bool {
	if len(l) != len(want) {
		return false
	}
	for i := range l {
		if l[i] != want[i] {
			return false
		}
	}
	return true
}

// byteSource feeds a fixed byte sequence, like a serial receive buffer.
type byteSource []byte

func (s *byteSource) Buffered() int { return len(*s) }

func (s *byteSource) ReadByte() (byte, error) {
	if len(*s) == 0 {
		return 0, errors.New("empty")
	}
	b := (*s)[0]
	*s = (*s)[1:]
	return b, nil
}

func TestPollerEmitsOnEdgesOnly(t *testing.T) {
	bus := &fakeBus{}
	var log eventLog
	p := NewPoller(bus, &log)

	p.Pass()
	if len(log) != 0 {
		t.Fatalf("idle pass emitted %v", log)
	}

	// Tile 4 steps on: exactly one press for its key, none for the others.
	bus.status[4] = 1
	p.Pass()
	if !log.equal("press a") {
		t.Fatalf("rising edge emitted %v", log)
	}

	// Held press is not an edge.
	log = nil
	p.Pass()
	if len(log) != 0 {
		t.Fatalf("held press emitted %v", log)
	}

	bus.status[4] = 0
	p.Pass()
	if !log.equal("release a") {
		t.Fatalf("falling edge emitted %v", log)
	}
}

func TestPollerTreatsNonzeroAsPressed(t *testing.T) {
	bus := &fakeBus{}
	var log eventLog
	p := NewPoller(bus, &log)

	bus.status[2] = 0x7F
	p.Pass()
	if !log.equal("press w") {
		t.Fatalf("nonzero status emitted %v", log)
	}
}

func TestPollerSkipsUnresponsiveTile(t *testing.T) {
	bus := &fakeBus{}
	var log eventLog
	p := NewPoller(bus, &log)

	bus.status[4] = 1
	p.Pass()
	log = nil

	// Tile drops off the bus mid-press: no event, memory untouched.
	bus.dead[4] = true
	p.Pass()
	if len(log) != 0 {
		t.Fatalf("unresponsive poll emitted %v", log)
	}

	// Back on the bus, still pressed: still no event.
	bus.dead[4] = false
	p.Pass()
	if len(log) != 0 {
		t.Fatalf("recovered poll emitted %v", log)
	}

	bus.status[4] = 0
	p.Pass()
	if !log.equal("release a") {
		t.Fatalf("release after recovery emitted %v", log)
	}
}

func TestPollerAddressOrder(t *testing.T) {
	bus := &fakeBus{}
	var log eventLog
	p := NewPoller(bus, &log)

	for addr := 1; addr <= protocol.NumTiles; addr++ {
		bus.status[addr] = 1
	}
	p.Pass()
	if !log.equal(
		"press q", "press w", "press e",
		"press a", "press s", "press d",
		"press z", "press x", "press c",
	) {
		t.Fatalf("simultaneous press emitted %v", log)
	}
}

func TestRelayRoundTrip(t *testing.T) {
	bus := &fakeBus{}
	r := NewRelay(bus)

	src := byteSource("3P")
	r.Pump(&src)

	if len(bus.writes) != 1 || bus.writes[0] != (busWrite{3, 'P'}) {
		t.Fatalf("writes = %v, want one 'P' to address 3", bus.writes)
	}
}

func TestRelayDiscardsMalformedPairs(t *testing.T) {
	bus := &fakeBus{}
	r := NewRelay(bus)

	// Bad leading bytes drop the pair; the stream keeps going.
	src := byteSource("0PaM5G")
	r.Pump(&src)

	if len(bus.writes) != 1 || bus.writes[0] != (busWrite{5, 'G'}) {
		t.Fatalf("writes = %v, want one 'G' to address 5", bus.writes)
	}
}

func TestRelayWaitsForCompletePair(t *testing.T) {
	bus := &fakeBus{}
	r := NewRelay(bus)

	src := byteSource("7")
	r.Pump(&src)

	if len(bus.writes) != 0 {
		t.Fatalf("half a pair produced writes %v", bus.writes)
	}
	if src.Buffered() != 1 {
		t.Fatalf("half a pair was consumed, %d left", src.Buffered())
	}

	src = append(src, 'M')
	r.Pump(&src)
	if len(bus.writes) != 1 || bus.writes[0] != (busWrite{7, 'M'}) {
		t.Fatalf("writes = %v, want one 'M' to address 7", bus.writes)
	}
}
