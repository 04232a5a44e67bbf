// Package protocol defines the wire protocol shared by the STEPS master and
// its tiles: bus addresses, the single-byte scoring commands, the host command
// pair format, and the fixed address-to-key mapping.
package protocol

// NumTiles is the number of tiles on the bus. Addresses are dense and
// contiguous, 1..NumTiles.
const NumTiles = 9

// Command is a single-byte scoring command sent master -> tile.
type Command byte

const (
	CmdPerfect Command = 'P'
	CmdGreat   Command = 'G'
	CmdMiss    Command = 'M'
	CmdReset   Command = 'R'
)

// Known reports whether c is a command a tile will act on.
func (c Command) Known() bool {
	switch c {
	case CmdPerfect, CmdGreat, CmdMiss, CmdReset:
		return true
	}
	return false
}

// Keys maps tile addresses 1..9 to the key each tile emits, laid out as the
// 3x3 game arrow grid: Q W E / A S D / Z X C.
var Keys = [NumTiles]byte{'q', 'w', 'e', 'a', 's', 'd', 'z', 'x', 'c'}

// ValidAddress reports whether a is an assigned tile address.
func ValidAddress(a uint8) bool {
	return a >= 1 && a <= NumTiles
}

// KeyFor returns the key mapped to tile address a.
func KeyFor(a uint8) (byte, bool) {
	if !ValidAddress(a) {
		return 0, false
	}
	return Keys[a-1], true
}

// ParseHostPair interprets a two-byte host command, e.g. "5P" for tile 5,
// Perfect. The address byte must be an ASCII digit '1'..'9'; anything else
// invalidates the pair. The command byte is relayed as-is: the receiving tile
// ignores bytes it does not recognize.
func ParseHostPair(addrByte, cmdByte byte) (addr uint8, cmd Command, ok bool) {
	if addrByte < '1' || addrByte > '9' {
		return 0, 0, false
	}
	return addrByte - '0', Command(cmdByte), true
}
