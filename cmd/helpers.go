package cmd

import "steps/tile-mesh/protocol"

func ParseRole(r string) Role {
	switch r {
	case "tile":
		return Tile
	default:
		return Master
	}
}

// ParseAddress reads the bus address baked in at flash time. Tiles carry
// "1".."9"; anything else falls back to address 1.
func ParseAddress(a string) uint8 {
	if len(a) == 1 && a[0] >= '1' && a[0] <= '0'+protocol.NumTiles {
		return a[0] - '0'
	}
	return 1
}
