//go:build tinygo

package main

import (
	"machine"
	"time"

	"steps/tile-mesh/cmd"
)

// buildRole and buildAddress are set at compile time via -ldflags
// e.g. -ldflags="-X main.buildRole=tile -X main.buildAddress=4"
var (
	buildRole    string
	buildAddress string
)

var config = cmd.Settings{
	Role:    cmd.ParseRole(buildRole),
	Address: cmd.ParseAddress(buildAddress),
}

func main() {

	bus := machine.I2C0

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// blink LED based on role, 2 times, 200ms interval for Master,
	// address-count times, 40ms for a Tile

	switch config.Role {
	case cmd.Master:
		for i := 0; i < 2; i++ {
			led.High()
			time.Sleep(200 * time.Millisecond)
			led.Low()
			time.Sleep(200 * time.Millisecond)
		}
	case cmd.Tile:
		for i := 0; i < int(config.Address); i++ {
			led.High()
			time.Sleep(40 * time.Millisecond)
			led.Low()
			time.Sleep(40 * time.Millisecond)
		}
	}

	// Main loop

	switch config.Role {
	case cmd.Master:
		cmd.RunMaster(config, bus, led)

	case cmd.Tile:
		cmd.RunTile(config, bus, led)
	}

}
