//go:build tinygo

package cmd

import (
	"fmt"
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ws2812"

	"steps/tile-mesh/anim"
	"steps/tile-mesh/tile"
)

const (
	stripPin = machine.GP4

	// Summed 4-pad threshold, calibrated as 200 on a 10-bit ADC;
	// machine.ADC returns left-justified 16-bit readings.
	pressureThreshold = 200 << 6

	// ~60 fps render cadence.
	frameDelay = 16 * time.Millisecond
)

var padPins = []machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3}

// RunTile answers master polls with the pressed flag and runs the sensing
// and animation loop.
func RunTile(config Settings, bus *machine.I2C, led machine.Pin) {
	fmt.Println("Starting Tile Loop, address", config.Address)

	if err := bus.Configure(machine.I2CConfig{Mode: machine.I2CModeTarget}); err != nil {
		fmt.Println("Failed to configure i2c bus:", err)
		return
	}
	if err := bus.Listen(uint16(config.Address)); err != nil {
		fmt.Println("Failed to listen on i2c bus:", err)
		return
	}

	responder := &tile.Responder{}
	go serveBus(bus, responder)

	machine.InitADC()
	pads := make([]tile.Pad, len(padPins))
	for i, pin := range padPins {
		adc := machine.ADC{Pin: pin}
		adc.Configure(machine.ADCConfig{})
		pads[i] = adc
	}
	sensor := &tile.Sensor{Pads: pads, Threshold: pressureThreshold}

	stripPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	strip := ws2812.New(stripPin)

	engine := anim.NewEngine()
	frame := make([]color.RGBA, anim.NumLEDs)
	stepped := false

	for {
		now := time.Now()

		if cmd, ok := responder.Take(); ok {
			engine.Apply(cmd, now)
		}

		stepped = engine.Sense(sensor.Pressed(), stepped, now)
		responder.SetPressed(stepped)

		engine.Render(frame, now)
		strip.WriteColors(frame)

		time.Sleep(frameDelay)
	}
}

// serveBus handles master-initiated transactions. It must stay short: a read
// only echoes the precomputed pressed flag, a write only parks the first
// command byte for the main loop.
func serveBus(bus *machine.I2C, responder *tile.Responder) {
	var buf [8]byte
	var reply [1]byte
	for {
		evt, n, err := bus.WaitForEvent(buf[:])
		if err != nil {
			continue
		}
		switch evt {
		case machine.I2CReceive:
			if n >= 1 {
				// One command byte per transaction; surplus is ignored.
				responder.Deliver(buf[0])
			}
		case machine.I2CRequest:
			reply[0] = responder.StatusByte()
			bus.Reply(reply[:])
		case machine.I2CFinish:
		}
	}
}
