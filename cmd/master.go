//go:build tinygo

package cmd

import (
	"fmt"
	"machine"
	"machine/usb/hid/keyboard"
	"time"

	"github.com/sparques/pwm"

	"steps/tile-mesh/master"
)

const (
	busFrequency = 400 * machine.KHz // fast mode for lower polling latency

	// NIR illumination for the camera, 50% duty.
	nirPin    = machine.GP5
	nirPeriod = uint64(1e9) / 1000

	// Small gap between polling passes to keep the bus from saturating.
	passDelay = 2 * time.Millisecond
)

// hidKeys bridges the poller's events onto the USB HID keyboard.
type hidKeys struct{}

func (hidKeys) Press(sym byte)   { keyboard.Port().Down(keycodeFor(sym)) }
func (hidKeys) Release(sym byte) { keyboard.Port().Up(keycodeFor(sym)) }

func keycodeFor(sym byte) keyboard.Keycode {
	switch sym {
	case 'q':
		return keyboard.KeyQ
	case 'w':
		return keyboard.KeyW
	case 'e':
		return keyboard.KeyE
	case 'a':
		return keyboard.KeyA
	case 's':
		return keyboard.KeyS
	case 'd':
		return keyboard.KeyD
	case 'z':
		return keyboard.KeyZ
	case 'x':
		return keyboard.KeyX
	default:
		return keyboard.KeyC
	}
}

// RunMaster polls the tiles for step events and relays scoring commands
// arriving on the USB serial back onto the bus.
func RunMaster(config Settings, bus *machine.I2C, led machine.Pin) {
	fmt.Println("Starting Master Loop")

	if err := bus.Configure(machine.I2CConfig{Frequency: busFrequency}); err != nil {
		fmt.Println("Failed to configure i2c bus:", err)
		return
	}

	configureNIR()

	poller := master.NewPoller(bus, hidKeys{})
	relay := master.NewRelay(bus)

	led.High()
	for {
		poller.Pass()
		relay.Pump(machine.Serial)
		time.Sleep(passDelay)
	}
}

// configureNIR lights the near-infrared illuminator at half duty.
func configureNIR() {
	nirPin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	group := pwm.Get(nirPin)
	group.Configure(machine.PWMConfig{Period: nirPeriod})
	ch, err := group.Channel(nirPin)
	if err != nil {
		fmt.Println("Failed to configure NIR channel:", err)
		return
	}
	group.Set(ch, group.Top()/2)
}
