// Package anim implements the tile-local animation state machine. The engine
// is driven by two inputs, the pressure sensor edge and scoring commands from
// the master, and renders one RGB frame per cycle for the 3x3 LED grid.
package anim

import (
	"image/color"
	"time"

	"steps/tile-mesh/protocol"
)

// State is what the tile is currently displaying.
type State uint8

const (
	Idle State = iota // rainbow swirl
	Pressed           // white, local step feedback
	Perfect           // green flash
	Great             // blue flash
	Miss              // red decay
)

const (
	// NumLEDs is the tile grid size, 3x3.
	NumLEDs = 9

	// DefaultBrightness matches the fixture calibration, out of 255.
	DefaultBrightness = 150

	// OverrideWindow protects a command-driven animation from being
	// interrupted by local sensing.
	OverrideWindow = 500 * time.Millisecond

	flashDuration = 300 * time.Millisecond
	missDuration  = 500 * time.Millisecond
)

// Engine holds the animation state machine for one tile. It is owned by the
// tile main loop and is not safe for concurrent use; commands arriving from
// the bus goroutine go through a pending slot, not directly into the engine.
type Engine struct {
	// Brightness scales every rendered color, 0..255.
	Brightness uint8

	state     State
	enteredAt time.Time
}

func NewEngine() *Engine {
	return &Engine{Brightness: DefaultBrightness}
}

// State returns the currently displayed state.
func (e *Engine) State() State {
	return e.state
}

// Set enters s and stamps it as entered at now.
func (e *Engine) Set(s State, now time.Time) {
	e.state = s
	e.enteredAt = now
}

// Sense applies one cycle of sensor input. was is the pressed flag from the
// previous cycle; the return value is the new flag. A rising edge enters
// Pressed only from Idle or once a command-driven state has outlived the
// override window, so game feedback is never cut short by a step.
func (e *Engine) Sense(pressed, was bool, now time.Time) bool {
	if pressed && (e.state == Idle || now.Sub(e.enteredAt) >= OverrideWindow) {
		if !was {
			e.Set(Pressed, now)
		}
		return true
	}
	if !pressed && was {
		if e.state == Pressed {
			e.Set(Idle, now)
		}
		return false
	}
	return was
}

// Apply handles a scoring command from the master. Commands preempt whatever
// is displayed; unrecognized bytes are no-ops.
func (e *Engine) Apply(c protocol.Command, now time.Time) {
	switch c {
	case protocol.CmdPerfect:
		e.Set(Perfect, now)
	case protocol.CmdGreat:
		e.Set(Great, now)
	case protocol.CmdMiss:
		e.Set(Miss, now)
	case protocol.CmdReset:
		e.Set(Idle, now)
	}
}

// Render fills frame for the current cycle. Timed states that have run their
// course fall back to Idle here, so Render must be called every cycle even
// when no input arrived.
func (e *Engine) Render(frame []color.RGBA, now time.Time) {
	elapsed := now.Sub(e.enteredAt)
	switch e.state {
	case Perfect, Great:
		if elapsed >= flashDuration {
			e.Set(Idle, now)
		}
	case Miss:
		if elapsed >= missDuration {
			e.Set(Idle, now)
		}
	}

	switch e.state {
	case Idle:
		base := uint8(now.UnixMilli() / 20)
		for i := range frame {
			frame[i] = e.scaled(wheel(base + uint8(i)*7))
		}
	case Pressed:
		e.fill(frame, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	case Perfect:
		e.fill(frame, color.RGBA{G: 255, A: 255})
	case Great:
		e.fill(frame, color.RGBA{B: 255, A: 255})
	case Miss:
		e.fill(frame, color.RGBA{R: missLevel(elapsed), A: 255})
	}
}

func (e *Engine) fill(frame []color.RGBA, c color.RGBA) {
	c = e.scaled(c)
	for i := range frame {
		frame[i] = c
	}
}

func (e *Engine) scaled(c color.RGBA) color.RGBA {
	b := uint16(e.Brightness) + 1
	return color.RGBA{
		R: uint8(uint16(c.R) * b >> 8),
		G: uint8(uint16(c.G) * b >> 8),
		B: uint8(uint16(c.B) * b >> 8),
		A: c.A,
	}
}

// missLevel linearly decays the red channel from full to off over the Miss
// duration.
func missLevel(elapsed time.Duration) uint8 {
	if elapsed >= missDuration {
		return 0
	}
	return uint8(255 - elapsed.Milliseconds()*255/missDuration.Milliseconds())
}

// wheel maps a hue position to a color on the RGB color wheel.
func wheel(pos uint8) color.RGBA {
	switch {
	case pos < 85:
		return color.RGBA{R: 255 - pos*3, G: pos * 3, A: 255}
	case pos < 170:
		pos -= 85
		return color.RGBA{G: 255 - pos*3, B: pos * 3, A: 255}
	default:
		pos -= 170
		return color.RGBA{R: pos * 3, B: 255 - pos*3, A: 255}
	}
}
