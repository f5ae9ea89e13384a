//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"sync"
)

// Simulated pad levels. Scroll pads rise when touched, tap pads fall.
const (
	simScrollIdle    = 900
	simScrollTouched = 1000
	simTapIdle       = 1000
	simTapTouched    = 600

	simZNormal = 255
	simZUpside = -200

	simDialStep = 64
)

// simTiltX holds an X reading that lands in the middle of each tilt band.
var simTiltX = [...]int16{6, 18, 31, 43}

var errSimFault = errors.New("injected fault")

// SimBoard is the simulated sensor side of the host HAL. It implements ADC,
// Touch and Accelerometer and owns the BUTTON pin. Scripts, the keyboard and
// the serial bridge drive it through Apply.
type SimBoard struct {
	mu sync.Mutex

	dial       uint16
	converting bool
	pads       [TouchChannels]bool
	tiltX      int16
	upside     bool
	faults     map[string]bool

	button *virtualPin

	queue   []Command
	wait    int
	pending []release

	dump    func()
	dumpDue bool
}

type release struct {
	target string
	ticks  int
}

func newSimBoard() *SimBoard {
	b := &SimBoard{
		dial:   512,
		tiltX:  simTiltX[0],
		faults: make(map[string]bool),
		button: newVirtualPin(ButtonPinName, GPIOCapInput|GPIOCapPullUp),
	}
	return b
}

// ButtonPin returns the BUTTON pin as seen by the firmware.
func (b *SimBoard) ButtonPin() GPIOPin { return simButtonPin{virtualPin: b.button, b: b} }

func (b *SimBoard) faulted(sensor string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.faults[sensor]
}

func (b *SimBoard) StartConversion() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.converting = true
	return nil
}

// IsConversionDone never completes while the dial is faulted.
func (b *SimBoard) IsConversionDone() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.converting && !b.faults["dial"]
}

func (b *SimBoard) ReadResult() (uint16, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.converting {
		return 0, errors.New("adc: no conversion started")
	}
	b.converting = false
	return b.dial, nil
}

func (b *SimBoard) Calibrate() error {
	if b.faulted("touch") {
		return fmt.Errorf("touch: calibrate: %w", errSimFault)
	}
	return nil
}

func (b *SimBoard) ReadChannel(id int) (uint16, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.faults["touch"] {
		return 0, fmt.Errorf("touch: channel %d: %w", id, errSimFault)
	}
	if id < 0 || id >= TouchChannels {
		return 0, fmt.Errorf("touch: channel %d: out of range", id)
	}
	touched := b.pads[id]
	switch id {
	case TouchScrollUp, TouchScrollDown:
		if touched {
			return simScrollTouched, nil
		}
		return simScrollIdle, nil
	default:
		if touched {
			return simTapTouched, nil
		}
		return simTapIdle, nil
	}
}

func (b *SimBoard) ReadByte(reg uint8) (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.faults["tilt"] {
		return 0, fmt.Errorf("accel: reg 0x%02x: %w", reg, errSimFault)
	}
	z := int16(simZNormal)
	if b.upside {
		z = simZUpside
	}
	switch reg {
	case RegAccXLSB:
		return axisLSB(b.tiltX), nil
	case RegAccXMSB:
		return axisMSB(b.tiltX), nil
	case RegAccYLSB, RegAccYMSB:
		return 0, nil
	case RegAccZLSB:
		return axisLSB(z), nil
	case RegAccZMSB:
		return axisMSB(z), nil
	}
	return 0, fmt.Errorf("accel: reg 0x%02x: unmapped", reg)
}

// axisLSB and axisMSB split a 10-bit two's-complement value the way the
// accelerometer lays it out: bits 1..0 in LSB[7:6], bits 9..2 in MSB.
func axisLSB(v int16) byte { return byte(uint16(v)&0x3) << 6 }
func axisMSB(v int16) byte { return byte(uint16(v) >> 2) }

type simButtonPin struct {
	*virtualPin
	b *SimBoard
}

func (p simButtonPin) Read() (bool, error) {
	if p.b.faulted("button") {
		return false, fmt.Errorf("gpio: pin %s: %w", p.name, errSimFault)
	}
	return p.virtualPin.Read()
}

// Load queues script commands to run on subsequent Steps.
func (b *SimBoard) Load(cmds []Command) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, cmds...)
}

// Idle reports whether queued commands and pending releases are exhausted.
func (b *SimBoard) Idle() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue) == 0 && b.wait == 0 && len(b.pending) == 0
}

// Step advances the board by one tick: due releases fire, then queued
// commands run until a wait is hit.
func (b *SimBoard) Step() error {
	b.mu.Lock()
	kept := b.pending[:0]
	var due []string
	for _, r := range b.pending {
		r.ticks--
		if r.ticks <= 0 {
			due = append(due, r.target)
			continue
		}
		kept = append(kept, r)
	}
	b.pending = kept
	b.mu.Unlock()

	for _, target := range due {
		if err := b.setInput(target, false); err != nil {
			return err
		}
	}

	for {
		b.mu.Lock()
		if b.wait > 0 {
			b.wait--
			b.mu.Unlock()
			return nil
		}
		if len(b.queue) == 0 {
			b.mu.Unlock()
			return nil
		}
		cmd := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		if err := b.Apply(cmd); err != nil {
			return err
		}
	}
}

// EndTick runs work deferred until the firmware has rendered the tick.
func (b *SimBoard) EndTick() {
	b.mu.Lock()
	due, dump := b.dumpDue, b.dump
	b.dumpDue = false
	b.mu.Unlock()
	if due && dump != nil {
		dump()
	}
}

// Apply executes one command against the board.
func (b *SimBoard) Apply(cmd Command) error {
	switch cmd.Op {
	case OpDial:
		b.mu.Lock()
		b.dial = uint16(cmd.Value)
		b.mu.Unlock()
	case OpPress:
		return b.setInput(cmd.Target, true)
	case OpRelease:
		return b.setInput(cmd.Target, false)
	case OpTap, OpHold:
		if err := b.setInput(cmd.Target, true); err != nil {
			return err
		}
		b.mu.Lock()
		b.pending = append(b.pending, release{target: cmd.Target, ticks: cmd.Value})
		b.mu.Unlock()
	case OpTilt:
		b.mu.Lock()
		b.upside = cmd.Target == "upside"
		b.mu.Unlock()
	case OpTiltBand:
		b.mu.Lock()
		b.tiltX = simTiltX[cmd.Value-1]
		b.mu.Unlock()
	case OpFault:
		b.mu.Lock()
		b.faults[cmd.Target] = cmd.Value != 0
		b.mu.Unlock()
	case OpWait:
		b.mu.Lock()
		b.wait += cmd.Value
		b.mu.Unlock()
	case OpDump:
		b.mu.Lock()
		b.dumpDue = true
		b.mu.Unlock()
	default:
		return fmt.Errorf("board: line %d: unknown op %q", cmd.Line, cmd.Op)
	}
	return nil
}

func (b *SimBoard) setInput(target string, on bool) error {
	if target == "button" {
		// Active low.
		b.button.drive(!on)
		return nil
	}
	id, ok := padChannel(target)
	if !ok {
		return fmt.Errorf("board: unknown input %q", target)
	}
	b.mu.Lock()
	b.pads[id] = on
	b.mu.Unlock()
	return nil
}

// nudgeDial moves the dial by delta steps, clamped to the 10-bit range.
func (b *SimBoard) nudgeDial(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := int(b.dial) + delta*simDialStep
	if v < 0 {
		v = 0
	}
	if v > 1023 {
		v = 1023
	}
	b.dial = uint16(v)
}

func (b *SimBoard) toggle(sensor string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch sensor {
	case "upside":
		b.upside = !b.upside
	default:
		b.faults[sensor] = !b.faults[sensor]
	}
}

func padChannel(name string) (int, bool) {
	switch name {
	case "right":
		return TouchRight, true
	case "up":
		return TouchScrollUp, true
	case "down":
		return TouchScrollDown, true
	case "left":
		return TouchLeft, true
	}
	return 0, false
}
