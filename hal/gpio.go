package hal

import (
	"fmt"
	"sync"
)

type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps is the set of modes and pulls a pin accepts.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIO is the board's list of named digital pins.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// FindPin returns the pin called name, or nil.
func FindPin(g GPIO, name string) GPIOPin {
	if g == nil {
		return nil
	}
	for i := 0; i < g.PinCount(); i++ {
		if p := g.Pin(i); p != nil && p.Name() == name {
			return p
		}
	}
	return nil
}

// checkConfig reports whether caps allow mode and pull on the named pin.
func checkConfig(name string, caps GPIOCaps, mode GPIOMode, pull GPIOPull) error {
	var need GPIOCaps
	switch mode {
	case GPIOModeInput:
		need = GPIOCapInput
	case GPIOModeOutput:
		need = GPIOCapOutput
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode %d", name, mode)
	}
	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		need |= GPIOCapPullUp
	case GPIOPullDown:
		need |= GPIOCapPullDown
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull %d", name, pull)
	}
	if missing := need &^ caps; missing != 0 {
		return fmt.Errorf("gpio: pin %s: unsupported %s", name, missing)
	}
	return nil
}

func (c GPIOCaps) String() string {
	names := [...]string{"input", "output", "pull-up", "pull-down"}
	s := ""
	for i, n := range names {
		if c&(1<<i) == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n
	}
	return s
}

// pinSet is a fixed GPIO built from a slice of pins.
type pinSet []GPIOPin

func newVirtualGPIO(pins []GPIOPin) GPIO { return pinSet(pins) }

func (s pinSet) PinCount() int { return len(s) }

func (s pinSet) Pin(id int) GPIOPin {
	if id < 0 || id >= len(s) {
		return nil
	}
	return s[id]
}

// virtualPin is a pin with no hardware behind it. As an input it reads its
// pull level until the simulator drives it.
type virtualPin struct {
	mu     sync.Mutex
	name   string
	caps   GPIOCaps
	mode   GPIOMode
	pull   GPIOPull
	out    bool
	driven bool
	in     bool
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{name: name, caps: caps}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.caps, mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	p.mode, p.pull = mode, pull
	p.mu.Unlock()
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.mode == GPIOModeOutput:
		return p.out, nil
	case p.driven:
		return p.in, nil
	}
	return p.pull == GPIOPullUp, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.out = level
	return nil
}

// drive forces the input level, as an external circuit would.
func (p *virtualPin) drive(level bool) {
	p.mu.Lock()
	p.driven, p.in = true, level
	p.mu.Unlock()
}
