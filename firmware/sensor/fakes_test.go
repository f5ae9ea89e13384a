package sensor

import (
	"errors"

	"starterkit/hal"
)

var errBus = errors.New("bus nack")

type fakeADC struct {
	value     uint16
	doneAfter int // polls before IsConversionDone turns true; <0 never
	startErr  error
	polls     int
}

func (a *fakeADC) StartConversion() error {
	a.polls = 0
	return a.startErr
}

func (a *fakeADC) IsConversionDone() bool {
	if a.doneAfter < 0 {
		return false
	}
	a.polls++
	return a.polls > a.doneAfter
}

func (a *fakeADC) ReadResult() (uint16, error) { return a.value, nil }

type fakePin struct {
	level bool
	err   error
	mode  hal.GPIOMode
	pull  hal.GPIOPull
}

func (p *fakePin) Name() string        { return hal.ButtonPinName }
func (p *fakePin) Caps() hal.GPIOCaps  { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *fakePin) Read() (bool, error) { return p.level, p.err }
func (p *fakePin) Write(bool) error    { return hal.ErrNotImplemented }

func (p *fakePin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	p.mode, p.pull = mode, pull
	return nil
}

type fakeTouch struct {
	levels     [hal.TouchChannels]uint16
	err        error
	calibrated int
}

func (t *fakeTouch) Calibrate() error {
	t.calibrated++
	return nil
}

func (t *fakeTouch) ReadChannel(id int) (uint16, error) {
	if t.err != nil {
		return 0, t.err
	}
	return t.levels[id], nil
}

// idleLevels has every pad clearly released.
func idleLevels() [hal.TouchChannels]uint16 {
	var l [hal.TouchChannels]uint16
	l[hal.TouchRight] = 1000
	l[hal.TouchLeft] = 1000
	l[hal.TouchScrollUp] = 900
	l[hal.TouchScrollDown] = 900
	return l
}

type fakeAccel struct {
	regs map[uint8]byte
	err  error
}

func (a *fakeAccel) ReadByte(reg uint8) (byte, error) {
	if a.err != nil {
		return 0, a.err
	}
	return a.regs[reg], nil
}

// setAxis stores v in the LSB/MSB register pair.
func (a *fakeAccel) setAxis(lsb, msb uint8, v int16) {
	if a.regs == nil {
		a.regs = make(map[uint8]byte)
	}
	a.regs[lsb] = byte(uint16(v)&0x3) << 6
	a.regs[msb] = byte(uint16(v) >> 2)
}
