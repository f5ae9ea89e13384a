//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"

	"tinygo.org/x/drivers"
)

// picoADC adapts the blocking RP2040 ADC to the start/poll/read sequence.
// The 16-bit sample is scaled down to 10 bits.
type picoADC struct {
	adc    machine.ADC
	sample uint16
	done   bool
}

func newPicoADC(pin machine.Pin) *picoADC {
	a := &picoADC{adc: machine.ADC{Pin: pin}}
	a.adc.Configure(machine.ADCConfig{})
	return a
}

func (a *picoADC) StartConversion() error {
	a.sample = a.adc.Get() >> 6
	a.done = true
	return nil
}

func (a *picoADC) IsConversionDone() bool { return a.done }

func (a *picoADC) ReadResult() (uint16, error) {
	if !a.done {
		return 0, fmt.Errorf("adc: no conversion started")
	}
	a.done = false
	return a.sample, nil
}

// MPR121 registers.
const (
	mpr121FiltData   = 0x04
	mpr121ECR        = 0x5E
	mpr121SoftReset  = 0x80
	mpr121ResetValue = 0x63
	// Baseline tracking on, electrodes 0-3 enabled.
	mpr121Run = 0x80 | TouchChannels
)

type mpr121Touch struct {
	bus  drivers.I2C
	addr uint16
}

func (t *mpr121Touch) write(reg, v byte) error {
	return t.bus.Tx(t.addr, []byte{reg, v}, nil)
}

// Calibrate resets the controller and restarts it, which reloads the
// electrode baselines from the current readings.
func (t *mpr121Touch) Calibrate() error {
	if err := t.write(mpr121SoftReset, mpr121ResetValue); err != nil {
		return fmt.Errorf("touch: reset: %w", err)
	}
	if err := t.write(mpr121ECR, 0); err != nil {
		return fmt.Errorf("touch: stop: %w", err)
	}
	if err := t.write(mpr121ECR, mpr121Run); err != nil {
		return fmt.Errorf("touch: run: %w", err)
	}
	return nil
}

func (t *mpr121Touch) ReadChannel(id int) (uint16, error) {
	if id < 0 || id >= TouchChannels {
		return 0, fmt.Errorf("touch: channel %d: out of range", id)
	}
	var buf [2]byte
	if err := t.bus.Tx(t.addr, []byte{byte(mpr121FiltData + 2*id)}, buf[:]); err != nil {
		return 0, fmt.Errorf("touch: channel %d: %w", id, err)
	}
	return uint16(buf[0]) | uint16(buf[1]&0x03)<<8, nil
}

type bma150 struct {
	bus  drivers.I2C
	addr uint16
}

func (a *bma150) ReadByte(reg uint8) (byte, error) {
	var buf [1]byte
	if err := a.bus.Tx(a.addr, []byte{reg}, buf[:]); err != nil {
		return 0, fmt.Errorf("accel: reg 0x%02x: %w", reg, err)
	}
	return buf[0], nil
}
