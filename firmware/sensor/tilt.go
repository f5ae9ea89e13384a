package sensor

import (
	"starterkit/hal"
)

// Orientation of the board.
type Orientation uint8

const (
	OrientationNormal Orientation = iota
	OrientationUpsideDown
)

func (o Orientation) String() string {
	if o == OrientationUpsideDown {
		return "upside-down"
	}
	return "normal"
}

// TiltConfig holds the accelerometer classification limits.
type TiltConfig struct {
	// UpsideDownZ: a Z reading below this is upside down.
	UpsideDownZ int16
	// BandEdges are the inclusive upper edges of the tilt bands applied to
	// X*4. Readings outside [0, last edge] land in band 1.
	BandEdges []int16
}

var DefaultTilt = TiltConfig{
	UpsideDownZ: -58,
	BandEdges:   []int16{50, 100, 150, 200},
}

// DecodeAxis assembles a 10-bit two's-complement axis value from its LSB
// (bits 1..0 in [7:6]) and MSB (bits 9..2) registers.
func DecodeAxis(lsb, msb byte) int16 {
	v := int16(uint16(msb)<<2 | uint16(lsb)>>6)
	if v&0x200 != 0 {
		v -= 0x400
	}
	return v
}

// Band maps an X reading to its 1-based tilt band.
func (c TiltConfig) Band(x int16) int {
	scaled := int(x) * 4
	if scaled < 0 {
		return 1
	}
	for i, edge := range c.BandEdges {
		if scaled <= int(edge) {
			return i + 1
		}
	}
	return 1
}

// Tilt reads orientation and X band from the accelerometer. The Y axis is
// not used.
type Tilt struct {
	dev hal.Accelerometer
	cfg TiltConfig
}

func NewTilt(dev hal.Accelerometer, cfg TiltConfig) *Tilt {
	return &Tilt{dev: dev, cfg: cfg}
}

func (t *Tilt) axis(lsbReg, msbReg uint8) (int16, error) {
	lsb, err := t.dev.ReadByte(lsbReg)
	if err != nil {
		return 0, newFault(SensorTilt, ErrSensorFault, err)
	}
	msb, err := t.dev.ReadByte(msbReg)
	if err != nil {
		return 0, newFault(SensorTilt, ErrSensorFault, err)
	}
	return DecodeAxis(lsb, msb), nil
}

// Read returns the orientation and the 1-based X band.
func (t *Tilt) Read() (Orientation, int, error) {
	if t == nil || t.dev == nil {
		return OrientationNormal, 0, newFault(SensorTilt, ErrSensorFault, hal.ErrNotConfigured)
	}
	x, err := t.axis(hal.RegAccXLSB, hal.RegAccXMSB)
	if err != nil {
		return OrientationNormal, 0, err
	}
	z, err := t.axis(hal.RegAccZLSB, hal.RegAccZMSB)
	if err != nil {
		return OrientationNormal, 0, err
	}

	o := OrientationNormal
	if z < t.cfg.UpsideDownZ {
		o = OrientationUpsideDown
	}
	return o, t.cfg.Band(x), nil
}
