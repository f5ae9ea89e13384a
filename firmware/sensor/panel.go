package sensor

import (
	"errors"
)

// Panel groups the adapters read once per tick.
type Panel struct {
	Dial   *Dial
	Button *Button
	Touch  *Touchpad
	Tilt   *Tilt
}

// Sample is one tick's readings. Fields of a faulted sensor are zero.
type Sample struct {
	Dial        uint16
	Pressed     bool
	Gesture     Gesture
	Orientation Orientation
	TiltBand    int

	faults [sensorCount]error
}

func sensorIndex(s Sensor) int {
	for i := 0; i < sensorCount; i++ {
		if s == Sensor(1)<<i {
			return i
		}
	}
	return -1
}

// Fault returns the recorded fault of a single sensor.
func (s Sample) Fault(sensor Sensor) error {
	i := sensorIndex(sensor)
	if i < 0 {
		return nil
	}
	return s.faults[i]
}

// SetFault records err against sensor.
func (s *Sample) SetFault(sensor Sensor, err error) {
	if i := sensorIndex(sensor); i >= 0 {
		s.faults[i] = err
	}
}

// Faulted is the set of sensors that failed this tick.
func (s Sample) Faulted() Sensor {
	var out Sensor
	for i, err := range s.faults {
		if err != nil {
			out |= Sensor(1) << i
		}
	}
	return out
}

// Err joins the faults of the sensors in uses, or returns nil.
func (s Sample) Err(uses Sensor) error {
	var errs []error
	for i, err := range s.faults {
		if err != nil && uses&(Sensor(1)<<i) != 0 {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sample reads every adapter once. A failing sensor records its fault and
// does not stop the others.
func (p *Panel) Sample() Sample {
	var s Sample

	if v, err := p.Dial.ReadRaw(); err != nil {
		s.SetFault(SensorDial, err)
	} else {
		s.Dial = v
	}

	if pressed, err := p.Button.Poll(); err != nil {
		s.SetFault(SensorButton, err)
	} else {
		s.Pressed = pressed
	}

	if g, err := p.Touch.Read(); err != nil {
		s.SetFault(SensorTouch, err)
	} else {
		s.Gesture = g
	}

	if o, band, err := p.Tilt.Read(); err != nil {
		s.SetFault(SensorTilt, err)
	} else {
		s.Orientation = o
		s.TiltBand = band
	}
	return s
}
