// Package sensor turns raw HAL readings into the signals the menus act on:
// dial band, debounced button edge, touch gesture and tilt.
package sensor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSensorFault means the sensor or its bus did not respond.
	ErrSensorFault = errors.New("sensor fault")
	// ErrTimeoutFault means a bounded hardware wait ran out.
	ErrTimeoutFault = errors.New("sensor timeout")
)

// Sensor identifies one input, or a set of them when OR'ed together.
type Sensor uint8

const (
	SensorDial Sensor = 1 << iota
	SensorButton
	SensorTouch
	SensorTilt

	sensorCount = 4
)

func (s Sensor) String() string {
	var names []string
	for i := 0; i < sensorCount; i++ {
		bit := Sensor(1) << i
		if s&bit == 0 {
			continue
		}
		switch bit {
		case SensorDial:
			names = append(names, "dial")
		case SensorButton:
			names = append(names, "button")
		case SensorTouch:
			names = append(names, "touch")
		case SensorTilt:
			names = append(names, "tilt")
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Fault is a failed read of one sensor. Err wraps ErrSensorFault or
// ErrTimeoutFault, plus the driver error when there is one.
type Fault struct {
	Sensor Sensor
	Err    error
}

func (f *Fault) Error() string { return f.Sensor.String() + ": " + f.Err.Error() }
func (f *Fault) Unwrap() error { return f.Err }

func newFault(s Sensor, kind, cause error) *Fault {
	if cause == nil {
		return &Fault{Sensor: s, Err: kind}
	}
	return &Fault{Sensor: s, Err: fmt.Errorf("%w: %w", kind, cause)}
}
