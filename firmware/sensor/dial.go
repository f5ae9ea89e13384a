package sensor

import (
	"errors"
	"time"

	"starterkit/hal"
)

const dialMax = 1023

// Dial reads the potentiometer through a start/poll/read ADC cycle. The
// wait is bounded by both a poll budget and a wall-clock timeout.
type Dial struct {
	adc        hal.ADC
	timeout    time.Duration
	pollBudget int
	now        func() time.Time
}

func NewDial(adc hal.ADC, timeout time.Duration, pollBudget int) *Dial {
	return &Dial{
		adc:        adc,
		timeout:    timeout,
		pollBudget: pollBudget,
		now:        time.Now,
	}
}

// ReadRaw returns the 10-bit conversion result.
func (d *Dial) ReadRaw() (uint16, error) {
	if d == nil || d.adc == nil {
		return 0, newFault(SensorDial, ErrSensorFault, hal.ErrNotConfigured)
	}
	if err := d.adc.StartConversion(); err != nil {
		return 0, newFault(SensorDial, ErrSensorFault, err)
	}

	start := d.now()
	for polls := 0; !d.adc.IsConversionDone(); polls++ {
		if d.pollBudget > 0 && polls >= d.pollBudget {
			return 0, newFault(SensorDial, ErrTimeoutFault, errors.New("poll budget exhausted"))
		}
		if d.timeout > 0 && d.now().Sub(start) > d.timeout {
			return 0, newFault(SensorDial, ErrTimeoutFault, nil)
		}
	}

	v, err := d.adc.ReadResult()
	if err != nil {
		return 0, newFault(SensorDial, ErrSensorFault, err)
	}
	if v > dialMax {
		v = dialMax
	}
	return v, nil
}
