package sensor

import (
	"starterkit/hal"
)

// DefaultDebouncePolls is the number of consecutive asserted polls a press
// must exceed to count.
const DefaultDebouncePolls = 10

// Button debounces an active-low push-button. A press latches once it has
// been held for more than threshold polls and is reported once, on release.
type Button struct {
	pin       hal.GPIOPin
	threshold int
	count     int
	latched   bool
}

// NewButton configures pin as a pulled-up input.
func NewButton(pin hal.GPIOPin, threshold int) (*Button, error) {
	if pin == nil {
		return nil, newFault(SensorButton, ErrSensorFault, hal.ErrNotConfigured)
	}
	if err := pin.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
		return nil, newFault(SensorButton, ErrSensorFault, err)
	}
	if threshold < 0 {
		threshold = DefaultDebouncePolls
	}
	return &Button{pin: pin, threshold: threshold}, nil
}

// Poll samples the pin once and reports a completed press.
func (b *Button) Poll() (bool, error) {
	if b == nil || b.pin == nil {
		return false, newFault(SensorButton, ErrSensorFault, hal.ErrNotConfigured)
	}
	level, err := b.pin.Read()
	if err != nil {
		b.reset()
		return false, newFault(SensorButton, ErrSensorFault, err)
	}

	if !level {
		b.count++
		if b.count > b.threshold {
			b.latched = true
		}
		return false, nil
	}

	fired := b.latched
	b.reset()
	return fired, nil
}

func (b *Button) reset() {
	b.count = 0
	b.latched = false
}
