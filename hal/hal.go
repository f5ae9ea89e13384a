package hal

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrNotConfigured  = errors.New("not configured")
)

// ADC is a single-channel analog-to-digital converter wired to the dial.
//
// A conversion is started, polled until done, then read. Implementations
// must never block inside IsConversionDone; bounding the wait is the
// caller's job.
type ADC interface {
	StartConversion() error
	IsConversionDone() bool
	ReadResult() (uint16, error)
}

// Accelerometer exposes the raw register file of a 3-axis accelerometer.
type Accelerometer interface {
	ReadByte(reg uint8) (byte, error)
}

// BMA150-compatible data registers. Each axis is a 10-bit two's-complement
// value split across LSB[7:6] and MSB[7:0].
const (
	RegAccXLSB uint8 = 0x02
	RegAccXMSB uint8 = 0x03
	RegAccYLSB uint8 = 0x04
	RegAccYMSB uint8 = 0x05
	RegAccZLSB uint8 = 0x06
	RegAccZMSB uint8 = 0x07
)

// Touch reads capacitive pad levels.
type Touch interface {
	Calibrate() error
	ReadChannel(id int) (uint16, error)
}

// Touch pad channel assignment on the board.
const (
	TouchRight      = 0
	TouchScrollUp   = 1
	TouchScrollDown = 2
	TouchLeft       = 3

	TouchChannels = 4
)

// Canvas is the pixel surface behind a character display.
//
// The method set matches what tinyterm and tinyfont draw on.
type Canvas interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
	SetScroll(line int16)
	SetRotation(rotation drivers.Rotation) error
}

// CharDisplay is a fixed grid of character cells with a per-row selection mark.
type CharDisplay interface {
	Size() (rows, cols int)
	WriteString(row, col int, text string) error
	Clear(value byte) error
	MarkRow(row int, on bool) error
	Present() error
	Canvas() Canvas
}

// ButtonPinName is the GPIO name of the user push-button.
const ButtonPinName = "BUTTON"

// HAL provides the only contact point between the firmware and the board.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	ADC() ADC
	Touch() Touch
	Accelerometer() Accelerometer
	Display() CharDisplay
}
