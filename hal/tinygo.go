//go:build tinygo && baremetal

package hal

import (
	"machine"
)

// Board wiring.
const (
	buttonPin = machine.GP15
	i2cSDA    = machine.GP4
	i2cSCL    = machine.GP5

	mpr121Addr  = 0x5A
	bma150Addr  = 0x38
	ssd1306Addr = 0x3C
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	adc    *picoADC
	touch  *mpr121Touch
	accel  *bma150
	disp   CharDisplay
}

// New returns a Pico HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// I2C0 on GP4 (SDA) / GP5 (SCL), 400kHz: MPR121 touch, BMA150 accelerometer,
// SSD1306 128x64 OLED. Dial on ADC0 (GP26), button on GP15 to ground.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	machine.InitADC()

	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       i2cSDA,
		SCL:       i2cSCL,
	}); err != nil {
		logger.WriteLineString("i2c: configure: " + err.Error())
	}

	return &tinyGoHAL{
		logger: logger,
		led:    led,
		gpio: newVirtualGPIO([]GPIOPin{
			&machinePin{name: ButtonPinName, pin: buttonPin},
		}),
		adc:   newPicoADC(machine.ADC0),
		touch: &mpr121Touch{bus: bus, addr: mpr121Addr},
		accel: &bma150{bus: bus, addr: bma150Addr},
		disp:  NewGridDisplay(newOLED(bus, ssd1306Addr)),
	}
}

func (h *tinyGoHAL) Logger() Logger               { return h.logger }
func (h *tinyGoHAL) LED() LED                     { return h.led }
func (h *tinyGoHAL) GPIO() GPIO                   { return h.gpio }
func (h *tinyGoHAL) ADC() ADC                     { return h.adc }
func (h *tinyGoHAL) Touch() Touch                 { return h.touch }
func (h *tinyGoHAL) Accelerometer() Accelerometer { return h.accel }
func (h *tinyGoHAL) Display() CharDisplay         { return h.disp }
