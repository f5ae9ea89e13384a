//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers/ssd1306"
)

var _ Canvas = (*ssd1306.Device)(nil)

func newOLED(bus *machine.I2C, addr uint16) *ssd1306.Device {
	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Address: addr,
		Width:   128,
		Height:  64,
	})
	dev.ClearDisplay()
	return dev
}
