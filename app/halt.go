package app

import (
	"fmt"
	"image/color"
	"strings"

	"starterkit/hal"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// Halt reports an unrecoverable error on every channel the board has: the
// logger, the LED and the display canvas. It returns the wrapped error.
func Halt(h hal.HAL, cause error, stack []byte) error {
	lines := haltLines(cause, stack)

	if l := h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}
	if led := h.LED(); led != nil {
		led.High()
	}
	if disp := h.Display(); disp != nil {
		if c := disp.Canvas(); c != nil {
			drawHalt(c, lines)
		}
	}
	return fmt.Errorf("halt: %w", cause)
}

func haltLines(cause error, stack []byte) []string {
	lines := []string{"starterkit halted:"}
	for _, l := range strings.Split(cause.Error(), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, l := range strings.Split(string(stack), "\n") {
			if l == "" {
				continue
			}
			lines = append(lines, l)
		}
	}
	return lines
}

func drawHalt(c hal.Canvas, lines []string) {
	w, ht := c.Size()
	_ = c.FillRectangle(0, 0, w, ht, color.RGBA{A: 255})

	term := tinyterm.NewTerminal(c)
	term.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        8,
		FontOffset:        6,
		UseSoftwareScroll: true,
	})
	for _, line := range lines {
		fmt.Fprintf(term, "%s\r\n", strings.TrimSpace(line))
	}
	_ = c.Display()
}
