//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	hostPanelWidth  = 128
	hostPanelHeight = 64
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	fb     *hostFramebuffer
	grid   *GridDisplay
	board  *SimBoard
}

// New returns a host HAL backed by a simulated board.
func New() HAL {
	return newHost(os.Stderr)
}

func newHost(logOut io.Writer) *hostHAL {
	logger := &hostLogger{w: logOut}
	led := &hostLED{logger: logger}
	board := newSimBoard()
	fb := newHostFramebuffer(hostPanelWidth, hostPanelHeight)
	h := &hostHAL{
		logger: logger,
		led:    led,
		gpio:   newVirtualGPIO([]GPIOPin{board.ButtonPin()}),
		fb:     fb,
		grid:   NewGridDisplay(fb),
		board:  board,
	}
	board.dump = h.dumpDisplay
	return h
}

func (h *hostHAL) Logger() Logger               { return h.logger }
func (h *hostHAL) LED() LED                     { return h.led }
func (h *hostHAL) GPIO() GPIO                   { return h.gpio }
func (h *hostHAL) ADC() ADC                     { return h.board }
func (h *hostHAL) Touch() Touch                 { return h.board }
func (h *hostHAL) Accelerometer() Accelerometer { return h.board }
func (h *hostHAL) Display() CharDisplay         { return h.grid }

// dumpDisplay logs the grid text, one line per row, with the mark column.
func (h *hostHAL) dumpDisplay() {
	for i, line := range h.grid.Lines() {
		mark := ' '
		if h.grid.Marked(i) {
			mark = '#'
		}
		h.logger.WriteLineString(fmt.Sprintf("display %d |%s|%c", i, line, mark))
	}
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, strings.TrimRight(s, "\n"))
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.on {
		l.logger.WriteLineString("led: HIGH")
	}
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		l.logger.WriteLineString("led: LOW")
	}
	l.on = false
}
