package app

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"starterkit/config"
	"starterkit/hal"

	"tinygo.org/x/drivers"
)

type testLogger struct{ lines []string }

func (l *testLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *testLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *testLogger) contains(sub string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

type testLED struct{ on bool }

func (l *testLED) High() { l.on = true }
func (l *testLED) Low()  { l.on = false }

type testCanvas struct{ presents int }

func (c *testCanvas) Size() (int16, int16)                               { return 128, 64 }
func (c *testCanvas) SetPixel(int16, int16, color.RGBA)                  {}
func (c *testCanvas) Display() error                                     { c.presents++; return nil }
func (c *testCanvas) FillRectangle(_, _, _, _ int16, _ color.RGBA) error { return nil }
func (c *testCanvas) SetScroll(int16)                                    {}
func (c *testCanvas) SetRotation(drivers.Rotation) error                 { return nil }

type testADC struct {
	value uint16
	stuck bool
	panic bool
}

func (a *testADC) StartConversion() error {
	if a.panic {
		panic("adc wedged")
	}
	return nil
}
func (a *testADC) IsConversionDone() bool      { return !a.stuck }
func (a *testADC) ReadResult() (uint16, error) { return a.value, nil }

type testTouch struct{ levels [hal.TouchChannels]uint16 }

func (t *testTouch) Calibrate() error                   { return nil }
func (t *testTouch) ReadChannel(id int) (uint16, error) { return t.levels[id], nil }

type testAccel struct{}

func (testAccel) ReadByte(uint8) (byte, error) { return 0, nil }

type testPin struct{ level bool }

func (p *testPin) Name() string                               { return hal.ButtonPinName }
func (p *testPin) Caps() hal.GPIOCaps                         { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *testPin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *testPin) Read() (bool, error)                        { return p.level, nil }
func (p *testPin) Write(bool) error                           { return hal.ErrNotImplemented }

type testGPIO struct{ pins []hal.GPIOPin }

func (g testGPIO) PinCount() int          { return len(g.pins) }
func (g testGPIO) Pin(id int) hal.GPIOPin { return g.pins[id] }

type testHAL struct {
	log    *testLogger
	led    *testLED
	gpio   hal.GPIO
	adc    *testADC
	touch  *testTouch
	canvas *testCanvas
	grid   *hal.GridDisplay
}

func newTestHAL() *testHAL {
	c := &testCanvas{}
	h := &testHAL{
		log:    &testLogger{},
		led:    &testLED{},
		gpio:   testGPIO{pins: []hal.GPIOPin{&testPin{level: true}}},
		adc:    &testADC{value: 900},
		touch:  &testTouch{levels: [hal.TouchChannels]uint16{1000, 900, 900, 1000}},
		canvas: c,
		grid:   hal.NewGridDisplay(c),
	}
	return h
}

func (h *testHAL) Logger() hal.Logger               { return h.log }
func (h *testHAL) LED() hal.LED                     { return h.led }
func (h *testHAL) GPIO() hal.GPIO                   { return h.gpio }
func (h *testHAL) ADC() hal.ADC                     { return h.adc }
func (h *testHAL) Touch() hal.Touch                 { return h.touch }
func (h *testHAL) Accelerometer() hal.Accelerometer { return testAccel{} }
func (h *testHAL) Display() hal.CharDisplay         { return h.grid }

func line(h *testHAL, row int) string {
	return strings.TrimRight(h.grid.Lines()[row], " ")
}

func TestStepRendersMainMenu(t *testing.T) {
	h := newTestHAL()
	step := New(h, config.Default(), nil)
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := line(h, 0); got != "Welcome To Amazon" {
		t.Fatalf("row 0: got %q", got)
	}
	if !h.grid.Marked(2) || h.grid.Marked(3) {
		t.Fatalf("dial 900 should mark row 2 only")
	}
	if h.led.on {
		t.Fatalf("led on without a fault")
	}
	if !h.log.contains("starterkit ready") {
		t.Fatalf("missing ready log: %q", h.log.lines)
	}
}

func TestStepShowsFaultAndLightsLED(t *testing.T) {
	h := newTestHAL()
	cfg := config.Default()
	cfg.Dial.PollBudget = 50
	step := New(h, cfg, nil)

	h.adc.stuck = true
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := line(h, 2); got != "sensor unavailable" {
		t.Fatalf("row 2: got %q", got)
	}
	if !h.led.on {
		t.Fatalf("led off during a fault")
	}

	h.adc.stuck = false
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := line(h, 0); got != "Welcome To Amazon" {
		t.Fatalf("after recovery row 0: got %q", got)
	}
	if h.led.on {
		t.Fatalf("led still on after recovery")
	}
}

func TestMissingButtonIsAFaultNotAHalt(t *testing.T) {
	h := newTestHAL()
	h.gpio = testGPIO{}
	step := New(h, config.Default(), nil)
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !h.log.contains("button unavailable") {
		t.Fatalf("missing button warning: %q", h.log.lines)
	}
	if got := line(h, 2); got != "sensor unavailable" {
		t.Fatalf("row 2: got %q", got)
	}
}

func TestInvalidConfigHalts(t *testing.T) {
	h := newTestHAL()
	cfg := config.Default()
	cfg.Runner.TickHz = 0
	step := New(h, cfg, nil)

	err := step()
	if err == nil || !strings.HasPrefix(err.Error(), "halt: ") {
		t.Fatalf("got %v, want halt error", err)
	}
	if again := step(); again != err {
		t.Fatalf("halted step changed error: %v", again)
	}
	if !h.led.on || !h.log.contains("starterkit halted:") || !h.log.contains("tick_hz") {
		t.Fatalf("halt not reported: led=%v log=%q", h.led.on, h.log.lines)
	}
	if h.canvas.presents == 0 {
		t.Fatalf("halt screen not presented")
	}
}

func TestPanicIsRecoveredIntoHalt(t *testing.T) {
	h := newTestHAL()
	step := New(h, config.Default(), nil)
	h.adc.panic = true

	err := step()
	if err == nil || !strings.Contains(err.Error(), "panic: adc wedged") {
		t.Fatalf("got %v, want recovered panic", err)
	}
	if !h.log.contains("stack:") {
		t.Fatalf("stack not logged")
	}
}

func TestHaltLines(t *testing.T) {
	lines := haltLines(errors.Join(errors.New("first"), errors.New("second")), []byte("goroutine 1\n\nmain.main()\n"))
	want := []string{"starterkit halted:", "first", "second", "stack:", "goroutine 1", "main.main()"}
	if len(lines) != len(want) {
		t.Fatalf("got %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}
