package app

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"starterkit/config"
	"starterkit/firmware/menu"
	"starterkit/firmware/screen"
	"starterkit/firmware/sensor"
	"starterkit/hal"
)

type system struct {
	h       hal.HAL
	log     *slog.Logger
	panel   *sensor.Panel
	machine *menu.Machine
	ledOn   bool
}

// NewLogger returns a text slog logger writing through the HAL logger.
func NewLogger(h hal.HAL, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(hal.NewLogWriter(h.Logger()), &slog.HandlerOptions{Level: level}))
}

// New builds the firmware on h and returns the per-tick step. If setup
// fails the halt screen is drawn and every step returns the error.
func New(h hal.HAL, cfg config.Config, log *slog.Logger) func() error {
	if log == nil {
		level, _ := config.ParseLevel(cfg.Runner.LogLevel)
		log = NewLogger(h, level)
	}

	sys, err := newSystem(h, cfg, log)
	if err != nil {
		herr := Halt(h, err, nil)
		return func() error { return herr }
	}

	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = Halt(h, fmt.Errorf("panic: %v", r), debug.Stack())
			}
		}()
		return sys.step()
	}
}

// Run builds the firmware and ticks it forever at cfg.Runner.TickHz
// (TinyGo/native entrypoint). After a halt it blocks.
func Run(h hal.HAL, cfg config.Config) {
	step := New(h, cfg, nil)

	hz := cfg.Runner.TickHz
	if hz <= 0 {
		hz = 60
	}
	t := time.NewTicker(time.Second / time.Duration(hz))
	defer t.Stop()
	for range t.C {
		if err := step(); err != nil {
			select {}
		}
	}
}

func newSystem(h hal.HAL, cfg config.Config, log *slog.Logger) (*system, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := screen.NewRenderer(h.Display())
	if err != nil {
		return nil, err
	}

	panel := &sensor.Panel{
		Dial:  sensor.NewDial(h.ADC(), cfg.Dial.Timeout, cfg.Dial.PollBudget),
		Touch: sensor.NewTouchpad(h.Touch(), cfg.Thresholds()),
		Tilt:  sensor.NewTilt(h.Accelerometer(), cfg.TiltLimits()),
	}
	panel.Touch.Repeat = cfg.Touch.Repeat

	// A missing button is reported as a fault each tick, not a halt.
	btn, err := sensor.NewButton(hal.FindPin(h.GPIO(), hal.ButtonPinName), cfg.Button.DebouncePolls)
	if err != nil {
		log.Warn("button unavailable", "err", err)
	} else {
		panel.Button = btn
	}

	m, err := menu.New(menu.Catalog(cfg.MainBands(), cfg.MenBands()), r, log)
	if err != nil {
		return nil, err
	}

	log.Info("starterkit ready", "tick_hz", cfg.Runner.TickHz)
	return &system{h: h, log: log, panel: panel, machine: m}, nil
}

func (s *system) step() error {
	sample := s.panel.Sample()
	s.indicate(sample.Faulted() != 0)
	return s.machine.Step(sample)
}

// indicate lights the LED while any sensor is faulted.
func (s *system) indicate(fault bool) {
	led := s.h.LED()
	if led == nil || fault == s.ledOn {
		return
	}
	if fault {
		led.High()
	} else {
		led.Low()
	}
	s.ledOn = fault
}
