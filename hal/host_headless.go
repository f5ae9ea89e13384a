//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64
	// Script is loaded into the simulated board before the first tick. With
	// Ticks == 0 the runner stops once the script has drained.
	Script []Command
	// LogOut receives logger output. Defaults to stderr.
	LogOut io.Writer
	// Feed, when set, delivers extra commands (e.g. from the serial bridge).
	// They are applied on the tick goroutine.
	Feed <-chan Command
}

// RunHeadless runs the firmware without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.LogOut == nil {
		cfg.LogOut = os.Stderr
	}

	h := newHost(cfg.LogOut)
	h.board.Load(cfg.Script)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	scripted := len(cfg.Script) > 0
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := tickOnce(h, step, cfg.Feed); err != nil {
				return err
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
			if cfg.Ticks == 0 && scripted && h.board.Idle() {
				return nil
			}
		}
	}
}

// tickOnce drains pending feed commands, advances the board and runs one
// firmware step.
func tickOnce(h *hostHAL, step func() error, feed <-chan Command) error {
	for drained := false; !drained && feed != nil; {
		select {
		case cmd, ok := <-feed:
			if !ok {
				drained = true
				break
			}
			if err := h.board.Apply(cmd); err != nil {
				h.logger.WriteLineString(err.Error())
			}
		default:
			drained = true
		}
	}
	if err := h.board.Step(); err != nil {
		return err
	}
	if step != nil {
		if err := step(); err != nil {
			return err
		}
	}
	h.board.EndTick()
	return nil
}
