// Package config holds every tunable of the firmware: sensor thresholds,
// dial band tables, timeouts and runner settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"starterkit/firmware/sensor"
)

type Config struct {
	Dial   DialConfig   `mapstructure:"dial"`
	Button ButtonConfig `mapstructure:"button"`
	Touch  TouchConfig  `mapstructure:"touch"`
	Tilt   TiltConfig   `mapstructure:"tilt"`
	Menu   MenuConfig   `mapstructure:"menu"`
	Runner RunnerConfig `mapstructure:"runner"`
	Bridge BridgeConfig `mapstructure:"bridge"`
}

type DialConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	PollBudget int           `mapstructure:"poll_budget"`
}

type ButtonConfig struct {
	DebouncePolls int `mapstructure:"debounce_polls"`
}

type PadConfig struct {
	Touch   uint16 `mapstructure:"touch"`
	Release uint16 `mapstructure:"release"`
	Rising  bool   `mapstructure:"rising"`
}

type TouchConfig struct {
	Right      PadConfig `mapstructure:"right"`
	ScrollUp   PadConfig `mapstructure:"scroll_up"`
	ScrollDown PadConfig `mapstructure:"scroll_down"`
	Left       PadConfig `mapstructure:"left"`
	Repeat     bool      `mapstructure:"repeat"`
}

type TiltConfig struct {
	UpsideDownZ int16   `mapstructure:"upside_down_z"`
	BandEdges   []int16 `mapstructure:"band_edges"`
}

type MenuConfig struct {
	MainBands []uint16 `mapstructure:"main_bands"`
	MenBands  []uint16 `mapstructure:"men_bands"`
}

type RunnerConfig struct {
	TickHz   int    `mapstructure:"tick_hz"`
	LogLevel string `mapstructure:"log_level"`
	Scale    int    `mapstructure:"scale"`
}

type BridgeConfig struct {
	Port string `mapstructure:"port"`
	Baud int    `mapstructure:"baud"`
}

// Default returns the board's stock settings.
func Default() Config {
	th := sensor.DefaultThresholds
	return Config{
		Dial: DialConfig{
			Timeout:    5 * time.Millisecond,
			PollBudget: 10000,
		},
		Button: ButtonConfig{DebouncePolls: sensor.DefaultDebouncePolls},
		Touch: TouchConfig{
			Right:      padConfig(th.Right),
			ScrollUp:   padConfig(th.ScrollUp),
			ScrollDown: padConfig(th.ScrollDown),
			Left:       padConfig(th.Left),
		},
		Tilt: TiltConfig{
			UpsideDownZ: sensor.DefaultTilt.UpsideDownZ,
			BandEdges:   append([]int16(nil), sensor.DefaultTilt.BandEdges...),
		},
		Menu: MenuConfig{
			MainBands: append([]uint16(nil), sensor.MainBands...),
			MenBands:  append([]uint16(nil), sensor.MenBands...),
		},
		Runner: RunnerConfig{
			TickHz:   60,
			LogLevel: "info",
			Scale:    4,
		},
		Bridge: BridgeConfig{Baud: 115200},
	}
}

func padConfig(p sensor.PadThreshold) PadConfig {
	return PadConfig{Touch: p.Touch, Release: p.Release, Rising: p.Rising}
}

func (p PadConfig) threshold() sensor.PadThreshold {
	return sensor.PadThreshold{Touch: p.Touch, Release: p.Release, Rising: p.Rising}
}

func (p PadConfig) validate(name string) error {
	if p.Rising && p.Release > p.Touch {
		return fmt.Errorf("touch.%s: release %d above touch %d", name, p.Release, p.Touch)
	}
	if !p.Rising && p.Release < p.Touch {
		return fmt.Errorf("touch.%s: release %d below touch %d", name, p.Release, p.Touch)
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Dial.Timeout <= 0 && c.Dial.PollBudget <= 0 {
		errs = append(errs, errors.New("dial: timeout or poll_budget must bound the conversion wait"))
	}
	if c.Button.DebouncePolls < 1 {
		errs = append(errs, fmt.Errorf("button.debounce_polls: %d, want >= 1", c.Button.DebouncePolls))
	}
	errs = append(errs,
		c.Touch.Right.validate("right"),
		c.Touch.ScrollUp.validate("scroll_up"),
		c.Touch.ScrollDown.validate("scroll_down"),
		c.Touch.Left.validate("left"),
	)
	if len(c.Tilt.BandEdges) != 4 {
		errs = append(errs, fmt.Errorf("tilt.band_edges: %d edges, want 4", len(c.Tilt.BandEdges)))
	}
	for i := 1; i < len(c.Tilt.BandEdges); i++ {
		if c.Tilt.BandEdges[i] <= c.Tilt.BandEdges[i-1] {
			errs = append(errs, fmt.Errorf("tilt.band_edges: not ascending at %d", i))
			break
		}
	}
	if err := c.MainBands().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("menu.main_bands: %w", err))
	} else if len(c.Menu.MainBands) != 4 {
		errs = append(errs, fmt.Errorf("menu.main_bands: %d bands, want 4", len(c.Menu.MainBands)))
	}
	if err := c.MenBands().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("menu.men_bands: %w", err))
	} else if len(c.Menu.MenBands) != 6 {
		errs = append(errs, fmt.Errorf("menu.men_bands: %d bands, want 6", len(c.Menu.MenBands)))
	}
	if c.Runner.TickHz <= 0 {
		errs = append(errs, fmt.Errorf("runner.tick_hz: %d, want > 0", c.Runner.TickHz))
	}
	if _, err := ParseLevel(c.Runner.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) Thresholds() sensor.Thresholds {
	return sensor.Thresholds{
		Right:      c.Touch.Right.threshold(),
		ScrollUp:   c.Touch.ScrollUp.threshold(),
		ScrollDown: c.Touch.ScrollDown.threshold(),
		Left:       c.Touch.Left.threshold(),
	}
}

func (c Config) TiltLimits() sensor.TiltConfig {
	return sensor.TiltConfig{UpsideDownZ: c.Tilt.UpsideDownZ, BandEdges: c.Tilt.BandEdges}
}

func (c Config) MainBands() sensor.Bands { return sensor.Bands(c.Menu.MainBands) }
func (c Config) MenBands() sensor.Bands  { return sensor.Bands(c.Menu.MenBands) }

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("runner.log_level: unknown level %q", s)
}
