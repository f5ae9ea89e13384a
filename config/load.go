//go:build !tinygo

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. STARTERKIT_RUNNER_TICK_HZ.
const EnvPrefix = "starterkit"

// DefaultFile is read when no config file is given and it exists.
const DefaultFile = "starterkit"

// NewViper returns a viper instance seeded with Default and wired to the
// environment. A non-empty file must exist; otherwise ./starterkit.{toml,yaml}
// is read if present.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	return v, nil
}

// Load decodes v over the defaults and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so env overrides are seen by Unmarshal.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("dial.timeout", c.Dial.Timeout)
	v.SetDefault("dial.poll_budget", c.Dial.PollBudget)
	v.SetDefault("button.debounce_polls", c.Button.DebouncePolls)
	for name, p := range map[string]PadConfig{
		"right":       c.Touch.Right,
		"scroll_up":   c.Touch.ScrollUp,
		"scroll_down": c.Touch.ScrollDown,
		"left":        c.Touch.Left,
	} {
		v.SetDefault("touch."+name+".touch", p.Touch)
		v.SetDefault("touch."+name+".release", p.Release)
		v.SetDefault("touch."+name+".rising", p.Rising)
	}
	v.SetDefault("touch.repeat", c.Touch.Repeat)
	v.SetDefault("tilt.upside_down_z", c.Tilt.UpsideDownZ)
	v.SetDefault("tilt.band_edges", c.Tilt.BandEdges)
	v.SetDefault("menu.main_bands", c.Menu.MainBands)
	v.SetDefault("menu.men_bands", c.Menu.MenBands)
	v.SetDefault("runner.tick_hz", c.Runner.TickHz)
	v.SetDefault("runner.log_level", c.Runner.LogLevel)
	v.SetDefault("runner.scale", c.Runner.Scale)
	v.SetDefault("bridge.port", c.Bridge.Port)
	v.SetDefault("bridge.baud", c.Bridge.Baud)
}
