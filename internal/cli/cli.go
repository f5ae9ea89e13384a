//go:build !tinygo

// Package cli is the host command line: a desktop window, a headless runner
// driven by scripts, and a serial bridge feeding real sensor readings into
// the simulated board.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"starterkit/app"
	"starterkit/config"
	"starterkit/hal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags onto config keys. A flag given on the
// command line wins over the config file and the environment.
var flagKeys = map[string]string{
	"log-level": "runner.log_level",
	"scale":     "runner.scale",
	"hz":        "runner.tick_hz",
	"port":      "bridge.port",
	"baud":      "bridge.baud",
}

type options struct {
	cfgFile string
	cfg     config.Config
}

// NewRootCmd builds the starterkit command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "starterkit",
		Short: "Catalog menu firmware for the sensor starter kit",
		Long: `starterkit runs the catalog menu firmware against a simulated board.
The dial, push-button, touch pads and accelerometer are driven from the
keyboard (window), a script (headless) or a serial port (bridge).`,
		SilenceUsage:      true,
		PersistentPreRunE: o.load,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runWindow(nil)
		},
	}
	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default is ./starterkit.toml if present)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().Int("scale", 4, "window pixel scale")

	root.AddCommand(
		newRunCmd(o),
		newHeadlessCmd(o),
		newBridgeCmd(o),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the desktop window (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runWindow(nil)
		},
	}
}

// load reads the config file and environment, then lays the flags of cmd
// over them.
func (o *options) load(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(o.cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

func (o *options) newApp(h hal.HAL) func() error {
	return app.New(h, o.cfg, nil)
}

func (o *options) runWindow(feed <-chan hal.Command) error {
	return hal.RunWindow(o.newApp, hal.WindowConfig{
		Scale: o.cfg.Runner.Scale,
		Feed:  feed,
	})
}

func (o *options) runHeadless(cmd *cobra.Command, hc hal.HeadlessConfig) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	hc.Hz = o.cfg.Runner.TickHz
	hc.LogOut = cmd.ErrOrStderr()
	err := hal.RunHeadless(ctx, o.newApp, hc)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// logger is the host-side logger for the command itself, separate from the
// firmware's own log stream.
func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level, _ := config.ParseLevel(o.cfg.Runner.LogLevel)
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
