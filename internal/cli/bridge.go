//go:build !tinygo

package cli

import (
	"fmt"

	"starterkit/hal"

	"github.com/spf13/cobra"
)

func newBridgeCmd(o *options) *cobra.Command {
	var (
		headless bool
		list     bool
	)
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Drive the simulated board from a serial port",
		Long: `Read board commands, one per line, from a serial port and apply them
to the simulated sensors. The line format is the headless script format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := o.logger(cmd).With("component", "bridge")
			if list {
				ports, err := hal.ListPorts()
				if err != nil {
					return fmt.Errorf("bridge: list ports: %w", err)
				}
				for _, p := range ports {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return nil
			}

			feed, closePort, err := hal.OpenBridge(hal.BridgeConfig{
				Port: o.cfg.Bridge.Port,
				Baud: o.cfg.Bridge.Baud,
			}, func(err error) {
				log.Warn("skipping line", "err", err)
			})
			if err != nil {
				if ports, lerr := hal.ListPorts(); lerr == nil && len(ports) > 0 {
					return fmt.Errorf("%w (available: %v)", err, ports)
				}
				return err
			}
			defer closePort()
			log.Info("bridge open", "port", o.cfg.Bridge.Port, "baud", o.cfg.Bridge.Baud)

			if headless {
				return o.runHeadless(cmd, hal.HeadlessConfig{Feed: feed})
			}
			return o.runWindow(feed)
		},
	}
	cmd.Flags().StringP("port", "p", "", "serial port, e.g. /dev/ttyACM0")
	cmd.Flags().Int("baud", 115200, "serial baud rate")
	cmd.Flags().Int("hz", 60, "tick rate when headless")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without a window")
	cmd.Flags().BoolVar(&list, "list", false, "list serial ports and exit")
	return cmd
}
