//go:build !tinygo

package cli

import (
	"fmt"
	"os"

	"starterkit/hal"

	"github.com/spf13/cobra"
)

func newHeadlessCmd(o *options) *cobra.Command {
	var (
		ticks  uint64
		script string
	)
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run without a window, optionally driven by a script",
		Long: `Run the firmware on the simulated board without opening a window.
With --script the board is driven by the commands in the file, and the run
stops once they have all been applied unless --ticks says otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cmds []hal.Command
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("headless: %w", err)
				}
				defer f.Close()
				if cmds, err = hal.ParseScript(f); err != nil {
					return fmt.Errorf("headless: %s: %w", script, err)
				}
			}
			return o.runHeadless(cmd, hal.HeadlessConfig{Ticks: ticks, Script: cmds})
		},
	}
	cmd.Flags().Uint64Var(&ticks, "ticks", 0, "stop after N ticks (0 = until the script drains, or forever)")
	cmd.Flags().Int("hz", 60, "tick rate")
	cmd.Flags().StringVarP(&script, "script", "s", "", "board command script")
	return cmd
}
