package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/srlehn/termvt"
	"github.com/srlehn/termvt/internal/errors"
)

func init() {
	rootCmd.AddCommand(blankCmd, blankTimerCmd)
}

var blankCmd = &cobra.Command{
	Use:       `blank on|off`,
	Short:     `blank or unblank the console`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{`on`, `off`},
	Run: func(cmd *cobra.Command, args []string) {
		run(func(c *termvt.Console) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return withVT(nil, 0, func(vt *termvt.VT) error { return vt.Blank(on) })(c)
		})
	},
}

var blankTimerCmd = &cobra.Command{
	Use:   `blank-timer [minutes]`,
	Short: `print or set the console blank interval`,
	Long:  "without argument the interval is printed in seconds,\nthe interval is set in minutes, 0 disables blanking",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(c *termvt.Console) error {
			if len(args) == 0 {
				secs, err := c.BlankTimer()
				if err != nil {
					return err
				}
				printf("%d\n", secs)
				return nil
			}
			minutes, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return errors.New(err)
			}
			return withVT(nil, 0, func(vt *termvt.VT) error { return vt.SetBlankTimer(uint32(minutes)) })(c)
		})
	},
}
