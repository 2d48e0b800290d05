package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/srlehn/termvt"
	"github.com/srlehn/termvt/internal/errors"
)

func init() {
	rootCmd.AddCommand(currentCmd, switchCmd, lockCmd, unlockCmd, clearCmd, echoCmd, signalsCmd)
	signalsCmd.Flags().BoolVar(&signalsInterrupt, `intr`, false, `^C sends SIGINT`)
	signalsCmd.Flags().BoolVar(&signalsQuit, `quit`, false, `^\ sends SIGQUIT`)
	signalsCmd.Flags().BoolVar(&signalsSuspend, `susp`, false, `^Z sends SIGTSTP`)
}

var currentCmd = &cobra.Command{
	Use:   `current`,
	Short: `print the active vt`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(c *termvt.Console) error {
			n, err := c.CurrentNumber()
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		})
	},
}

var switchCmd = &cobra.Command{
	Use:   `switch <vt>`,
	Short: `activate a vt and wait for the switch`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(c *termvt.Console) error {
			n, err := termvt.ParseNumber(args[0])
			if err != nil {
				return err
			}
			return c.SwitchTo(n)
		})
	},
}

var lockCmd = &cobra.Command{
	Use:   `lock`,
	Short: `disable vt switching`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(c *termvt.Console) error { return c.LockSwitch(true) })
	},
}

var unlockCmd = &cobra.Command{
	Use:   `unlock`,
	Short: `enable vt switching`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(c *termvt.Console) error { return c.LockSwitch(false) })
	},
}

var clearCmd = &cobra.Command{
	Use:   `clear [vt]`,
	Short: `clear a vt (default: the active one)`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(withVT(args, 0, func(vt *termvt.VT) error { return vt.Clear() }))
	},
}

var echoCmd = &cobra.Command{
	Use:       `echo on|off [vt]`,
	Short:     `switch input echo of a vt (default: the active one)`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{`on`, `off`},
	Run: func(cmd *cobra.Command, args []string) {
		run(func(c *termvt.Console) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return withVT(args, 1, func(vt *termvt.VT) error { return vt.SetEcho(on) })(c)
		})
	},
}

var (
	signalsInterrupt bool
	signalsQuit      bool
	signalsSuspend   bool
)

var signalsCmd = &cobra.Command{
	Use:   `signals [vt]`,
	Short: `bind the signal keys of a vt, unset flags disable the key`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var sigs termvt.Signal
		if signalsInterrupt {
			sigs |= termvt.SignalInterrupt
		}
		if signalsQuit {
			sigs |= termvt.SignalQuit
		}
		if signalsSuspend {
			sigs |= termvt.SignalSuspend
		}
		run(withVT(args, 0, func(vt *termvt.VT) error { return vt.Signals(sigs) }))
	},
}

// withVT runs fn on the vt named by args[i] or the active vt.
func withVT(args []string, i int, fn func(vt *termvt.VT) error) consoleFunc {
	return func(c *termvt.Console) error {
		n, err := parseNumberArg(args, i, c)
		if err != nil {
			return err
		}
		vt, err := c.OpenVT(n)
		if err != nil {
			return err
		}
		defer vt.Close()
		return fn(vt)
	}
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case `on`:
		return true, nil
	case `off`:
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.Errorf(`expected on or off, got %q`, s)
	}
	return b, nil
}

func printf(format string, a ...any) { _, _ = fmt.Fprintf(os.Stdout, format, a...) }
