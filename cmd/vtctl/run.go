//go:build linux

package main

import (
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/srlehn/termvt"
	"github.com/srlehn/termvt/internal/errors"
	"github.com/srlehn/termvt/internal/logx"
)

var (
	runMinFlag      int
	runNoSwitchFlag bool
	runSignalsFlag  bool
)

func init() {
	runCmd.Flags().IntVarP(&runMinFlag, `min`, `m`, 0, `lowest acceptable vt number`)
	runCmd.Flags().BoolVarP(&runNoSwitchFlag, `no-switch`, `n`, false, `don't switch to the new vt`)
	runCmd.Flags().BoolVar(&runSignalsFlag, `signals`, true, `enable ^C, ^\ and ^Z on the new vt`)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   `run [flags] -- <command> [args...]`,
	Short: `run a command on a newly allocated vt`,
	Long: "run allocates a free vt, starts the command in a new session with the vt as\n" +
		"controlling terminal and switches to it. When the command exits, the previous\n" +
		"vt is activated again and the allocated vt is released.",
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(runFunc(args))
	},
}

func runFunc(args []string) consoleFunc {
	return func(c *termvt.Console) error {
		minVT, err := termvt.NewNumber(runMinFlag)
		if err != nil {
			return err
		}
		prev, err := c.CurrentNumber()
		if err != nil {
			return err
		}
		vt, err := c.NewVTWithMinimum(minVT)
		if err != nil {
			return err
		}
		defer vt.Close()
		if err := vt.Clear(); err != nil {
			return err
		}
		if runSignalsFlag {
			if err := vt.Signals(termvt.SignalAll); err != nil {
				return err
			}
		}

		tty, err := os.OpenFile(c.TTYPath(vt), os.O_RDWR, 0)
		if err != nil {
			return errors.New(err)
		}
		defer tty.Close()
		if cols, rows, err := term.GetSize(int(tty.Fd())); err == nil {
			logx.Info(`starting command`, c, `vt`, vt.Number(), `cols`, cols, `rows`, rows, `cmd`, args)
		}

		child := exec.Command(args[0], args[1:]...)
		child.Stdin, child.Stdout, child.Stderr = tty, tty, tty
		// the vt (fd 0 of the child) becomes the controlling terminal of a new session
		child.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true, Ctty: 0}
		if err := child.Start(); err != nil {
			return errors.New(err)
		}

		if !runNoSwitchFlag {
			if err := vt.Switch(); err != nil {
				_ = child.Process.Kill()
				_ = child.Wait()
				return err
			}
			// the kernel can't deallocate the active vt
			defer func() {
				logx.IsErr(c.SwitchTo(prev), c, slog.LevelWarn, `vt`, prev)
			}()
		}

		if err := child.Wait(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				logx.Info(`command exited`, c, `vt`, vt.Number(), `code`, exitErr.ExitCode())
			}
			return errors.New(err)
		}
		return nil
	}
}
