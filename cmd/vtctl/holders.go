package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/srlehn/termvt"
	"github.com/srlehn/termvt/internal/errors"
	"github.com/srlehn/termvt/internal/procextra"
)

func init() {
	rootCmd.AddCommand(holdersCmd)
}

var holdersCmd = &cobra.Command{
	Use:   `holders [vt]`,
	Short: `list the processes that keep a vt open (default: the active one)`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(c *termvt.Console) error {
			n, err := parseNumberArg(args, 0, c)
			if err != nil {
				return err
			}
			holders, err := procextra.HoldersOf(cmd.Context(), c.TTYPath(n))
			if err != nil {
				return err
			}
			printHolders(os.Stdout, holders)
			return nil
		})
	},
}

func printHolders(w *os.File, holders []procextra.Holder) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tPPID\tNAME\tFDS")
	for _, h := range holders {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%v\n", h.PID, h.PPID, h.Name, h.FDs)
	}
	_ = tw.Flush()
}

// reportRelease is the release hook of vtctl. A vt that is still held open
// by another process can't be deallocated, the holders are listed then.
func reportRelease(c **termvt.Console) func(termvt.Number, error) {
	return func(n termvt.Number, err error) {
		if silentFlag {
			return
		}
		fmt.Fprintf(os.Stderr, "vt %d was not released: %v\n", n, err)
		if !errors.Is(err, unix.EBUSY) || c == nil || *c == nil {
			return
		}
		holders, errHolders := procextra.HoldersOf(context.Background(), (*c).TTYPath(n))
		if errHolders != nil || len(holders) == 0 {
			return
		}
		fmt.Fprintf(os.Stderr, "vt %d is held open by:\n", n)
		printHolders(os.Stderr, holders)
	}
}
