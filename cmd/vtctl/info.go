package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/srlehn/termvt"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   `info`,
	Short: `print the vt state of the console`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(infoFunc)
	},
}

func infoFunc(c *termvt.Console) error {
	st, err := c.State()
	if err != nil {
		return err
	}
	printf("active:   %d\n", st.Active)
	printf("in use:   %s\n", occupiedList(st.Occupied))

	if secs, err := c.BlankTimer(); err == nil {
		printf("blank:    %ds\n", secs)
	} else {
		printf("blank:    %v\n", err)
	}

	if vt, err := c.OpenVT(termvt.Number(st.Active)); err == nil {
		if mode, err := vt.DisplayMode(); err == nil {
			printf("mode:     %s\n", mode)
		}
		_ = vt.Close()
	}

	tty, err := os.Open(c.TTYPath(termvt.Number(st.Active)))
	if err != nil {
		// not fatal, the vt may not be readable for us
		return nil
	}
	defer tty.Close()
	if fd := int(tty.Fd()); term.IsTerminal(fd) {
		if cols, rows, err := term.GetSize(fd); err == nil {
			printf("size:     %dx%d\n", cols, rows)
		}
	}
	return nil
}

// occupiedList lists the vts set in the VT_GETSTATE mask.
func occupiedList(mask uint16) string {
	var nums []string
	for n := termvt.Number(1); n < 16; n++ {
		if mask&(1<<n) != 0 {
			nums = append(nums, n.String())
		}
	}
	if len(nums) == 0 {
		return `-`
	}
	return strings.Join(nums, ` `)
}
