package termvt

import (
	"log/slog"

	"github.com/srlehn/termvt/internal/logx"
)

// Blank blanks (true) or unblanks the console.
//
// The kernel only blanks while the console blank timer is set. A disabled
// timer is set to 1 for the duration of the request and disabled again
// afterwards. A timer that is already set is left untouched.
func (v *VT) Blank(blank bool) error {
	return v.locked(func(st *openedVT) error {
		if !blank {
			return v.console.gateway.Blank(st.dev.Fd(), false)
		}
		timer, err := v.console.BlankTimer()
		if err != nil {
			return err
		}
		raise := timer == 0
		if raise {
			if err := v.setBlankTimer(st, 1); err != nil {
				return err
			}
		}
		errBlank := v.console.gateway.Blank(st.dev.Fd(), true)
		if raise {
			errRestore := v.setBlankTimer(st, 0)
			if errBlank == nil {
				return errRestore
			}
			logx.IsErr(errRestore, v.console, slog.LevelWarn, `vt`, v.number)
		}
		return errBlank
	})
}
