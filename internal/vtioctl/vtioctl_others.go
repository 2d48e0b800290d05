//go:build !linux

package vtioctl

import (
	"golang.org/x/sys/unix"

	"github.com/srlehn/termvt/internal/consts"
	"github.com/srlehn/termvt/internal/errors"
)

// Kernel reports every request as unsupported outside of Linux.
type Kernel struct{}

func New() Kernel { return Kernel{} }

func unsupported(req Request) error {
	return errors.Wrap(&RequestError{Request: req, Err: consts.ErrPlatformNotSupported}, 1)
}

func (Kernel) OpenQuery(fd uintptr) (int, error)            { return -1, unsupported(OpenQuery) }
func (Kernel) State(fd uintptr) (State, error)              { return State{}, unsupported(GetState) }
func (Kernel) Activate(fd uintptr, n int) error             { return unsupported(Activate) }
func (Kernel) WaitActive(fd uintptr, n int) error           { return unsupported(WaitActive) }
func (Kernel) Disallocate(fd uintptr, n int) error          { return unsupported(Disallocate) }
func (Kernel) LockSwitch(fd uintptr) error                  { return unsupported(LockSwitch) }
func (Kernel) UnlockSwitch(fd uintptr) error                { return unsupported(UnlockSwitch) }
func (Kernel) Blank(fd uintptr, blank bool) error           { return unsupported(BlankScreen) }
func (Kernel) GetAttr(fd uintptr) (*unix.Termios, error)    { return nil, unsupported(GetAttr) }
func (Kernel) SetAttr(fd uintptr, attr *unix.Termios) error { return unsupported(SetAttr) }
func (Kernel) Flush(fd uintptr, queue int) error            { return unsupported(Flush) }
func (Kernel) Mode(fd uintptr) (Mode, error)                { return -1, unsupported(GetMode) }

const (
	FlushInput  = 0
	FlushOutput = 1
	FlushBoth   = 2
)
