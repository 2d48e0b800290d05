//go:build linux

package vtioctl

import (
	"unsafe"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/srlehn/termvt/internal/errors"
)

// Kernel issues the requests on real file descriptors.
type Kernel struct{}

func New() Kernel { return Kernel{} }

// do retries fn while it is interrupted by a signal.
func do(req Request, fn func() error) error {
	for {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return errors.Wrap(&RequestError{Request: req, Err: err}, 2)
	}
}

// ioctlPtr passes ptr as the argument of the request.
func ioctlPtr(fd uintptr, code uint, ptr unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(code), uintptr(ptr)); errno != 0 {
		return errno
	}
	return nil
}

func setInt(req Request) func(fd uintptr, arg int) error {
	return func(fd uintptr, arg int) error {
		return do(req, func() error { return unix.IoctlSetInt(int(fd), requests[req].code, arg) })
	}
}

// OpenQuery returns the first vt that is not opened by anyone.
func (Kernel) OpenQuery(fd uintptr) (int, error) {
	var n int
	err := do(OpenQuery, func() (err error) {
		n, err = unix.IoctlGetInt(int(fd), requests[OpenQuery].code)
		return err
	})
	if err != nil {
		return -1, err
	}
	return n, nil
}

func (Kernel) State(fd uintptr) (State, error) {
	var st State // same layout as struct vt_stat
	err := do(GetState, func() error {
		return ioctlPtr(fd, requests[GetState].code, unsafe.Pointer(&st))
	})
	return st, err
}

func (Kernel) Activate(fd uintptr, n int) error    { return setInt(Activate)(fd, n) }
func (Kernel) WaitActive(fd uintptr, n int) error  { return setInt(WaitActive)(fd, n) }
func (Kernel) Disallocate(fd uintptr, n int) error { return setInt(Disallocate)(fd, n) }

// LockSwitch disables switching vts by keyboard shortcut or VT_ACTIVATE
// from other processes.
func (Kernel) LockSwitch(fd uintptr) error   { return setInt(LockSwitch)(fd, 1) }
func (Kernel) UnlockSwitch(fd uintptr) error { return setInt(UnlockSwitch)(fd, 1) }

// Blank blanks or unblanks the console via TIOCLINUX. fd may be any vt.
func (Kernel) Blank(fd uintptr, blank bool) error {
	req := UnblankScreen
	if blank {
		req = BlankScreen
	}
	return do(req, func() error {
		// the kernel reads the subcode from the first byte
		arg := [4]byte{byte(requests[req].code)}
		return ioctlPtr(fd, unix.TIOCLINUX, unsafe.Pointer(&arg[0]))
	})
}

func (Kernel) GetAttr(fd uintptr) (*unix.Termios, error) {
	var attr *unix.Termios
	err := do(GetAttr, func() (err error) {
		attr, err = termios.Tcgetattr(fd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return attr, nil
}

func (Kernel) SetAttr(fd uintptr, attr *unix.Termios) error {
	if attr == nil {
		return errors.NilParam()
	}
	return do(SetAttr, func() error { return termios.Tcsetattr(fd, termios.TCSANOW, attr) })
}

// Flush discards queued data. queue is one of the TC*FLUSH selectors.
func (Kernel) Flush(fd uintptr, queue int) error {
	return do(Flush, func() error { return termios.Tcflush(fd, uintptr(queue)) })
}

// Mode returns the display mode of the vt behind fd.
func (Kernel) Mode(fd uintptr) (Mode, error) {
	var m int
	err := do(GetMode, func() (err error) {
		m, err = unix.IoctlGetInt(int(fd), requests[GetMode].code)
		return err
	})
	if err != nil {
		return -1, err
	}
	return Mode(m), nil
}

// Queue selectors for Flush.
const (
	FlushInput  = termios.TCIFLUSH
	FlushOutput = termios.TCOFLUSH
	FlushBoth   = termios.TCIOFLUSH
)
