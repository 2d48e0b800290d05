package termvt

import (
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/srlehn/termvt/internal/vtioctl"
)

// Gateway issues the kernel control requests. fd is the console control
// device for the vt requests and a vt device for Blank and the attribute
// requests.
type Gateway interface {
	// OpenQuery returns the first vt nobody has opened, or -1.
	OpenQuery(fd uintptr) (int, error)
	State(fd uintptr) (State, error)
	Activate(fd uintptr, n int) error
	WaitActive(fd uintptr, n int) error
	Disallocate(fd uintptr, n int) error
	LockSwitch(fd uintptr) error
	UnlockSwitch(fd uintptr) error
	Blank(fd uintptr, blank bool) error
	GetAttr(fd uintptr) (*unix.Termios, error)
	SetAttr(fd uintptr, attr *unix.Termios) error
	Flush(fd uintptr, queue int) error
	Mode(fd uintptr) (DisplayMode, error)
}

var _ Gateway = vtioctl.Kernel{}

// State is the kernel's vt state: the active vt, the vt that will receive
// a switch signal and the occupancy mask of vts 0-15.
type State = vtioctl.State

// DisplayMode tells text vts apart from vts taken over by a graphical
// session.
type DisplayMode = vtioctl.Mode

const (
	ModeText     = vtioctl.ModeText
	ModeGraphics = vtioctl.ModeGraphics
)

// RequestError is returned (wrapped) by the default Gateway.
type RequestError = vtioctl.RequestError

// Device is an opened vt device file.
type Device interface {
	io.ReadWriteCloser
	Fd() uintptr
}

var _ Device = (*os.File)(nil)

// DeviceOpener opens the vt device file at path for reading and writing.
type DeviceOpener func(path string) (Device, error)

