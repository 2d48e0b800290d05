package termvt

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/srlehn/termvt/internal/consts"
	"github.com/srlehn/termvt/internal/errors"
	"github.com/srlehn/termvt/internal/logx"
	"github.com/srlehn/termvt/internal/vtioctl"
)

// Ownership decides what closing a VT does.
type Ownership int

const (
	// Borrowed vts are left allocated on Close.
	Borrowed Ownership = iota
	// Owned vts are deallocated on Close.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Borrowed:
		return `borrowed`
	case Owned:
		return `owned`
	}
	return fmt.Sprintf(`ownership(%d)`, int(o))
}

const (
	seqClear = "\033[2J\033[H"

	// seqBlankTimer takes the blank interval (in minutes)
	seqBlankTimer = "\033[9;%d]"
)

// VT is a handle to a virtual terminal. The device file is opened on first
// use and never replaced afterwards. The terminal attributes are read once
// on opening and kept in a snapshot that is written back by the attribute
// setters.
type VT struct {
	console   *Console
	number    Number
	ownership Ownership

	mu     sync.Mutex
	opened *openedVT // nil until first use
	closed bool
}

type openedVT struct {
	dev  Device
	attr unix.Termios
}

func newVT(c *Console, n Number, o Ownership) *VT {
	return &VT{console: c, number: n, ownership: o}
}

// VTNumber returns -1 for a nil VT.
func (v *VT) VTNumber() Number {
	if v == nil {
		return -1
	}
	return v.number
}

func (v *VT) Number() Number { return v.VTNumber() }

func (v *VT) Ownership() Ownership {
	if v == nil {
		return Borrowed
	}
	return v.ownership
}

// init opens an allocated vt (reusing dev if it was opened during the
// allocation) and applies the default attributes.
func (v *VT) init(dev Device) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	st, err := v.open(dev)
	if err != nil {
		return err
	}
	st.attr.Iflag |= unix.IGNBRK
	st.attr.Lflag &^= unix.ECHO | unix.ISIG
	st.attr.Cc[unix.VEOF] = 0
	return v.commit(st)
}

// open moves the vt into the opened state. v.mu must be held.
func (v *VT) open(dev Device) (*openedVT, error) {
	if v == nil || v.console == nil {
		return nil, errors.NilReceiver()
	}
	if v.closed {
		return nil, errors.New(consts.ErrClosed)
	}
	if v.opened != nil {
		if dev != nil && dev != v.opened.dev {
			_ = dev.Close()
		}
		return v.opened, nil
	}
	if dev == nil {
		var err error
		dev, err = v.console.openDevice(v.console.ttyPath(v.number))
		if err != nil {
			return nil, err
		}
	}
	attr, err := v.console.gateway.GetAttr(dev.Fd())
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	v.opened = &openedVT{dev: dev, attr: *attr}
	logx.Debug(`opened vt`, v.console, `vt`, v.number, `ownership`, v.ownership)
	return v.opened, nil
}

func (v *VT) ensureOpen() (*openedVT, error) { return v.open(nil) }

// device opens the vt if needed and returns its device without holding the lock.
func (v *VT) device() (Device, error) {
	if v == nil {
		return nil, errors.NilReceiver()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	st, err := v.ensureOpen()
	if err != nil {
		return nil, err
	}
	return st.dev, nil
}

func (v *VT) commit(st *openedVT) error {
	return v.console.gateway.SetAttr(st.dev.Fd(), &st.attr)
}

func (v *VT) Read(p []byte) (int, error) {
	dev, err := v.device()
	if err != nil {
		return 0, err
	}
	return dev.Read(p)
}

func (v *VT) Write(p []byte) (int, error) {
	dev, err := v.device()
	if err != nil {
		return 0, err
	}
	return dev.Write(p)
}

func (v *VT) writeSeq(st *openedVT, seq string) error {
	_, err := st.dev.Write([]byte(seq))
	return errors.New(err)
}

// locked opens the vt and runs fn with the lock held.
func (v *VT) locked(fn func(st *openedVT) error) error {
	if v == nil {
		return errors.NilReceiver()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	st, err := v.ensureOpen()
	if err != nil {
		return err
	}
	return fn(st)
}

// Switch makes v the active vt. See (*Console).SwitchTo.
func (v *VT) Switch() error {
	if v == nil || v.console == nil {
		return errors.NilReceiver()
	}
	return v.console.SwitchTo(v)
}

// Clear clears the screen and moves the cursor home.
func (v *VT) Clear() error {
	return v.locked(func(st *openedVT) error { return v.writeSeq(st, seqClear) })
}

// SetBlankTimer sets the console wide blank interval. The kernel reads the
// value in minutes, 0 disables blanking.
func (v *VT) SetBlankTimer(minutes uint32) error {
	return v.locked(func(st *openedVT) error { return v.setBlankTimer(st, minutes) })
}

func (v *VT) setBlankTimer(st *openedVT, minutes uint32) error {
	return v.writeSeq(st, fmt.Sprintf(seqBlankTimer, minutes))
}

// SetEcho enables or disables input echo. The attributes are always
// written, even if echo is already in the requested state.
func (v *VT) SetEcho(echo bool) error {
	return v.locked(func(st *openedVT) error {
		if echo {
			st.attr.Lflag |= unix.ECHO
		} else {
			st.attr.Lflag &^= unix.ECHO
		}
		return v.commit(st)
	})
}

// Signal is a set of signals generated by control characters.
type Signal uint8

const (
	SignalInterrupt Signal = 1 << iota // ^C, SIGINT
	SignalQuit                         // ^\, SIGQUIT
	SignalSuspend                      // ^Z, SIGTSTP

	SignalNone Signal = 0
	SignalAll         = SignalInterrupt | SignalQuit | SignalSuspend
)

// signalChars holds the usual key of each signal. The characters are
// octal: ^C = 0o3, ^\ = 0o34 (28), ^Z = 0o32 (26).
var signalChars = [...]struct {
	sig  Signal
	cc   int
	char uint8
}{
	{SignalInterrupt, unix.VINTR, 0o3},
	{SignalQuit, unix.VQUIT, 0o34},
	{SignalSuspend, unix.VSUSP, 0o32},
}

// Signals binds the control characters of the signals in sigs to their
// usual keys and disables the others. Signal generation is turned on,
// newly allocated vts have it turned off.
func (v *VT) Signals(sigs Signal) error {
	return v.locked(func(st *openedVT) error {
		for _, sc := range signalChars {
			if sigs&sc.sig != 0 {
				st.attr.Cc[sc.cc] = sc.char
			} else {
				st.attr.Cc[sc.cc] = 0
			}
		}
		st.attr.Lflag |= unix.ISIG
		return v.commit(st)
	})
}

// FlushQueue selects the queues discarded by Flush.
type FlushQueue int

const (
	FlushInput  FlushQueue = vtioctl.FlushInput
	FlushOutput FlushQueue = vtioctl.FlushOutput
	FlushBoth   FlushQueue = vtioctl.FlushBoth
)

// Flush discards data received but not read and/or written but not transmitted.
func (v *VT) Flush(q FlushQueue) error {
	return v.locked(func(st *openedVT) error {
		return v.console.gateway.Flush(st.dev.Fd(), int(q))
	})
}

// Attributes returns a copy of the cached terminal attributes.
func (v *VT) Attributes() (unix.Termios, error) {
	var attr unix.Termios
	err := v.locked(func(st *openedVT) error { attr = st.attr; return nil })
	return attr, err
}

// DisplayMode reports whether the vt shows text or is in graphics mode.
func (v *VT) DisplayMode() (DisplayMode, error) {
	mode := DisplayMode(-1)
	err := v.locked(func(st *openedVT) error {
		m, err := v.console.gateway.Mode(st.dev.Fd())
		mode = m
		return err
	})
	return mode, err
}

// Close closes the device. An owned vt is deallocated afterwards, even if
// earlier operations failed. Deallocation errors are not returned, see
// SetReleaseHook.
func (v *VT) Close() error {
	if v == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	var err error
	if v.opened != nil {
		// the kernel refuses to deallocate vts which are still open
		err = errors.New(v.opened.dev.Close())
		v.opened = nil
	}
	if v.ownership == Owned {
		v.console.release(v.number)
	}
	return err
}
