package termvt

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/containerd/console"
	"golang.org/x/sys/unix"

	"github.com/srlehn/termvt/internal/consts"
	"github.com/srlehn/termvt/internal/errors"
	"github.com/srlehn/termvt/internal/logx"
)

var (
	ErrNegativeNumber       = consts.ErrNegativeNumber
	ErrNotAConsole          = consts.ErrNotAConsole
	ErrClosed               = consts.ErrClosed
	ErrMalformedBlankTimer  = consts.ErrMalformedBlankTimer
	ErrNoFreeVT             = consts.ErrNoFreeVT
	ErrPlatformNotSupported = consts.ErrPlatformNotSupported
)

// Console is a handle to the console control device. All vt requests of an
// allocation session go through one Console. It is not safe for concurrent use.
type Console struct {
	file           console.Console
	consolePath    string
	ttyPath        func(Number) string
	blankTimerPath string
	gateway        Gateway
	openDevice     DeviceOpener
	onRelease      func(Number, error)
	logger         *slog.Logger
}

var _ logx.LoggerProvider = (*Console)(nil)

// Open opens the console control device. It fails with ErrNotAConsole if
// the device isn't a Linux console.
func Open(opts ...Option) (*Console, error) {
	c := &Console{}
	if err := c.setOptions(append([]Option{setDefaults}, opts...)...); err != nil {
		return nil, err
	}
	f, err := openNoCTTY(c.consolePath)
	if err != nil {
		return nil, err
	}
	cons, err := console.ConsoleFromFile(f)
	if err != nil {
		_ = f.Close()
		if errors.Is(err, console.ErrNotAConsole) {
			return nil, errors.New(fmt.Errorf(`%s: %w`, c.consolePath, consts.ErrNotAConsole))
		}
		return nil, errors.New(err)
	}
	// ptys and serial ttys pass the tty check but know no KD requests
	mode, err := c.gateway.Mode(cons.Fd())
	if err != nil {
		_ = cons.Close()
		if errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) {
			return nil, errors.New(fmt.Errorf(`%s: %w: %w`, c.consolePath, consts.ErrNotAConsole, err))
		}
		return nil, err
	}
	c.file = cons
	logx.Debug(`opened console`, c, `path`, c.consolePath, `mode`, mode)
	return c, nil
}

// Close closes the control device. Vts obtained from c must not be used
// afterwards except for closing them.
func (c *Console) Close() error {
	if c == nil || c.file == nil {
		return nil
	}
	f := c.file
	c.file = nil
	return errors.New(f.Close())
}

func (c *Console) Logger() *slog.Logger {
	if c == nil {
		return nil
	}
	return c.logger
}

func (c *Console) fd() (uintptr, error) {
	if c == nil {
		return 0, errors.NilReceiver()
	}
	if c.file == nil {
		return 0, errors.New(consts.ErrClosed)
	}
	return c.file.Fd(), nil
}

// TTYPath returns the device path of vt n.
func (c *Console) TTYPath(n Numberer) string {
	if c == nil || c.ttyPath == nil || n == nil {
		return ``
	}
	return c.ttyPath(n.VTNumber())
}

// State returns the kernel's vt state.
func (c *Console) State() (State, error) {
	fd, err := c.fd()
	if err != nil {
		return State{}, err
	}
	return c.gateway.State(fd)
}

// CurrentNumber returns the number of the active vt.
func (c *Console) CurrentNumber() (Number, error) {
	st, err := c.State()
	if err != nil {
		return -1, err
	}
	return Number(st.Active), nil
}

// CurrentVT returns a borrowed handle to the active vt.
func (c *Console) CurrentVT() (*VT, error) {
	n, err := c.CurrentNumber()
	if err != nil {
		return nil, err
	}
	return c.OpenVT(n)
}

// OpenVT returns a borrowed handle to vt n. Nothing is allocated, the
// device is opened on first use and closing the handle leaves the vt as is.
func (c *Console) OpenVT(n Numberer) (*VT, error) {
	num, err := checkNumber(n)
	if err != nil {
		return nil, err
	}
	if _, err := c.fd(); err != nil {
		return nil, err
	}
	return newVT(c, num, Borrowed), nil
}

// SwitchTo activates vt n and blocks until the switch has completed.
// The wait can't be cancelled.
func (c *Console) SwitchTo(n Numberer) error {
	num, err := checkNumber(n)
	if err != nil {
		return err
	}
	fd, err := c.fd()
	if err != nil {
		return err
	}
	if err := c.gateway.Activate(fd, int(num)); err != nil {
		return err
	}
	return logx.TimeIt(func() error {
		return c.gateway.WaitActive(fd, int(num))
	}, `switched vt`, c, `vt`, num)
}

// LockSwitch enables (lock == true) or disables the vt switch lock.
// While locked, switching by keyboard (Ctrl+Alt+F<n>) is not possible.
func (c *Console) LockSwitch(lock bool) error {
	fd, err := c.fd()
	if err != nil {
		return err
	}
	if lock {
		return c.gateway.LockSwitch(fd)
	}
	return c.gateway.UnlockSwitch(fd)
}

// BlankTimer returns the console blank interval in seconds, 0 if blanking
// is disabled. It is changed with (*VT).SetBlankTimer.
func (c *Console) BlankTimer() (uint32, error) {
	if c == nil {
		return 0, errors.NilReceiver()
	}
	b, err := os.ReadFile(c.blankTimerPath)
	if err != nil {
		return 0, errors.New(err)
	}
	s := strings.TrimSpace(string(b))
	t, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Errorf(`%w: %s: %q`, consts.ErrMalformedBlankTimer, c.blankTimerPath, s)
	}
	return uint32(t), nil
}

// release deallocates vt n. Failures go to the release hook.
func (c *Console) release(n Number) {
	fd, err := c.fd()
	if err == nil {
		err = c.gateway.Disallocate(fd, int(n))
	}
	if err == nil {
		logx.Debug(`released vt`, c, `vt`, n)
		return
	}
	logx.Warn(`failed to release vt`, c, `vt`, n, `error`, err)
	if c != nil && c.onRelease != nil {
		c.onRelease(n, err)
	}
}
