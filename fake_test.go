package termvt_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/srlehn/termvt"
)

// fakeKernel models the kernel's vt table. It implements termvt.Gateway and
// opens fake vt devices, recording every request and device operation.
// Like the kernel, VT_OPENQRY reports the first vt that is neither held by
// another process nor opened through the fake.
type fakeKernel struct {
	mu        sync.Mutex
	maxVT     int
	active    termvt.Number
	held      map[termvt.Number]bool
	inUse     map[termvt.Number]int
	script    []int // VT_OPENQRY replies returned before the modelled ones
	events    []string
	fail      map[string]error
	devices   map[uintptr]*fakeDevice
	attrs     map[uintptr]unix.Termios
	committed []unix.Termios
	nextFd    uintptr

	// notConsole makes the console check of Open fail
	notConsole bool
}

var _ termvt.Gateway = (*fakeKernel)(nil)

func newFakeKernel(held ...int) *fakeKernel {
	k := &fakeKernel{
		maxVT:   63,
		active:  1,
		held:    make(map[termvt.Number]bool),
		inUse:   make(map[termvt.Number]int),
		fail:    make(map[string]error),
		devices: make(map[uintptr]*fakeDevice),
		attrs:   make(map[uintptr]unix.Termios),
		nextFd:  1000,
	}
	for _, n := range held {
		k.held[termvt.Number(n)] = true
	}
	return k
}

func (k *fakeKernel) failOn(event string, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.fail[event] = err
}

func (k *fakeKernel) Events() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.events...)
}

func (k *fakeKernel) resetEvents() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.events = nil
}

func (k *fakeKernel) Committed() []unix.Termios {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]unix.Termios(nil), k.committed...)
}

func (k *fakeKernel) isFree(n termvt.Number) bool {
	return !k.held[n] && k.inUse[n] == 0
}

func (k *fakeKernel) openCount(n termvt.Number) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.inUse[n]
}

// record must be called with k.mu held.
func (k *fakeKernel) record(format string, a ...any) error {
	ev := fmt.Sprintf(format, a...)
	k.events = append(k.events, ev)
	return k.fail[ev]
}

func (k *fakeKernel) vtOf(fd uintptr) termvt.Number {
	if dev, ok := k.devices[fd]; ok {
		return dev.n
	}
	return -1
}

func (k *fakeKernel) OpenQuery(fd uintptr) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.record(`openqry`); err != nil {
		return -1, err
	}
	if len(k.script) > 0 {
		q := k.script[0]
		k.script = k.script[1:]
		return q, nil
	}
	for n := termvt.Number(1); n <= termvt.Number(k.maxVT); n++ {
		if k.isFree(n) {
			return int(n), nil
		}
	}
	return -1, nil
}

func (k *fakeKernel) State(fd uintptr) (termvt.State, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.record(`getstate`); err != nil {
		return termvt.State{}, err
	}
	st := termvt.State{Active: uint16(k.active)}
	for n := termvt.Number(1); n < 16; n++ {
		if !k.isFree(n) {
			st.Occupied |= 1 << n
		}
	}
	return st, nil
}

func (k *fakeKernel) Activate(fd uintptr, n int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.record(`activate %d`, n); err != nil {
		return err
	}
	k.active = termvt.Number(n)
	return nil
}

func (k *fakeKernel) WaitActive(fd uintptr, n int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.record(`waitactive %d`, n)
}

func (k *fakeKernel) Disallocate(fd uintptr, n int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.record(`disallocate %d`, n)
}

func (k *fakeKernel) LockSwitch(fd uintptr) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.record(`lock`)
}

func (k *fakeKernel) UnlockSwitch(fd uintptr) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.record(`unlock`)
}

func (k *fakeKernel) Blank(fd uintptr, blank bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if blank {
		return k.record(`blank on %d`, k.vtOf(fd))
	}
	return k.record(`blank off %d`, k.vtOf(fd))
}

func (k *fakeKernel) GetAttr(fd uintptr) (*unix.Termios, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.record(`getattr %d`, k.vtOf(fd)); err != nil {
		return nil, err
	}
	attr := k.attrs[fd]
	return &attr, nil
}

func (k *fakeKernel) SetAttr(fd uintptr, attr *unix.Termios) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.record(`setattr %d`, k.vtOf(fd)); err != nil {
		return err
	}
	k.attrs[fd] = *attr
	k.committed = append(k.committed, *attr)
	return nil
}

func (k *fakeKernel) Flush(fd uintptr, queue int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.record(`flush %d %d`, k.vtOf(fd), queue)
}

func (k *fakeKernel) Mode(fd uintptr) (termvt.DisplayMode, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, isVT := k.devices[fd]; !isVT {
		// the console check of Open isn't recorded
		if k.notConsole {
			return -1, &termvt.RequestError{Err: unix.ENOTTY}
		}
		return termvt.ModeText, nil
	}
	if err := k.record(`getmode %d`, k.vtOf(fd)); err != nil {
		return -1, err
	}
	return termvt.ModeText, nil
}

// defaultAttr resembles a freshly opened linux vt.
func defaultAttr() unix.Termios {
	var attr unix.Termios
	attr.Iflag = unix.ICRNL | unix.IXON
	attr.Lflag = unix.ECHO | unix.ECHOE | unix.ICANON | unix.ISIG | unix.IEXTEN
	attr.Cc[unix.VINTR] = 0o3
	attr.Cc[unix.VQUIT] = 0o34
	attr.Cc[unix.VSUSP] = 0o32
	attr.Cc[unix.VEOF] = 0o4
	return attr
}

// open is a termvt.DeviceOpener for paths ending in tty<n>.
func (k *fakeKernel) open(path string) (termvt.Device, error) {
	n, err := termvt.ParseNumber(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.record(`open %d`, n); err != nil {
		return nil, err
	}
	k.nextFd++
	dev := &fakeDevice{k: k, n: n, fd: k.nextFd}
	k.devices[dev.fd] = dev
	k.attrs[dev.fd] = defaultAttr()
	k.inUse[n]++
	return dev, nil
}

type fakeDevice struct {
	k      *fakeKernel
	n      termvt.Number
	fd     uintptr
	in     bytes.Buffer
	out    bytes.Buffer
	closed bool
}

var _ termvt.Device = (*fakeDevice)(nil)

func (d *fakeDevice) Fd() uintptr { return d.fd }

func (d *fakeDevice) Read(p []byte) (int, error) {
	d.k.mu.Lock()
	defer d.k.mu.Unlock()
	return d.in.Read(p)
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.k.mu.Lock()
	defer d.k.mu.Unlock()
	if err := d.k.record(`write %d %q`, d.n, p); err != nil {
		return 0, err
	}
	return d.out.Write(p)
}

func (d *fakeDevice) Close() error {
	d.k.mu.Lock()
	defer d.k.mu.Unlock()
	if d.closed {
		return os.ErrClosed
	}
	d.closed = true
	d.k.inUse[d.n]--
	delete(d.k.devices, d.fd)
	return d.k.record(`close %d`, d.n)
}

func writeEvent(n int, s string) string { return fmt.Sprintf(`write %d %q`, n, []byte(s)) }

type testConsole struct {
	*termvt.Console
	k         *fakeKernel
	timerPath string
}

func (tc *testConsole) setTimer(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(tc.timerPath, []byte(content), 0o600))
}

// newTestConsole opens a Console on a pty with k as the kernel.
func newTestConsole(t *testing.T, k *fakeKernel, opts ...termvt.Option) *testConsole {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	t.Cleanup(func() {
		_ = tty.Close()
		_ = ptmx.Close()
	})
	timerPath := filepath.Join(t.TempDir(), `consoleblank`)
	require.NoError(t, os.WriteFile(timerPath, []byte("0\n"), 0o600))

	opts = append([]termvt.Option{
		termvt.SetConsolePath(tty.Name()),
		termvt.SetGateway(k),
		termvt.SetDeviceOpener(k.open),
		termvt.SetBlankTimerPath(timerPath),
	}, opts...)
	c, err := termvt.Open(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return &testConsole{Console: c, k: k, timerPath: timerPath}
}
