package consts

import (
	"errors"
)

var (
	ErrNilReceiver          = errors.New(`nil receiver`)
	ErrNilParam             = errors.New(`nil parameter`)
	ErrPlatformNotSupported = errors.New(`platform not supported`)
	ErrNegativeNumber       = errors.New(`negative vt number`)
	ErrNotAConsole          = errors.New(`not a console device`)
	ErrClosed               = errors.New(`already closed`)
	ErrMalformedBlankTimer  = errors.New(`malformed console blank timer`)
	ErrNoFreeVT             = errors.New(`no free vt left`)
)

const (
	// DefaultConsolePath is the control device VT requests are issued on.
	DefaultConsolePath = `/dev/console`
	// DefaultTTYPathFormat is formatted with the vt number.
	DefaultTTYPathFormat = `/dev/tty%d`
	// DefaultBlankTimerPath holds the console blank interval in seconds.
	DefaultBlankTimerPath = `/sys/module/kernel/parameters/consoleblank`

	// StateWindow is the number of vts covered by the VT_GETSTATE occupancy mask.
	StateWindow = 16
)
