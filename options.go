package termvt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/srlehn/termvt/internal/consts"
	"github.com/srlehn/termvt/internal/errors"
	"github.com/srlehn/termvt/internal/vtioctl"
)

type Option interface {
	ApplyOption(c *Console) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Console) error

func (o OptFunc) ApplyOption(c *Console) error { return o(c) }

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(c *Console) error { return c.setOptions([]Option(o)...) }

func (c *Console) setOptions(opts ...Option) error {
	if c == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(c); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

// SetConsolePath sets the control device. Default: /dev/console.
func SetConsolePath(path string) Option {
	return OptFunc(func(c *Console) error {
		if len(path) == 0 {
			path = consts.DefaultConsolePath
		}
		c.consolePath = path
		return nil
	})
}

// SetTTYPathFunc maps vt numbers to device paths. Default: /dev/tty<n>.
func SetTTYPathFunc(fn func(Number) string) Option {
	return OptFunc(func(c *Console) error {
		if fn == nil {
			return errors.NilParam()
		}
		c.ttyPath = fn
		return nil
	})
}

// SetTTYPathFormat is SetTTYPathFunc for a format string with a single %d verb.
func SetTTYPathFormat(format string) Option {
	return OptFunc(func(c *Console) error {
		if strings.Count(format, `%d`) != 1 || strings.Count(format, `%`) != 1 {
			return errors.Errorf(`tty path format %q needs exactly one %%d verb`, format)
		}
		c.ttyPath = func(n Number) string { return fmt.Sprintf(format, int(n)) }
		return nil
	})
}

// SetBlankTimerPath sets the file holding the console blank interval.
func SetBlankTimerPath(path string) Option {
	return OptFunc(func(c *Console) error {
		if len(path) == 0 {
			path = consts.DefaultBlankTimerPath
		}
		c.blankTimerPath = path
		return nil
	})
}

func SetGateway(gw Gateway) Option {
	return OptFunc(func(c *Console) error {
		if gw == nil {
			return errors.NilParam()
		}
		c.gateway = gw
		return nil
	})
}

func SetDeviceOpener(fn DeviceOpener) Option {
	return OptFunc(func(c *Console) error {
		if fn == nil {
			return errors.NilParam()
		}
		c.openDevice = fn
		return nil
	})
}

// SetReleaseHook registers fn to observe failed deallocations of owned vts.
// Closing a vt never reports these failures otherwise.
func SetReleaseHook(fn func(n Number, err error)) Option {
	return OptFunc(func(c *Console) error { c.onRelease = fn; return nil })
}

func SetSLogger(h slog.Handler, enable bool) Option {
	return OptFunc(func(c *Console) error {
		if enable {
			if h == nil {
				c.logger = slog.Default()
			} else {
				c.logger = slog.New(h)
			}
		} else {
			c.logger = nil
		}
		return nil
	})
}

var setDefaults Option = OptFunc(func(c *Console) error {
	c.consolePath = consts.DefaultConsolePath
	c.blankTimerPath = consts.DefaultBlankTimerPath
	c.ttyPath = func(n Number) string { return fmt.Sprintf(consts.DefaultTTYPathFormat, int(n)) }
	c.gateway = vtioctl.New()
	c.openDevice = openDeviceFile
	return nil
})
