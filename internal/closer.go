package internal

import (
	"io"
	"sync"

	"github.com/srlehn/termvt/internal/errors"
)

// Closer runs the registered close functions in reverse order of registration.
type Closer interface {
	io.Closer
	OnClose(onClose func() error)
	AddClosers(closers ...io.Closer)
	Len() int
}

var _ Closer = (*lifoCloser)(nil)

type lifoCloser struct {
	mu           sync.Mutex
	onCloseFuncs []func() error
	added        map[io.Closer]struct{}
}

func NewCloser() Closer { return &lifoCloser{} }

// Close runs all close functions registered so far, even if some of them fail,
// and forgets them afterwards. The errors are joined.
func (c *lifoCloser) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	funcs := c.onCloseFuncs
	c.onCloseFuncs = nil
	c.added = nil
	c.mu.Unlock()

	var errs []error
	for i := len(funcs) - 1; i > -1; i-- {
		if err := funcs[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *lifoCloser) OnClose(onClose func() error) {
	if c == nil || onClose == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCloseFuncs = append(c.onCloseFuncs, onClose)
}

// AddClosers registers each closer once. Nil closers are skipped.
func (c *lifoCloser) AddClosers(closers ...io.Closer) {
	if c == nil || len(closers) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.added == nil {
		c.added = make(map[io.Closer]struct{})
	}
	for _, cl := range closers {
		if cl == nil {
			continue
		}
		if _, alreadyAdded := c.added[cl]; alreadyAdded {
			continue
		}
		c.added[cl] = struct{}{}
		c.onCloseFuncs = append(c.onCloseFuncs, func() error { return errors.New(cl.Close()) })
	}
}

func (c *lifoCloser) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.onCloseFuncs)
}
