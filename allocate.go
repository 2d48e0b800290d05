package termvt

import (
	"log/slog"

	"github.com/srlehn/termvt/internal"
	"github.com/srlehn/termvt/internal/consts"
	"github.com/srlehn/termvt/internal/errors"
	"github.com/srlehn/termvt/internal/logx"
)

// NewVT allocates the first free vt. See NewVTWithMinimum.
func (c *Console) NewVT() (*VT, error) { return c.NewVTWithMinimum(0) }

// NewVTWithMinimum allocates a free vt with a number >= min and returns an
// owned handle: closing it releases the vt. The vt starts with echo,
// signal generation and the end-of-file character disabled.
//
// Systems usually have 16 or 63 vts at most. A vt above the first 16 can
// only be reached by opening every free vt below it until the kernel hands
// out one >= min, so keep min small.
func (c *Console) NewVTWithMinimum(min Number) (*VT, error) {
	if _, err := checkNumber(min); err != nil {
		return nil, err
	}
	n, dev, err := c.allocate(min)
	if err != nil {
		return nil, err
	}
	v := newVT(c, n, Owned)
	if err := v.init(dev); err != nil {
		_ = v.Close()
		return nil, err
	}
	return v, nil
}

// allocate finds the first vt >= min that the kernel considers free.
// A non-nil Device is returned if the vt had to be opened during the search.
func (c *Console) allocate(min Number) (Number, Device, error) {
	fd, err := c.fd()
	if err != nil {
		return -1, nil, err
	}
	first, err := c.gateway.OpenQuery(fd)
	if err != nil {
		return -1, nil, err
	}
	if n := Number(first); n >= min {
		logx.Debug(`allocated vt`, c, `vt`, n, `search`, `query`)
		return n, nil, nil
	}

	// the state mask only covers the first vts
	st, err := c.gateway.State(fd)
	if err != nil {
		return -1, nil, err
	}
	if n, ok := firstFreeInMask(st.Occupied, min); ok {
		logx.Debug(`allocated vt`, c, `vt`, n, `search`, `mask`)
		return n, nil, nil
	}

	return c.probe(fd, min)
}

// firstFreeInMask returns the first vt >= min whose bit in occupied is
// cleared. Bit 0 doesn't belong to an allocatable vt and is skipped.
func firstFreeInMask(occupied uint16, min Number) (Number, bool) {
	n := max(min, 1)
	for ; n < consts.StateWindow; n++ {
		if occupied&(1<<n) == 0 {
			return n, true
		}
	}
	return -1, false
}

// probe opens the first free vt until the kernel reports one >= min.
// VT_OPENQRY only skips vts which are held open, so every probed device
// stays open until the search ends. The device of the found vt is returned,
// all others are closed.
func (c *Console) probe(fd uintptr, min Number) (Number, Device, error) {
	probes := internal.NewCloser()
	defer func() {
		logx.IsErr(probes.Close(), c, slog.LevelWarn, `msg`, `closing probed vt`)
	}()
	for {
		q, err := c.gateway.OpenQuery(fd)
		if err != nil {
			return -1, nil, err
		}
		if q < 0 {
			return -1, nil, errors.Errorf(`%w: looking for vt >= %d, probed %d`, consts.ErrNoFreeVT, int(min), probes.Len())
		}
		n := Number(q)
		dev, err := c.openDevice(c.ttyPath(n))
		if err != nil {
			return -1, nil, err
		}
		if n >= min {
			logx.Debug(`allocated vt`, c, `vt`, n, `search`, `probe`, `probed`, probes.Len())
			return n, dev, nil
		}
		probes.AddClosers(dev)
	}
}
