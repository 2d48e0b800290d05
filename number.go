package termvt

import (
	"strconv"
	"strings"

	"github.com/srlehn/termvt/internal/consts"
	"github.com/srlehn/termvt/internal/errors"
)

// Number identifies a virtual terminal (/dev/tty<Number>).
type Number int

// NewNumber fails with ErrNegativeNumber for n < 0.
func NewNumber(n int) (Number, error) {
	if n < 0 {
		return -1, errors.Errorf(`%w: %d`, consts.ErrNegativeNumber, n)
	}
	return Number(n), nil
}

// ParseNumber accepts "7" as well as "tty7" and "/dev/tty7".
func ParseNumber(s string) (Number, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), `/dev/`)
	s = strings.TrimPrefix(s, `tty`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1, errors.New(err)
	}
	return NewNumber(n)
}

func (n Number) VTNumber() Number { return n }
func (n Number) String() string   { return strconv.Itoa(int(n)) }

// Numberer is implemented by everything that refers to a vt.
type Numberer interface{ VTNumber() Number }

var (
	_ Numberer = Number(0)
	_ Numberer = (*VT)(nil)
)

func checkNumber(nr Numberer) (Number, error) {
	if nr == nil {
		return -1, errors.NilParam()
	}
	n := nr.VTNumber()
	if n < 0 {
		return -1, errors.Errorf(`%w: %d`, consts.ErrNegativeNumber, int(n))
	}
	return n, nil
}
