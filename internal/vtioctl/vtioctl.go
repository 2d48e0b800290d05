// Package vtioctl issues the Linux virtual terminal and termios control
// requests. Interrupted requests are retried, failures are reported as
// *RequestError carrying the errno.
package vtioctl

import (
	"fmt"
)

// State mirrors the kernel's struct vt_stat.
type State struct {
	Active uint16
	Signal uint16
	// Occupied has bit n set if vt n is in use. Only vts 0-15 are reported.
	Occupied uint16
}

// Request identifies a control request independent of its opcode.
type Request int

const (
	OpenQuery Request = iota
	GetState
	Activate
	WaitActive
	Disallocate
	LockSwitch
	UnlockSwitch
	BlankScreen
	UnblankScreen
	GetAttr
	SetAttr
	Flush
	GetMode
)

func (r Request) String() string {
	if r < 0 || int(r) >= len(requests) {
		return fmt.Sprintf(`request(%d)`, int(r))
	}
	return requests[r].name
}

type requestInfo struct {
	name string
	// code is the ioctl opcode, or the TIOCLINUX subcode for the blank requests
	code uint
}

// requests is indexed by Request. The VT opcodes are fixed by <linux/vt.h>,
// the blank subcodes by <linux/tiocl.h>.
var requests = [...]requestInfo{
	OpenQuery:     {name: `VT_OPENQRY`, code: 0x5600},
	GetState:      {name: `VT_GETSTATE`, code: 0x5603},
	Activate:      {name: `VT_ACTIVATE`, code: 0x5606},
	WaitActive:    {name: `VT_WAITACTIVE`, code: 0x5607},
	Disallocate:   {name: `VT_DISALLOCATE`, code: 0x5608},
	LockSwitch:    {name: `VT_LOCKSWITCH`, code: 0x560B},
	UnlockSwitch:  {name: `VT_UNLOCKSWITCH`, code: 0x560C},
	BlankScreen:   {name: `TIOCL_BLANKSCREEN`, code: 14},
	UnblankScreen: {name: `TIOCL_UNBLANKSCREEN`, code: 4},
	GetAttr:       {name: `TCGETS`},
	SetAttr:       {name: `TCSETS`},
	Flush:         {name: `TCFLSH`},
	GetMode:       {name: `KDGETMODE`, code: 0x4B3B},
}

// Mode is the display mode of a vt as reported by KDGETMODE.
type Mode int

const (
	ModeText     Mode = 0x0
	ModeGraphics Mode = 0x1
	ModeText0    Mode = 0x2
	ModeText1    Mode = 0x3
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return `KD_TEXT`
	case ModeGraphics:
		return `KD_GRAPHICS`
	case ModeText0:
		return `KD_TEXT0`
	case ModeText1:
		return `KD_TEXT1`
	}
	if m < 0 {
		return fmt.Sprintf(`-0x%x`, -int(m))
	}
	return fmt.Sprintf(`0x%x`, int(m))
}

// RequestError reports a failed control request.
type RequestError struct {
	Request Request
	Err     error
}

func (e *RequestError) Error() string {
	if e == nil {
		return `<nil>`
	}
	return e.Request.String() + `: ` + e.Err.Error()
}

func (e *RequestError) Unwrap() error { return e.Err }
