// Package procextra finds the processes holding a device file open.
package procextra

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/srlehn/termvt/internal/errors"
)

// Holder is a process with an open file descriptor on a device.
type Holder struct {
	PID  int32
	PPID int32
	Name string
	FDs  []uint64
}

// HoldersOf lists the processes that have path open, ordered by pid.
// Processes whose file descriptors can't be read (insufficient permissions,
// exited meanwhile) are skipped.
func HoldersOf(ctx context.Context, path string) ([]Holder, error) {
	if len(path) == 0 {
		return nil, errors.New(`empty device path`)
	}
	path = resolve(path)
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.New(err)
	}
	var holders []Holder
	for _, proc := range procs {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(err)
		}
		fds := fdsOf(ctx, proc, path)
		if len(fds) == 0 {
			continue
		}
		h := Holder{PID: proc.Pid, FDs: fds}
		h.Name, _ = proc.NameWithContext(ctx)
		h.PPID, _ = proc.PpidWithContext(ctx)
		holders = append(holders, h)
	}
	slices.SortFunc(holders, func(a, b Holder) int { return int(a.PID) - int(b.PID) })
	return holders, nil
}

func fdsOf(ctx context.Context, proc *process.Process, path string) []uint64 {
	if proc == nil {
		return nil
	}
	files, err := proc.OpenFilesWithContext(ctx)
	if err != nil {
		return nil
	}
	var fds []uint64
	for _, f := range files {
		if f.Path == path || resolve(f.Path) == path {
			fds = append(fds, f.Fd)
		}
	}
	return fds
}

// resolve follows symlinks like /dev/console -> /dev/tty0 where possible.
func resolve(path string) string {
	if p, err := filepath.EvalSymlinks(path); err == nil {
		return p
	}
	return filepath.Clean(path)
}
