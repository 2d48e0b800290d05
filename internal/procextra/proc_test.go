package procextra

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldersOfFindsSelf(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), `held`)
	require.NoError(t, err)
	defer f.Close()

	holders, err := HoldersOf(context.Background(), f.Name())
	if err != nil {
		t.Skipf("process listing not available: %v", err)
	}
	var self *Holder
	for i := range holders {
		if holders[i].PID == int32(os.Getpid()) {
			self = &holders[i]
		}
	}
	require.NotNil(t, self, `own process not found among %v`, holders)
	assert.Contains(t, self.FDs, uint64(f.Fd()))
	assert.Equal(t, int32(os.Getppid()), self.PPID)
}

func TestHoldersOfSymlink(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, `target`))
	require.NoError(t, err)
	defer f.Close()
	link := filepath.Join(dir, `link`)
	require.NoError(t, os.Symlink(f.Name(), link))

	holders, err := HoldersOf(context.Background(), link)
	if err != nil {
		t.Skipf("process listing not available: %v", err)
	}
	pids := make([]int32, 0, len(holders))
	for _, h := range holders {
		pids = append(pids, h.PID)
	}
	assert.Contains(t, pids, int32(os.Getpid()))
}

func TestHoldersOfUnheld(t *testing.T) {
	path := filepath.Join(t.TempDir(), `unheld`)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	holders, err := HoldersOf(context.Background(), path)
	if err != nil {
		t.Skipf("process listing not available: %v", err)
	}
	assert.Empty(t, holders)
}

func TestHoldersOfCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := HoldersOf(ctx, `/dev/null`)
	assert.Error(t, err)
}

func TestHoldersOfEmptyPath(t *testing.T) {
	_, err := HoldersOf(context.Background(), ``)
	assert.Error(t, err)
}
