package logx

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferProv(lvl slog.Level) (*bytes.Buffer, LoggerProvider) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: lvl})
	return &buf, Prov(slog.New(h))
}

func TestIsErrLogsJoinedErrors(t *testing.T) {
	buf, prov := bufferProv(slog.LevelDebug)
	err := errors.Join(errors.New(`first`), errors.New(`second`))

	require.True(t, IsErr(err, prov, slog.LevelWarn, `vt`, 3))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `msg=first`)
	assert.Contains(t, lines[0], `vt=3`)
	assert.Contains(t, lines[1], `msg=second`)
	assert.Contains(t, lines[1], `level=WARN`)
}

func TestIsErrNil(t *testing.T) {
	buf, prov := bufferProv(slog.LevelDebug)
	assert.False(t, IsErr(nil, prov, slog.LevelError))
	assert.NoError(t, Err(nil, prov, slog.LevelError))
	assert.Empty(t, buf.String())

	// no logger: still reported
	assert.True(t, IsErr(errors.New(`x`), nil, slog.LevelError))
	assert.True(t, IsErr(errors.New(`x`), Prov(nil), slog.LevelError))
}

func TestLevelFiltering(t *testing.T) {
	buf, prov := bufferProv(slog.LevelInfo)
	Debug(`hidden`, prov)
	Info(`shown`, prov, `key`, `value`)
	assert.NotContains(t, buf.String(), `hidden`)
	assert.Contains(t, buf.String(), `key=value`)
}

func TestTimeIt(t *testing.T) {
	buf, prov := bufferProv(slog.LevelDebug)
	errFn := errors.New(`failed`)

	err := TimeIt(func() error { return errFn }, `switched`, prov, `vt`, 2)
	assert.ErrorIs(t, err, errFn)
	assert.Contains(t, buf.String(), `msg=switched`)
	assert.Contains(t, buf.String(), `duration=`)
	assert.Contains(t, buf.String(), `vt=2`)

	assert.Error(t, TimeIt(nil, ``, prov))
}

func TestErrAndError(t *testing.T) {
	buf, prov := bufferProv(slog.LevelDebug)
	errFn := errors.New(`release failed`)

	assert.ErrorIs(t, Err(errFn, prov, slog.LevelError, `vt`, 4), errFn)
	Error(`recovered panic`, prov, `panic`, `boom`)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `msg="release failed"`)
	assert.Contains(t, lines[0], `vt=4`)
	assert.Contains(t, lines[1], `level=ERROR`)
	assert.Contains(t, lines[1], `panic=boom`)
}
