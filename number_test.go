package termvt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/termvt"
)

func TestNewNumber(t *testing.T) {
	n, err := termvt.NewNumber(7)
	require.NoError(t, err)
	assert.Equal(t, termvt.Number(7), n)
	assert.Equal(t, n, n.VTNumber())
	assert.Equal(t, `7`, n.String())

	_, err = termvt.NewNumber(0)
	require.NoError(t, err)

	_, err = termvt.NewNumber(-1)
	require.ErrorIs(t, err, termvt.ErrNegativeNumber)
}

func TestParseNumber(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    termvt.Number
		wantErr bool
	}{
		`plain`:    {in: `7`, want: 7},
		`tty`:      {in: `tty12`, want: 12},
		`path`:     {in: `/dev/tty3`, want: 3},
		`space`:    {in: " 4\n", want: 4},
		`negative`: {in: `-1`, wantErr: true},
		`garbage`:  {in: `ttyS0`, wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := termvt.ParseNumber(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNegativeNumberNeverReachesKernel(t *testing.T) {
	k := newFakeKernel()
	tc := newTestConsole(t, k)

	_, err := tc.OpenVT(termvt.Number(-1))
	assert.ErrorIs(t, err, termvt.ErrNegativeNumber)
	assert.ErrorIs(t, tc.SwitchTo(termvt.Number(-2)), termvt.ErrNegativeNumber)
	_, err = tc.NewVTWithMinimum(-1)
	assert.ErrorIs(t, err, termvt.ErrNegativeNumber)
	var vt *termvt.VT
	assert.ErrorIs(t, tc.SwitchTo(vt), termvt.ErrNegativeNumber)
	assert.Empty(t, k.Events())
}
