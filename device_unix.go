//go:build unix

package termvt

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/srlehn/termvt/internal/errors"
)

// openNoCTTY opens path for reading and writing without making it the
// controlling terminal of the process.
func openNoCTTY(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, errors.New(err)
	}
	return f, nil
}

func openDeviceFile(path string) (Device, error) {
	f, err := openNoCTTY(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
