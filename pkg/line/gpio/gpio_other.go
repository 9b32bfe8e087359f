//go:build !linux
// +build !linux

package gpio

import (
	"errors"

	"github.com/robotalks/optolink/pkg/line"
)

// ErrUnsupported indicates sysfs GPIO is unavailable on this platform.
var ErrUnsupported = errors.New("gpio is only supported on linux")

// OpenOutput is unsupported on this platform.
func OpenOutput(num int) (line.OutputLine, error) {
	return nil, ErrUnsupported
}

// OpenInput is unsupported on this platform.
func OpenInput(num int) (line.InputLine, error) {
	return nil, ErrUnsupported
}
