//go:build linux
// +build linux

package gpio

import (
	"fmt"

	"github.com/davecheney/gpio"

	"github.com/robotalks/optolink/pkg/line"
)

type pinLine struct {
	line.SystemClock
	pin gpio.Pin
	num int
}

func openPin(num int, mode gpio.Mode) (*pinLine, error) {
	pin, err := gpio.OpenPin(num, mode)
	if err != nil {
		return nil, fmt.Errorf("open gpio %d: %w", num, err)
	}
	return &pinLine{pin: pin, num: num}, nil
}

// OpenOutput exports pin as an output line, initially low.
func OpenOutput(num int) (line.OutputLine, error) {
	l, err := openPin(num, gpio.ModeOutput)
	if err != nil {
		return nil, err
	}
	if err := l.Set(false); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// OpenInput exports pin as an input line.
func OpenInput(num int) (line.InputLine, error) {
	return openPin(num, gpio.ModeInput)
}

func (l *pinLine) Set(high bool) error {
	if high {
		l.pin.Set()
	} else {
		l.pin.Clear()
	}
	if err := l.pin.Err(); err != nil {
		return fmt.Errorf("gpio %d: %w", l.num, err)
	}
	return nil
}

func (l *pinLine) Read() (bool, error) {
	val := l.pin.Get()
	if err := l.pin.Err(); err != nil {
		return false, fmt.Errorf("gpio %d: %w", l.num, err)
	}
	return val, nil
}

func (l *pinLine) Close() error {
	return l.pin.Close()
}
