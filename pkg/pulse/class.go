// Package pulse defines the pulse-width protocol: the holds a transmitter
// drives and the duration bands a receiver classifies measured pulses with.
package pulse

import (
	"fmt"
	"time"
)

// Class is the classification of one measured high pulse.
type Class int

// Classes
const (
	Noise Class = iota
	Zero
	One
	Initiation
	Termination
)

var classNames = map[Class]string{
	Noise:       "NOISE",
	Zero:        "0",
	One:         "1",
	Initiation:  "INIT",
	Termination: "TERM",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// IsBit indicates the class carries a data bit.
func (c Class) IsBit() bool {
	return c == Zero || c == One
}

// Bit returns the data bit of a Zero/One class.
func (c Class) Bit() bool {
	return c == One
}

// Band is an inclusive duration range.
type Band struct {
	Min time.Duration
	Max time.Duration
}

// Contains checks d is within the band.
func (b Band) Contains(d time.Duration) bool {
	return d >= b.Min && d <= b.Max
}

func (b Band) String() string {
	return fmt.Sprintf("%v..%v", b.Min, b.Max)
}

// Bands separates the pulse classes. Durations between bands are dead
// zones classified as Noise.
type Bands struct {
	Zero       Band
	One        Band
	Initiation Band
	// Termination is the minimum duration of the termination marker.
	Termination time.Duration
}

// Classify classifies a measured high duration. Durations are truncated
// to whole microseconds first, so adjacent bands leave no gap between them.
func (b *Bands) Classify(d time.Duration) Class {
	d = d.Truncate(time.Microsecond)
	switch {
	case d <= 0:
		return Noise
	case b.Zero.Contains(d):
		return Zero
	case b.One.Contains(d):
		return One
	case b.Initiation.Contains(d):
		return Initiation
	case d >= b.Termination:
		return Termination
	}
	return Noise
}

// Validate checks the bands are positive, ordered and disjoint.
func (b *Bands) Validate() error {
	if b.Zero.Min <= 0 {
		return fmt.Errorf("zero band %v must start above 0", b.Zero)
	}
	seq := []struct {
		name string
		band Band
	}{
		{"zero", b.Zero},
		{"one", b.One},
		{"initiation", b.Initiation},
		{"termination", Band{Min: b.Termination, Max: b.Termination}},
	}
	for n, item := range seq {
		if item.band.Min > item.band.Max {
			return fmt.Errorf("%s band %v is inverted", item.name, item.band)
		}
		if n > 0 && seq[n-1].band.Max >= item.band.Min {
			return fmt.Errorf("%s band %v overlaps %s band %v",
				item.name, item.band, seq[n-1].name, seq[n-1].band)
		}
	}
	return nil
}
