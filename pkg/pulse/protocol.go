package pulse

import (
	"fmt"
	"time"
)

// Timing is the set of holds a transmitter drives the line for.
type Timing struct {
	// Lead is the low hold before the initiation marker.
	Lead time.Duration
	// Initiation is the high hold of the initiation marker.
	Initiation time.Duration
	// Zero is the high hold of a 0 bit.
	Zero time.Duration
	// One is the high hold of a 1 bit.
	One time.Duration
	// Gap is the low hold after every marker and bit.
	Gap time.Duration
	// Termination is the high hold of the termination marker.
	Termination time.Duration
}

// Hold returns the high hold for a data bit.
func (t *Timing) Hold(bit bool) time.Duration {
	if bit {
		return t.One
	}
	return t.Zero
}

// Protocol is the full pulse protocol shared by both ends of a link.
type Protocol struct {
	Timing Timing
	Bands  Bands
	// Acceptance is the fidelity a frame must exceed to be valid.
	Acceptance float64
}

// Defaults
const (
	DefaultLead        = 50 * time.Microsecond
	DefaultInitiation  = 500 * time.Microsecond
	DefaultZero        = 10 * time.Microsecond
	DefaultOne         = 150 * time.Microsecond
	DefaultGap         = 50 * time.Microsecond
	DefaultTermination = 1200 * time.Microsecond
	DefaultAcceptance  = 0.995
)

// DefaultBands are the classification bands of the original wiring.
var DefaultBands = Bands{
	Zero:        Band{Min: time.Microsecond, Max: 95 * time.Microsecond},
	One:         Band{Min: 96 * time.Microsecond, Max: 200 * time.Microsecond},
	Initiation:  Band{Min: 401 * time.Microsecond, Max: 900 * time.Microsecond},
	Termination: 1000 * time.Microsecond,
}

// DefaultProtocol returns the default protocol.
func DefaultProtocol() Protocol {
	return Protocol{
		Timing: Timing{
			Lead:        DefaultLead,
			Initiation:  DefaultInitiation,
			Zero:        DefaultZero,
			One:         DefaultOne,
			Gap:         DefaultGap,
			Termination: DefaultTermination,
		},
		Bands:      DefaultBands,
		Acceptance: DefaultAcceptance,
	}
}

// Classify classifies a measured high duration.
func (p *Protocol) Classify(d time.Duration) Class {
	return p.Bands.Classify(d)
}

// Validate checks the bands are consistent and every hold is classified
// as what it is meant to be.
func (p *Protocol) Validate() error {
	if err := p.Bands.Validate(); err != nil {
		return err
	}
	if p.Timing.Gap <= 0 {
		return fmt.Errorf("gap %v must be positive", p.Timing.Gap)
	}
	if p.Timing.Lead < 0 {
		return fmt.Errorf("lead %v must not be negative", p.Timing.Lead)
	}
	holds := []struct {
		name  string
		hold  time.Duration
		class Class
	}{
		{"zero", p.Timing.Zero, Zero},
		{"one", p.Timing.One, One},
		{"initiation", p.Timing.Initiation, Initiation},
		{"termination", p.Timing.Termination, Termination},
	}
	for _, h := range holds {
		if c := p.Bands.Classify(h.hold); c != h.class {
			return fmt.Errorf("%s hold %v is classified as %v", h.name, h.hold, c)
		}
	}
	if p.Acceptance <= 0 || p.Acceptance > 1 {
		return fmt.Errorf("acceptance %v out of range (0, 1]", p.Acceptance)
	}
	return nil
}

// FrameDuration estimates the line time to send n bits with the given
// number of 1 bits.
func (p *Protocol) FrameDuration(n, ones int) time.Duration {
	t := &p.Timing
	d := t.Lead + t.Initiation + t.Gap + t.Termination
	d += time.Duration(ones) * t.One
	d += time.Duration(n-ones) * t.Zero
	d += time.Duration(n) * t.Gap
	return d
}
