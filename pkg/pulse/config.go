package pulse

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config defines the protocol options of a command.
type Config struct {
	Protocol Protocol
	// File is an optional TOML protocol file overriding the flags.
	File string
}

var defaultConfig = Config{
	Protocol: DefaultProtocol(),
}

func init() {
	if val := os.Getenv("OPTO_PROTOCOL_FILE"); val != "" {
		defaultConfig.File = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	t := &defaultConfig.Protocol.Timing
	flag.DurationVar(&t.Lead, "lead", t.Lead, "Low hold before the initiation marker.")
	flag.DurationVar(&t.Initiation, "init", t.Initiation, "High hold of the initiation marker.")
	flag.DurationVar(&t.Zero, "zero", t.Zero, "High hold of a 0 bit.")
	flag.DurationVar(&t.One, "one", t.One, "High hold of a 1 bit.")
	flag.DurationVar(&t.Gap, "gap", t.Gap, "Low hold after every pulse.")
	flag.DurationVar(&t.Termination, "term", t.Termination, "High hold of the termination marker.")
	flag.Float64Var(&defaultConfig.Protocol.Acceptance, "acceptance", defaultConfig.Protocol.Acceptance, "Minimum fidelity of a valid frame.")
	flag.StringVar(&defaultConfig.File, "protocol-file", defaultConfig.File, "TOML file with protocol timing and bands.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Load applies the protocol file if any and validates the protocol.
func (c *Config) Load() (*Protocol, error) {
	p := c.Protocol
	if c.File != "" {
		data, err := ioutil.ReadFile(c.File)
		if err != nil {
			return nil, err
		}
		if err := Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", c.File, err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

type fileTiming struct {
	Lead        int64 `toml:"lead_us"`
	Initiation  int64 `toml:"init_us"`
	Zero        int64 `toml:"zero_us"`
	One         int64 `toml:"one_us"`
	Gap         int64 `toml:"gap_us"`
	Termination int64 `toml:"term_us"`
}

type fileBand struct {
	Min int64 `toml:"min_us"`
	Max int64 `toml:"max_us"`
}

type fileBands struct {
	Zero        fileBand `toml:"zero"`
	One         fileBand `toml:"one"`
	Initiation  fileBand `toml:"init"`
	Termination int64    `toml:"term_min_us"`
}

type fileProtocol struct {
	Timing     fileTiming `toml:"timing"`
	Bands      fileBands  `toml:"bands"`
	Acceptance float64    `toml:"acceptance"`
}

func us(d time.Duration) int64 {
	return int64(d / time.Microsecond)
}

func fromUS(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

func toFileBand(b Band) fileBand {
	return fileBand{Min: us(b.Min), Max: us(b.Max)}
}

func (b fileBand) band() Band {
	return Band{Min: fromUS(b.Min), Max: fromUS(b.Max)}
}

// Unmarshal decodes a TOML protocol document into p. Values are in
// microseconds, keys absent from the document keep their value in p.
//
//	acceptance = 0.995
//	[timing]
//	init_us = 500
//	[bands.one]
//	min_us = 96
//	max_us = 200
func Unmarshal(data []byte, p *Protocol) error {
	f := fileProtocol{
		Timing: fileTiming{
			Lead:        us(p.Timing.Lead),
			Initiation:  us(p.Timing.Initiation),
			Zero:        us(p.Timing.Zero),
			One:         us(p.Timing.One),
			Gap:         us(p.Timing.Gap),
			Termination: us(p.Timing.Termination),
		},
		Bands: fileBands{
			Zero:        toFileBand(p.Bands.Zero),
			One:         toFileBand(p.Bands.One),
			Initiation:  toFileBand(p.Bands.Initiation),
			Termination: us(p.Bands.Termination),
		},
		Acceptance: p.Acceptance,
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Protocol{
		Timing: Timing{
			Lead:        fromUS(f.Timing.Lead),
			Initiation:  fromUS(f.Timing.Initiation),
			Zero:        fromUS(f.Timing.Zero),
			One:         fromUS(f.Timing.One),
			Gap:         fromUS(f.Timing.Gap),
			Termination: fromUS(f.Timing.Termination),
		},
		Bands: Bands{
			Zero:        f.Bands.Zero.band(),
			One:         f.Bands.One.band(),
			Initiation:  f.Bands.Initiation.band(),
			Termination: fromUS(f.Bands.Termination),
		},
		Acceptance: f.Acceptance,
	}
	return nil
}
