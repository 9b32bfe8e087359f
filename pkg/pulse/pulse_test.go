package pulse

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const usec = time.Microsecond

func TestClassify(t *testing.T) {
	b := DefaultBands
	testCases := []struct {
		d     time.Duration
		class Class
	}{
		{-1 * usec, Noise},
		{0, Noise},
		{1 * usec, Zero},
		{10 * usec, Zero},
		{95 * usec, Zero},
		{96 * usec, One},
		{150 * usec, One},
		{200 * usec, One},
		{201 * usec, Noise},
		{300 * usec, Noise},
		{400 * usec, Noise},
		{401 * usec, Initiation},
		{500 * usec, Initiation},
		{900 * usec, Initiation},
		{901 * usec, Noise},
		{999 * usec, Noise},
		{1000 * usec, Termination},
		{time.Second, Termination},
		{usec / 2, Noise},
		{95*usec + usec/2, Zero},
		{200*usec + usec/2, One},
		{400*usec + 999*time.Nanosecond, Noise},
		{900*usec + usec/2, Initiation},
		{999*usec + 900*time.Nanosecond, Noise},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.class, b.Classify(tc.d), "duration %v", tc.d)
	}
}

// The one pulse here is 150µs: a 25µs one would fall in the zero band.
func TestClassifySequence(t *testing.T) {
	p := DefaultProtocol()
	var classes []Class
	for _, d := range []time.Duration{500 * usec, 10 * usec, 150 * usec, 1000 * usec} {
		classes = append(classes, p.Classify(d))
	}
	require.Equal(t, []Class{Initiation, Zero, One, Termination}, classes)
}

func TestClassString(t *testing.T) {
	require.Equal(t, "INIT", Initiation.String())
	require.Equal(t, "0", Zero.String())
	require.Equal(t, "Class(9)", Class(9).String())
	require.True(t, One.IsBit())
	require.True(t, One.Bit())
	require.False(t, Zero.Bit())
	require.False(t, Termination.IsBit())
}

func TestDefaultProtocolValid(t *testing.T) {
	p := DefaultProtocol()
	require.NoError(t, p.Validate())
}

func TestProtocolValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(p *Protocol)
	}{
		{"overlapping bands", func(p *Protocol) { p.Bands.One.Min = 90 * usec }},
		{"inverted band", func(p *Protocol) { p.Bands.Initiation.Max = 300 * usec }},
		{"zero band at zero", func(p *Protocol) { p.Bands.Zero.Min = 0 }},
		{"termination inside initiation", func(p *Protocol) { p.Bands.Termination = 800 * usec }},
		{"one hold in dead zone", func(p *Protocol) { p.Timing.One = 25 * usec }},
		{"termination hold short", func(p *Protocol) { p.Timing.Termination = 950 * usec }},
		{"init hold in one band", func(p *Protocol) { p.Timing.Initiation = 150 * usec }},
		{"no gap", func(p *Protocol) { p.Timing.Gap = 0 }},
		{"acceptance", func(p *Protocol) { p.Acceptance = 1.5 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultProtocol()
			tc.modify(&p)
			require.Error(t, p.Validate())
		})
	}
}

func TestFrameDuration(t *testing.T) {
	p := DefaultProtocol()
	d := p.FrameDuration(2, 1)
	require.Equal(t, (50+500+50+1200+150+10+100)*usec, d)
}

func TestUnmarshal(t *testing.T) {
	p := DefaultProtocol()
	err := Unmarshal([]byte(`
acceptance = 0.9
[timing]
one_us = 120
[bands.one]
min_us = 100
max_us = 180
`), &p)
	require.NoError(t, err)
	require.Equal(t, 0.9, p.Acceptance)
	require.Equal(t, 120*usec, p.Timing.One)
	require.Equal(t, Band{Min: 100 * usec, Max: 180 * usec}, p.Bands.One)
	require.Equal(t, DefaultInitiation, p.Timing.Initiation)
	require.Equal(t, DefaultBands.Zero, p.Bands.Zero)
	require.Equal(t, DefaultBands.Termination, p.Bands.Termination)
	require.NoError(t, p.Validate())

	require.Error(t, Unmarshal([]byte("timing = ["), &p))
}

func TestConfigLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "pulse")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	conf := NewConfig()
	p, err := conf.Load()
	require.NoError(t, err)
	require.Equal(t, DefaultProtocol(), *p)

	conf.File = filepath.Join(dir, "protocol.toml")
	require.NoError(t, ioutil.WriteFile(conf.File, []byte("[timing]\none_us = 25\n"), 0644))
	_, err = conf.Load()
	require.Error(t, err)

	require.NoError(t, ioutil.WriteFile(conf.File, []byte("[timing]\nterm_us = 1500\n"), 0644))
	p, err = conf.Load()
	require.NoError(t, err)
	require.Equal(t, 1500*usec, p.Timing.Termination)

	conf.File = filepath.Join(dir, "missing.toml")
	_, err = conf.Load()
	require.Error(t, err)
}
