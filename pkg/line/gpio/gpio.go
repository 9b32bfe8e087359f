// Package gpio opens sysfs GPIO pins as link lines.
package gpio

import (
	"flag"
	"os"
	"strconv"
)

// Default pins of the laser and the photo-sensor.
const (
	DefaultLaserPin    = 18
	DefaultReceiverPin = 23
)

// Config defines the pins used by a command.
type Config struct {
	LaserPin    int
	ReceiverPin int
}

var defaultConfig = Config{
	LaserPin:    DefaultLaserPin,
	ReceiverPin: DefaultReceiverPin,
}

func init() {
	if val, err := strconv.Atoi(os.Getenv("OPTO_LASER_PIN")); err == nil {
		defaultConfig.LaserPin = val
	}
	if val, err := strconv.Atoi(os.Getenv("OPTO_RECEIVER_PIN")); err == nil {
		defaultConfig.ReceiverPin = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.LaserPin, "laser-pin", defaultConfig.LaserPin, "GPIO pin driving the laser, -1 to disable transmitting.")
	flag.IntVar(&defaultConfig.ReceiverPin, "receiver-pin", defaultConfig.ReceiverPin, "GPIO pin of the photo-sensor, -1 to disable receiving.")
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
