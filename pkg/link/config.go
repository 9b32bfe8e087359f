package link

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"time"
	"unicode/utf8"

	"github.com/robotalks/optolink/pkg/pulse"
)

// DefaultMessage is sent when no message is configured.
const DefaultMessage = "That other message was old and tired. Here's something fresh!!"

// ErrInvalidMessage indicates a message file which is not valid UTF-8.
var ErrInvalidMessage = errors.New("message is not valid UTF-8")

// Config defines the message and pacing of a link.
type Config struct {
	Message string
	// MessageFile, when set, is read as the message.
	MessageFile string
	Interval    time.Duration
	// RxInterval is the delay before the receiver re-arms after a frame.
	RxInterval time.Duration
	Pulse      *pulse.Config
}

var defaultConfig = Config{
	Message:  DefaultMessage,
	Interval: DefaultInterval,
}

func init() {
	if val := os.Getenv("OPTO_MESSAGE_FILE"); val != "" {
		defaultConfig.MessageFile = val
	}
}

// SetupFlags sets command line flags, including the protocol flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Message, "message", defaultConfig.Message, "Message to send.")
	flag.StringVar(&defaultConfig.MessageFile, "message-file", defaultConfig.MessageFile, "File to read the message from.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Delay between repeated messages.")
	flag.DurationVar(&defaultConfig.RxInterval, "rx-interval", defaultConfig.RxInterval, "Delay before receiving the next message.")
	pulse.SetupFlags()
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Pulse = pulse.NewConfig()
	return &conf
}

// LoadMessage returns the configured message.
func (c *Config) LoadMessage() (string, error) {
	if c.MessageFile == "" {
		return c.Message, nil
	}
	data, err := ioutil.ReadFile(c.MessageFile)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidMessage
	}
	return string(data), nil
}

// NewSession loads the protocol and message and builds the session.
func (c *Config) NewSession() (*Session, error) {
	pc := c.Pulse
	if pc == nil {
		pc = pulse.Default()
	}
	protocol, err := pc.Load()
	if err != nil {
		return nil, fmt.Errorf("protocol: %w", err)
	}
	msg, err := c.LoadMessage()
	if err != nil {
		return nil, fmt.Errorf("message: %w", err)
	}
	return NewSession(msg, protocol)
}
