// Package env sets up the reporting environment shared by link commands.
package env

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	fx "github.com/robotalks/optolink/pkg/framework"
	"github.com/robotalks/optolink/pkg/link"
	"github.com/robotalks/optolink/pkg/report"
	"github.com/robotalks/optolink/pkg/report/mqtt"
	"github.com/robotalks/optolink/pkg/report/stream"
	"github.com/robotalks/optolink/pkg/report/websocket"
)

// MachineID retrieves the unique ID identifying the machine, the host
// name if unavailable.
func MachineID() string {
	id, err := machineid.ID()
	if err == nil {
		return id
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "optolink"
}

// Config provides the reporting options.
type Config struct {
	NodeID string
	// MQTTBrokerURL specifies the MQTT broker to publish to.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// WebsocketAddr is the listen address of the live feed.
	WebsocketAddr string
	// RecordFile appends published events to a file.
	RecordFile     string
	StatusInterval time.Duration
	// Quiet disables printing received messages.
	Quiet bool
}

var defaultConfig = Config{
	StatusInterval: 5 * time.Second,
}

func init() {
	if val := os.Getenv("OPTO_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("OPTO_NODE_ID"); val != "" {
		defaultConfig.NodeID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.NodeID, "node-id", defaultConfig.NodeID, "Node ID in published events, machine id by default.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL to publish events.")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Listen address of the websocket event feed.")
	flag.StringVar(&defaultConfig.RecordFile, "record", defaultConfig.RecordFile, "File to append published events to.")
	flag.DurationVar(&defaultConfig.StatusInterval, "status-interval", defaultConfig.StatusInterval, "Interval of status events, 0 to disable.")
	flag.BoolVar(&defaultConfig.Quiet, "quiet", defaultConfig.Quiet, "Do not print received messages.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env wires reporters around a link.
type Env struct {
	Config    *Config
	Stats     *report.Stats
	Publisher *report.Publisher
	// Status publishes link status events.
	Status  *report.Publisher
	Printer *report.Printer

	runners []fx.Runnable
	closers []io.Closer
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if c.NodeID == "" {
		c.NodeID = MachineID()
	}
	e := &Env{
		Config:    c,
		Stats:     &report.Stats{},
		Publisher: report.NewPublisher(c.NodeID),
		Status:    report.NewPublisher(c.NodeID),
	}
	if !c.Quiet {
		e.Printer = &report.Printer{Out: os.Stdout}
	}
	if c.MQTTBrokerURL != "" {
		q, err := mqtt.NewQueueFromURL(c.MQTTBrokerURL)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("invalid MQTT URL: %w", err)
		}
		if err := q.Connect(); err != nil {
			e.Close()
			return nil, fmt.Errorf("connect MQTT broker error: %w", err)
		}
		e.closers = append(e.closers, q)
		e.Publisher.Add(mqtt.NewWriter(q, mqtt.NodeTopic(c.NodeID, mqtt.ResultsTopic)))
		e.Status.Add(mqtt.NewWriter(q, mqtt.NodeTopic(c.NodeID, mqtt.StatusTopic)))
	}
	if c.WebsocketAddr != "" {
		hub := websocket.NewHub(c.WebsocketAddr)
		if _, err := hub.Listen(); err != nil {
			e.Close()
			return nil, fmt.Errorf("websocket listen error: %w", err)
		}
		e.runners = append(e.runners, hub)
		e.Publisher.Add(hub)
		e.Status.Add(hub)
	}
	if c.RecordFile != "" {
		f, err := stream.Append(c.RecordFile)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open record file error: %w", err)
		}
		e.closers = append(e.closers, f)
		e.Publisher.Add(f)
		e.Status.Add(f)
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// Handler returns the result handler feeding all reporters.
func (e *Env) Handler() link.ResultHandler {
	mux := report.Mux{e.Stats}
	if e.Printer != nil {
		mux = append(mux, e.Printer)
	}
	if len(e.Publisher.Writers) > 0 {
		mux = append(mux, e.Publisher)
	}
	return mux
}

// Runners returns the background loops of the env, reporting the status
// of l periodically.
func (e *Env) Runners(l *link.Link) []fx.Runnable {
	runners := append([]fx.Runnable{}, e.runners...)
	if e.Config.StatusInterval > 0 && len(e.Status.Writers) > 0 {
		runners = append(runners, fx.NamedRun("status", fx.RunFunc(func(ctx context.Context) error {
			return e.reportStatus(ctx, l)
		})))
	}
	return runners
}

func (e *Env) reportStatus(ctx context.Context, l *link.Link) error {
	ticker := time.NewTicker(e.Config.StatusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.Status.Publish(e.Stats.Status(e.Config.NodeID, l)); err != nil {
				glog.Errorf("publish status error: %v", err)
			}
		}
	}
}

// Close releases reporter connections.
func (e *Env) Close() error {
	var errs fx.AggregatedError
	for _, c := range e.closers {
		errs.Add(c.Close())
	}
	return errs.Aggregate()
}
