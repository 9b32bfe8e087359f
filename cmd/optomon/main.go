package main

import (
	"context"
	"flag"
	"log"
	"os"
	"reflect"

	"github.com/golang/glog"

	fx "github.com/robotalks/optolink/pkg/framework"
	"github.com/robotalks/optolink/pkg/msgs"
	"github.com/robotalks/optolink/pkg/report"
	"github.com/robotalks/optolink/pkg/report/mqtt"
	"github.com/robotalks/optolink/pkg/report/stream"
)

var (
	mqttURL    = "mqtt://localhost:1883/optolink/"
	recordFile string
)

func init() {
	if val := os.Getenv("OPTO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&recordFile, "replay", recordFile, "Print events recorded in a file instead of subscribing.")
}

func printMessage(msg msgs.Message) {
	log.Printf("[%s] %s", reflect.Indirect(reflect.ValueOf(msg)).Type().Name(), msg.String())
}

func replay() error {
	f, err := stream.Open(recordFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.Drain(f, printMessage)
}

func subscribe() error {
	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		return err
	}
	if err := q.Connect(); err != nil {
		return err
	}
	defer q.Close()

	results := mqtt.NewReader(q, mqtt.AnyNodeTopic(mqtt.ResultsTopic))
	status := mqtt.NewReader(q, mqtt.AnyNodeTopic(mqtt.StatusTopic))
	drain := func(r *mqtt.Reader) fx.RunFunc {
		return func(ctx context.Context) error {
			return report.Drain(r, printMessage)
		}
	}
	return fx.NewRunner().HandleSignals().Run(
		fx.NamedRun("results", results),
		fx.NamedRun("status", status),
		fx.NamedRun("print-results", drain(results)),
		fx.NamedRun("print-status", drain(status)),
	)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)
	defer glog.Flush()

	run := subscribe
	if recordFile != "" {
		run = replay
	}
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}
