// Package influx writes thermostat readings to InfluxDB.
package influx

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/tstat-exporter/internal/poller"
	"github.com/clambin/tstat-exporter/pkg/tstat"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"log/slog"
	"time"
)

const (
	measurement        = "thermostat"
	defaultPingTimeout = 5 * time.Second
)

// Writer is the part of api.WriteAPIBlocking used by the Sink.
type Writer interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Connect returns a client for the InfluxDB server at url, after verifying the server is healthy.
func Connect(ctx context.Context, url, token string) (influxdb2.Client, error) {
	client := influxdb2.NewClient(url, token)

	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	healthy, err := client.Ping(ctx)
	if err == nil && !healthy {
		err = errors.New("server not healthy")
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influxdb: ping: %w", err)
	}
	return client, nil
}

// Sink writes every update received from the Poller as a single point, tagged with the thermostat's name.
// Numeric readings become fields. Runtimes are written in minutes.
type Sink struct {
	Poller     poller.Poller
	Writer     Writer
	Thermostat string
	Logger     *slog.Logger
}

func (s *Sink) Run(ctx context.Context) error {
	s.Logger.Debug("started")
	defer s.Logger.Debug("stopped")

	ch := s.Poller.Subscribe()
	defer s.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			if err := s.write(ctx, update); err != nil {
				s.Logger.Error("failed to write update", "err", err)
			}
		}
	}
}

func (s *Sink) write(ctx context.Context, update poller.Update) error {
	point := s.makePoint(update)
	if point == nil {
		return nil
	}
	return s.Writer.WritePoint(ctx, point)
}

func (s *Sink) makePoint(update poller.Update) *write.Point {
	fields := make(map[string]interface{}, len(update.Readings))
	for key, reading := range update.Readings {
		if value, ok := tstat.Minutes(reading.Raw); ok {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return write.NewPoint(measurement, map[string]string{"thermostat": s.Thermostat}, fields, update.Timestamp)
}
