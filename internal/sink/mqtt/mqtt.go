// Package mqtt publishes thermostat readings to an MQTT broker.
//
// Each reading is published, retained, to <prefix>/<key>, with the reading's display value as payload.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/clambin/tstat-exporter/internal/poller"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"log/slog"
	"maps"
	"path"
	"slices"
	"strconv"
	"time"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	defaultKeepAlive      = 60 * time.Second
)

// Publisher is the part of pahomqtt.Client used by the Sink.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// Connect connects to the broker at url (e.g. tcp://localhost:1883).
func Connect(url, clientID, username, password string) (pahomqtt.Client, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(url).
		SetClientID(clientID).
		SetKeepAlive(defaultKeepAlive).
		SetConnectTimeout(defaultConnectTimeout).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if username != "" {
		opts.SetUsername(username)
		opts.SetPassword(password)
	}

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("mqtt: connect: timeout after %v", defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", err)
	}
	return client, nil
}

// Sink publishes every update received from the Poller.
type Sink struct {
	Poller    poller.Poller
	Publisher Publisher
	Prefix    string
	QoS       byte
	Logger    *slog.Logger
}

func (s *Sink) Run(ctx context.Context) error {
	s.Logger.Debug("started", "prefix", s.Prefix)
	defer s.Logger.Debug("stopped")

	ch := s.Poller.Subscribe()
	defer s.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			if err := s.publish(update); err != nil {
				s.Logger.Error("failed to publish update", "err", err)
			}
		}
	}
}

func (s *Sink) publish(update poller.Update) error {
	var errs []error
	for _, key := range slices.Sorted(maps.Keys(update.Readings)) {
		value := payload(update, key)
		topic := path.Join(s.Prefix, key)
		token := s.Publisher.Publish(topic, s.QoS, true, value)
		if !token.WaitTimeout(defaultPublishTimeout) {
			errs = append(errs, fmt.Errorf("%s: timeout after %v", topic, defaultPublishTimeout))
			continue
		}
		if err := token.Error(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}

// payload returns the reading's display value. Runtimes, reported as {"hour": h, "minute": m} objects,
// are published in minutes. Any other object is published as JSON.
func payload(update poller.Update, key string) string {
	reading := update.Readings[key]
	switch reading.Value.(type) {
	case map[string]any, []any:
		if minutes, ok := update.Minutes(key); ok {
			return strconv.FormatFloat(minutes, 'f', -1, 64)
		}
		if body, err := json.Marshal(reading.Value); err == nil {
			return string(body)
		}
	}
	value, _ := update.Display(key)
	return value
}
