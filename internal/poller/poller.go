package poller

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/go-common/set"
	"github.com/clambin/tstat-exporter/pkg/pubsub"
	"github.com/clambin/tstat-exporter/pkg/tstat"
	"log/slog"
	"time"
)

type Poller interface {
	Subscribe() chan Update
	Unsubscribe(ch chan Update)
	Refresh()
}

type Thermostat interface {
	Get(ctx context.Context, key string, raw bool) (any, error)
	Keys() []string
}

var _ Poller = &ThermostatPoller{}

// ThermostatPoller reads the thermostat at a fixed interval and publishes the result to its subscribers.
type ThermostatPoller struct {
	Thermostat Thermostat
	*pubsub.Publisher[Update]
	keys     set.Set[string]
	allKeys  bool
	interval time.Duration
	logger   *slog.Logger
	refresh  chan struct{}
}

// New returns a new ThermostatPoller. If keys is empty, all keys supported by the thermostat are polled.
func New(thermostat Thermostat, interval time.Duration, keys []string, logger *slog.Logger) *ThermostatPoller {
	return &ThermostatPoller{
		Thermostat: thermostat,
		Publisher:  pubsub.New[Update](logger.With(slog.String("component", "publisher"))),
		keys:       set.New(keys...),
		allKeys:    len(keys) == 0,
		interval:   interval,
		logger:     logger,
		refresh:    make(chan struct{}, 1),
	}
}

func (p *ThermostatPoller) Run(ctx context.Context) error {
	p.logger.Debug("started", slog.Duration("interval", p.interval))
	defer p.logger.Debug("stopped")

	timer := time.NewTicker(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		case <-p.refresh:
		}
		if err := p.poll(ctx); err != nil {
			p.logger.Error("failed to get thermostat readings", slog.Any("err", err))
		}
	}
}

// Refresh requests an immediate poll. If a refresh is already pending, Refresh does nothing.
func (p *ThermostatPoller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

func (p *ThermostatPoller) poll(ctx context.Context) error {
	start := time.Now()
	update, err := p.update(ctx)
	if err == nil {
		p.Publisher.Publish(update)
		p.logger.Debug("poll completed", slog.Duration("duration", time.Since(start)), slog.Any("readings", update.Readings))
	}
	return err
}

func (p *ThermostatPoller) update(ctx context.Context) (Update, error) {
	update := Update{Timestamp: time.Now(), Readings: make(Readings)}
	for _, key := range p.Thermostat.Keys() {
		if !p.allKeys && !p.keys.Contains(key) {
			continue
		}
		reading, err := p.read(ctx, key)
		if errors.Is(err, tstat.ErrPathNotFound) {
			// e.g. t_cool isn't reported while heating
			p.logger.Debug("key not reported", slog.String("key", key))
			continue
		}
		if err != nil {
			return Update{}, fmt.Errorf("%s: %w", key, err)
		}
		update.Readings[key] = reading
	}
	return update, nil
}

func (p *ThermostatPoller) read(ctx context.Context, key string) (Reading, error) {
	var reading Reading
	var err error
	if reading.Raw, err = p.Thermostat.Get(ctx, key, true); err == nil {
		reading.Value, err = p.Thermostat.Get(ctx, key, false)
	}
	return reading, err
}
