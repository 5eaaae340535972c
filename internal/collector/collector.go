package collector

import (
	"context"
	"github.com/clambin/tstat-exporter/internal/poller"
	"github.com/prometheus/client_golang/prometheus"
	"log/slog"
	"sync"
)

var (
	tstatTemperature = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "", "temperature_fahrenheit"),
		"Current temperature in degrees fahrenheit",
		nil,
		nil,
	)
	tstatTargetTemperature = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "", "target_temperature_fahrenheit"),
		"Target temperature in degrees fahrenheit. Label mode specifies heating or cooling",
		[]string{"mode"},
		nil,
	)
	tstatMode = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "", "mode"),
		"Thermostat mode. Always 1. Label mode specifies the mode",
		[]string{"mode"},
		nil,
	)
	tstatFanMode = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "fan", "mode"),
		"Fan mode. Always 1. Label mode specifies the mode",
		[]string{"mode"},
		nil,
	)
	tstatState = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "", "state"),
		"HVAC state. Always 1. Label state specifies the state",
		[]string{"state"},
		nil,
	)
	tstatFanState = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "fan", "state"),
		"Fan state. Always 1. Label state specifies the state",
		[]string{"state"},
		nil,
	)
	tstatOverride = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "", "override"),
		"1 if the target temperature is temporarily overridden",
		nil,
		nil,
	)
	tstatHold = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "", "hold"),
		"1 if the target temperature is on hold",
		nil,
		nil,
	)
	tstatRuntime = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "", "runtime_minutes"),
		"HVAC runtime in minutes",
		[]string{"mode", "day"},
		nil,
	)
	tstatHumidity = prometheus.NewDesc(
		prometheus.BuildFQName("tstat", "", "humidity_percentage"),
		"Current humidity percentage (0-100)",
		nil,
		nil,
	)
)

type Collector struct {
	Poller     poller.Poller
	Logger     *slog.Logger
	lock       sync.RWMutex
	lastUpdate *poller.Update
}

func (c *Collector) Run(ctx context.Context) error {
	c.Logger.Debug("started")
	defer c.Logger.Debug("stopped")

	ch := c.Poller.Subscribe()
	defer c.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			c.lock.Lock()
			c.lastUpdate = &update
			c.lock.Unlock()
		}
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- tstatTemperature
	ch <- tstatTargetTemperature
	ch <- tstatMode
	ch <- tstatFanMode
	ch <- tstatState
	ch <- tstatFanState
	ch <- tstatOverride
	ch <- tstatHold
	ch <- tstatRuntime
	ch <- tstatHumidity
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.lastUpdate != nil {
		c.collectTemperatures(ch)
		c.collectModes(ch)
		c.collectRuntimes(ch)
	}
}

func (c *Collector) collectTemperatures(ch chan<- prometheus.Metric) {
	if value, ok := c.lastUpdate.Float("temp"); ok {
		ch <- prometheus.MustNewConstMetric(tstatTemperature, prometheus.GaugeValue, value)
	}
	if value, ok := c.lastUpdate.Float("t_heat"); ok {
		ch <- prometheus.MustNewConstMetric(tstatTargetTemperature, prometheus.GaugeValue, value, "heat")
	}
	if value, ok := c.lastUpdate.Float("t_cool"); ok {
		ch <- prometheus.MustNewConstMetric(tstatTargetTemperature, prometheus.GaugeValue, value, "cool")
	}
	if value, ok := c.lastUpdate.Float("humidity"); ok && value >= 0 {
		// the CT80 reports -1 without a humidity sensor
		ch <- prometheus.MustNewConstMetric(tstatHumidity, prometheus.GaugeValue, value)
	}
}

func (c *Collector) collectModes(ch chan<- prometheus.Metric) {
	for key, desc := range map[string]*prometheus.Desc{
		"tmode":  tstatMode,
		"fmode":  tstatFanMode,
		"tstate": tstatState,
		"fstate": tstatFanState,
	} {
		if label, ok := c.lastUpdate.Display(key); ok {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, 1, label)
		}
	}
	for key, desc := range map[string]*prometheus.Desc{
		"override": tstatOverride,
		"hold":     tstatHold,
	} {
		if value, ok := c.lastUpdate.Float(key); ok {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, value)
		}
	}
}

func (c *Collector) collectRuntimes(ch chan<- prometheus.Metric) {
	for _, day := range []string{"today", "yesterday"} {
		for _, mode := range []string{"heat", "cool"} {
			key := day + "_" + mode + "_runtime"
			value, ok := c.lastUpdate.Minutes(key)
			if !ok {
				if _, found := c.lastUpdate.Readings[key]; found {
					c.Logger.Warn("invalid runtime reported. skipping collection", "key", key)
				}
				continue
			}
			ch <- prometheus.MustNewConstMetric(tstatRuntime, prometheus.GaugeValue, value, mode, day)
		}
	}
}
