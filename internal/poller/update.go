package poller

import (
	"github.com/clambin/tstat-exporter/pkg/tstat"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Update holds the readings of one poll of the thermostat.
type Update struct {
	Timestamp time.Time `json:"timestamp"`
	Readings  Readings  `json:"readings"`
}

// Reading holds the value of one logical key, as reported by the thermostat (Raw) and as display value (Value).
type Reading struct {
	Raw   any `json:"raw"`
	Value any `json:"value"`
}

// Readings maps logical keys to their Reading.
type Readings map[string]Reading

// Float returns the raw value of the key as a float64.
func (u Update) Float(key string) (float64, bool) {
	reading, ok := u.Readings[key]
	if !ok {
		return 0, false
	}
	return tstat.Float64(reading.Raw)
}

// Minutes returns the raw value of a runtime key in minutes.
func (u Update) Minutes(key string) (float64, bool) {
	reading, ok := u.Readings[key]
	if !ok {
		return 0, false
	}
	return tstat.Minutes(reading.Raw)
}

// Display returns the display value of the key as a string.
func (u Update) Display(key string) (string, bool) {
	reading, ok := u.Readings[key]
	if !ok {
		return "", false
	}
	if s, ok := reading.Value.(string); ok {
		return s, true
	}
	return slog.AnyValue(reading.Value).String(), true
}

func (r Readings) LogValue() slog.Value {
	attribs := make([]slog.Attr, 0, len(r))
	for _, key := range slices.Sorted(maps.Keys(r)) {
		attribs = append(attribs, slog.Any(key, r[key].Value))
	}
	return slog.GroupValue(attribs...)
}
