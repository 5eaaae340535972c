package collector

import (
	"context"
	"encoding/json"
	"github.com/clambin/tstat-exporter/internal/poller"
	"github.com/clambin/tstat-exporter/internal/poller/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var update = poller.Update{
	Timestamp: time.Now(),
	Readings: poller.Readings{
		"temp":                   {Raw: json.Number("70.5"), Value: json.Number("70.5")},
		"t_heat":                 {Raw: json.Number("68"), Value: json.Number("68")},
		"tmode":                  {Raw: json.Number("1"), Value: "Heat"},
		"fmode":                  {Raw: json.Number("0"), Value: "Auto"},
		"tstate":                 {Raw: json.Number("1"), Value: "Heat"},
		"fstate":                 {Raw: json.Number("1"), Value: "On"},
		"override":               {Raw: json.Number("0"), Value: "Disabled"},
		"hold":                   {Raw: json.Number("1"), Value: "Enabled"},
		"humidity":               {Raw: json.Number("-1"), Value: json.Number("-1")},
		"today_heat_runtime":     {Raw: map[string]any{"hour": json.Number("1"), "minute": json.Number("25")}},
		"today_cool_runtime":     {Raw: map[string]any{"hour": json.Number("0"), "minute": json.Number("0")}},
		"yesterday_heat_runtime": {Raw: "invalid"},
	},
}

func TestCollector(t *testing.T) {
	ch := make(chan poller.Update)
	p := mocks.NewPoller(t)
	p.EXPECT().Subscribe().Return(ch).Once()
	p.EXPECT().Unsubscribe(ch).Once()

	c := Collector{Poller: p, Logger: slog.New(slog.DiscardHandler)}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- c.Run(ctx) }()

	assert.Zero(t, testutil.CollectAndCount(&c))

	ch <- update
	assert.Eventually(t, func() bool {
		return testutil.CollectAndCount(&c) > 0
	}, time.Second, 10*time.Millisecond)

	assert.NoError(t, testutil.CollectAndCompare(&c, strings.NewReader(`
# HELP tstat_fan_mode Fan mode. Always 1. Label mode specifies the mode
# TYPE tstat_fan_mode gauge
tstat_fan_mode{mode="Auto"} 1

# HELP tstat_fan_state Fan state. Always 1. Label state specifies the state
# TYPE tstat_fan_state gauge
tstat_fan_state{state="On"} 1

# HELP tstat_hold 1 if the target temperature is on hold
# TYPE tstat_hold gauge
tstat_hold 1

# HELP tstat_mode Thermostat mode. Always 1. Label mode specifies the mode
# TYPE tstat_mode gauge
tstat_mode{mode="Heat"} 1

# HELP tstat_override 1 if the target temperature is temporarily overridden
# TYPE tstat_override gauge
tstat_override 0

# HELP tstat_runtime_minutes HVAC runtime in minutes
# TYPE tstat_runtime_minutes gauge
tstat_runtime_minutes{day="today",mode="cool"} 0
tstat_runtime_minutes{day="today",mode="heat"} 85

# HELP tstat_state HVAC state. Always 1. Label state specifies the state
# TYPE tstat_state gauge
tstat_state{state="Heat"} 1

# HELP tstat_target_temperature_fahrenheit Target temperature in degrees fahrenheit. Label mode specifies heating or cooling
# TYPE tstat_target_temperature_fahrenheit gauge
tstat_target_temperature_fahrenheit{mode="heat"} 68

# HELP tstat_temperature_fahrenheit Current temperature in degrees fahrenheit
# TYPE tstat_temperature_fahrenheit gauge
tstat_temperature_fahrenheit 70.5
`)))

	cancel()
	assert.NoError(t, <-errCh)
}
