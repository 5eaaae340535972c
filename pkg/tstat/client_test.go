package tstat_test

import (
	"context"
	"encoding/json"
	"github.com/clambin/tstat-exporter/pkg/tstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

var responses = map[string]string{
	"/tstat/model":     `{"model":"CT50 V1.94"}`,
	"/tstat":           `{"temp":70.50,"tmode":1,"fmode":0,"override":0,"hold":0,"t_heat":68.00,"tstate":1,"fstate":1,"time":{"day":3,"hour":12,"minute":26},"t_type_post":0}`,
	"/tstat/ttemp":     `{"t_heat":68.00,"t_cool":78.00}`,
	"/tstat/errstatus": `{"errstatus":0}`,
	"/tstat/datalog":   `{"today":{"heat_runtime":{"hour":1,"minute":25},"cool_runtime":{"hour":0,"minute":0}},"yesterday":{"heat_runtime":{"hour":3,"minute":5},"cool_runtime":{"hour":0,"minute":0}}}`,
}

type thermostat struct {
	responses map[string]string
	calls     atomic.Int32
	form      chan string
}

func (th *thermostat) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	th.calls.Add(1)
	if r.Method == http.MethodPost {
		body, _ := io.ReadAll(r.Body)
		th.form <- r.Header.Get("Content-Type") + " " + string(body)
		_, _ = w.Write([]byte(`{"success": 0}`))
		return
	}
	response, ok := th.responses[r.URL.Path]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_, _ = w.Write([]byte(response))
}

func newThermostat(responses map[string]string) (*thermostat, *httptest.Server) {
	th := thermostat{responses: responses, form: make(chan string, 1)}
	return &th, httptest.NewServer(&th)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		wantErr  assert.ErrorAssertionFunc
		wantKeys int
	}{
		{name: "CT50", model: `{"model":"CT50 V1.94"}`, wantErr: assert.NoError, wantKeys: 18},
		{name: "CT80", model: `{"model":"CT80 Rev B2 V1.03"}`, wantErr: assert.NoError, wantKeys: 20},
		{name: "unsupported", model: `{"model":"CT99"}`, wantErr: func(t assert.TestingT, err error, _ ...any) bool {
			return assert.ErrorIs(t, err, tstat.ErrUnsupportedModel)
		}},
		{name: "no model", model: `{}`, wantErr: func(t assert.TestingT, err error, _ ...any) bool {
			return assert.ErrorIs(t, err, tstat.ErrPathNotFound)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, s := newThermostat(map[string]string{"/tstat/model": tt.model})
			defer s.Close()

			c, err := tstat.New(context.Background(), s.URL)
			tt.wantErr(t, err)
			if err == nil {
				assert.Len(t, c.Keys(), tt.wantKeys)
			}
		})
	}
}

func TestClient_Accessors(t *testing.T) {
	th, s := newThermostat(responses)
	defer s.Close()

	ctx := context.Background()
	c, err := tstat.New(ctx, strings.TrimPrefix(s.URL, "http://"), tstat.WithHTTPClient(s.Client()))
	require.NoError(t, err)

	model, err := c.Model(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "CT50 V1.94", model)

	tests := []struct {
		name    string
		get     func(context.Context, bool) (any, error)
		want    any
		wantRaw any
	}{
		{name: "temp", get: c.CurrentTemp, want: json.Number("70.50"), wantRaw: json.Number("70.50")},
		{name: "tmode", get: c.ThermostatMode, want: "Heat", wantRaw: json.Number("1")},
		{name: "fmode", get: c.FanMode, want: "Auto", wantRaw: json.Number("0")},
		{name: "override", get: c.Override, want: "Disabled", wantRaw: json.Number("0")},
		{name: "hold", get: c.Hold, want: "Disabled", wantRaw: json.Number("0")},
		{name: "t_heat", get: c.HeatPoint, want: json.Number("68.00"), wantRaw: json.Number("68.00")},
		{name: "tstate", get: c.ThermostatState, want: "Heat", wantRaw: json.Number("1")},
		{name: "fstate", get: c.FanState, want: "On", wantRaw: json.Number("1")},
		{name: "errstatus", get: c.ErrStatus, want: "OK", wantRaw: json.Number("0")},
		{
			name:    "today heat",
			get:     c.HeatUsageToday,
			want:    map[string]any{"hour": json.Number("1"), "minute": json.Number("25")},
			wantRaw: map[string]any{"hour": json.Number("1"), "minute": json.Number("25")},
		},
		{
			name:    "yesterday heat",
			get:     c.HeatUsageYesterday,
			want:    map[string]any{"hour": json.Number("3"), "minute": json.Number("5")},
			wantRaw: map[string]any{"hour": json.Number("3"), "minute": json.Number("5")},
		},
		{
			name:    "today cool",
			get:     c.CoolUsageToday,
			want:    map[string]any{"hour": json.Number("0"), "minute": json.Number("0")},
			wantRaw: map[string]any{"hour": json.Number("0"), "minute": json.Number("0")},
		},
		{
			name:    "yesterday cool",
			get:     c.CoolUsageYesterday,
			want:    map[string]any{"hour": json.Number("0"), "minute": json.Number("0")},
			wantRaw: map[string]any{"hour": json.Number("0"), "minute": json.Number("0")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := tt.get(ctx, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, value)
			value, err = tt.get(ctx, true)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRaw, value)
		})
	}

	// /tstat/model, /tstat, /tstat/errstatus, /tstat/datalog
	assert.Equal(t, int32(4), th.calls.Load())

	day, hour, minute, err := c.Time(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "Thursday", day)
	assert.Equal(t, json.Number("12"), hour)
	assert.Equal(t, json.Number("26"), minute)

	ok, err := c.IsOK(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// /tstat is cached and holds no t_cool while heating
	_, _, err = c.SetPoints(ctx, false)
	assert.ErrorIs(t, err, tstat.ErrPathNotFound)

	// with an empty cache, the first getter (/tstat) is fetched again
	c.SetTTL(0)
	_, err = c.CoolPoint(ctx, false)
	assert.ErrorIs(t, err, tstat.ErrPathNotFound)
	assert.Equal(t, int32(5), th.calls.Load())
}

func TestClient_SetCloudMode(t *testing.T) {
	th, s := newThermostat(responses)
	defer s.Close()

	ctx := context.Background()
	c, err := tstat.New(ctx, s.URL)
	require.NoError(t, err)

	status, err := c.SetCloudMode(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/x-www-form-urlencoded command=off", <-th.form)

	status, err = c.SetCloudMode(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/x-www-form-urlencoded command=on", <-th.form)

	s.Close()
	_, err = c.SetCloudMode(ctx, true)
	assert.ErrorIs(t, err, &tstat.TransportError{})
}

func TestClient_WithRegistry(t *testing.T) {
	th, s := newThermostat(responses)
	defer s.Close()

	registry := tstat.Registry{"temp": {Getters: []tstat.Getter{{Endpoint: "/tstat/temp", Path: "temp"}, {Endpoint: "/tstat", Path: "temp"}}}}
	ctx := context.Background()
	c, err := tstat.New(ctx, s.URL, tstat.WithRegistry(registry), tstat.WithTTL(0))
	require.NoError(t, err)
	assert.Zero(t, th.calls.Load(), "no model detection with a registry")
	assert.Equal(t, []string{"temp"}, c.Keys())

	_, err = c.CurrentTemp(ctx, false)
	var transportError *tstat.TransportError
	require.ErrorAs(t, err, &transportError)
	assert.Equal(t, http.StatusNotFound, transportError.Status)

	_, err = c.Model(ctx, false)
	assert.ErrorIs(t, err, tstat.ErrUnknownKey)
}

func TestClient_WithRegistry_Invalid(t *testing.T) {
	th, s := newThermostat(responses)
	defer s.Close()

	tests := []struct {
		name     string
		registry tstat.Registry
	}{
		{name: "no getters", registry: tstat.Registry{"temp": {}}},
		{name: "no path", registry: tstat.Registry{"temp": {Getters: []tstat.Getter{{Endpoint: "/tstat"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tstat.New(context.Background(), s.URL, tstat.WithRegistry(tt.registry))
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
	assert.Zero(t, th.calls.Load())
}
