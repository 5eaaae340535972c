// Package tstat provides a client for Radio Thermostat wifi thermostats (CT30, CT50, CT80, 3M50).
//
// A Client translates logical keys ("temp", "fmode", "t_heat", ...) into calls to the thermostat's HTTP API:
//
//	c, err := tstat.New(ctx, "192.168.0.10")
//	temp, err := c.CurrentTemp(ctx, false)
//	mode, err := c.FanMode(ctx, false) // "Auto", "Auto/Circulate" or "On"
//
// Responses are cached per endpoint, so reading several keys served by the same endpoint (e.g. /tstat)
// results in a single call. The cache TTL defaults to DefaultTTL and can be changed with SetTTL.
//
// Each accessor takes a raw flag. When set, the value is returned as reported by the thermostat. Otherwise, values
// with a known meaning (modes, states, ...) are translated to a display value.
package tstat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Client reads and writes the settings of one thermostat.
//
// A Client is safe for concurrent use: calls are serialized, so concurrent reads of the same endpoint
// result in a single call to the thermostat.
type Client struct {
	address    string
	httpClient *http.Client
	transport  Transport
	registry   Registry
	cache      *Cache
	logger     *slog.Logger
	lock       sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithTTL sets the time a cached response remains valid.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache.SetTTL(ttl)
	}
}

// WithRegistry sets the Registry to use, instead of detecting the thermostat's model.
func WithRegistry(registry Registry) Option {
	return func(c *Client) {
		c.registry = registry
	}
}

// WithLogger sets the logger. By default, the Client does not log.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets the http.Client used to call the thermostat. Ignored if WithTransport is used.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTransport replaces the HTTP transport used to call the thermostat.
func WithTransport(transport Transport) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// New returns a Client for the thermostat at address.
//
// Unless a Registry is provided with WithRegistry, New queries the thermostat's model and uses the matching
// Registry from Models. If the model is not supported, New returns ErrUnsupportedModel.
// A Registry provided with WithRegistry must pass Validate.
func New(ctx context.Context, address string, options ...Option) (*Client, error) {
	c := Client{
		address: address,
		cache:   NewCache(DefaultTTL),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(&c)
	}
	if c.transport == nil {
		c.transport = &HTTPTransport{Address: c.address, HTTPClient: c.httpClient}
	}
	if c.registry != nil {
		if err := c.registry.Validate(); err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		return &c, nil
	}
	if err := c.detectModel(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Client) detectModel(ctx context.Context) error {
	c.registry = bootstrapRegistry
	model, err := c.Get(ctx, "model", true)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}
	name, _ := model.(string)
	registry, ok := ModelRegistry(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedModel, name)
	}
	c.logger.Debug("thermostat model detected", "model", name)
	c.registry = registry
	return nil
}

// Keys returns the logical keys supported by the Client.
func (c *Client) Keys() []string {
	return c.registry.Keys()
}

// SetTTL changes the time a cached response remains valid. This applies to responses that are already cached.
// A TTL of zero disables the cache.
func (c *Client) SetTTL(ttl time.Duration) {
	c.cache.SetTTL(ttl)
}

// TTL returns the current cache TTL.
func (c *Client) TTL() time.Duration {
	return c.cache.TTL()
}

// CurrentTemp returns the current temperature.
func (c *Client) CurrentTemp(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "temp", raw)
}

// ThermostatMode returns the thermostat mode: Off, Heat, Cool or Auto.
func (c *Client) ThermostatMode(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "tmode", raw)
}

// FanMode returns the fan mode: Auto, Auto/Circulate or On.
func (c *Client) FanMode(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "fmode", raw)
}

// Override returns the override setting.
func (c *Client) Override(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "override", raw)
}

// Hold returns the hold state.
func (c *Client) Hold(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "hold", raw)
}

// HeatPoint returns the target temperature for heating. The thermostat only reports it in Heat mode,
// so in other modes this may return ErrPathNotFound.
func (c *Client) HeatPoint(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "t_heat", raw)
}

// CoolPoint returns the target temperature for cooling. As with HeatPoint, this may return ErrPathNotFound
// if the thermostat is not in Cool mode.
func (c *Client) CoolPoint(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "t_cool", raw)
}

// SetPoints returns both the heating and the cooling target temperature.
func (c *Client) SetPoints(ctx context.Context, raw bool) (heat any, cool any, err error) {
	if heat, err = c.HeatPoint(ctx, raw); err == nil {
		cool, err = c.CoolPoint(ctx, raw)
	}
	return heat, cool, err
}

// Model returns the thermostat model, e.g. "CT50 V1.94".
func (c *Client) Model(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "model", raw)
}

// ThermostatState returns the current HVAC state: Off, Heat or Cool.
func (c *Client) ThermostatState(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "tstate", raw)
}

// FanState returns the current fan state: Off or On.
func (c *Client) FanState(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "fstate", raw)
}

// Time returns the thermostat's clock.
func (c *Client) Time(ctx context.Context, raw bool) (day any, hour any, minute any, err error) {
	if day, err = c.Get(ctx, "day", raw); err == nil {
		if hour, err = c.Get(ctx, "hour", raw); err == nil {
			minute, err = c.Get(ctx, "minute", raw)
		}
	}
	return day, hour, minute, err
}

// HeatUsageToday returns today's heating runtime.
func (c *Client) HeatUsageToday(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "today_heat_runtime", raw)
}

// HeatUsageYesterday returns yesterday's heating runtime.
func (c *Client) HeatUsageYesterday(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "yesterday_heat_runtime", raw)
}

// CoolUsageToday returns today's cooling runtime.
func (c *Client) CoolUsageToday(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "today_cool_runtime", raw)
}

// CoolUsageYesterday returns yesterday's cooling runtime.
func (c *Client) CoolUsageYesterday(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "yesterday_cool_runtime", raw)
}

// ErrStatus returns the thermostat's error code. Zero means no error.
func (c *Client) ErrStatus(ctx context.Context, raw bool) (any, error) {
	return c.Get(ctx, "errstatus", raw)
}

// IsOK returns true if the thermostat doesn't report an error.
func (c *Client) IsOK(ctx context.Context) (bool, error) {
	status, err := c.ErrStatus(ctx, true)
	if err != nil {
		return false, err
	}
	code, ok := status.(json.Number)
	return ok && code.String() == "0", nil
}

// SetCloudMode enables or disables the thermostat's cloud mode and returns the HTTP status code of the call.
func (c *Client) SetCloudMode(ctx context.Context, on bool) (int, error) {
	command := "on"
	if !on {
		command = "off"
	}
	c.logger.Debug("setting cloud mode", "command", command)
	status, err := c.transport.Post(ctx, "/cloud/mode", url.Values{"command": {command}})
	if err != nil {
		return status, &TransportError{Endpoint: "/cloud/mode", Err: err}
	}
	return status, nil
}
