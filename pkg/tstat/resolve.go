package tstat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Get returns the value of the logical key. If raw is false and the key has a value map, the value is translated
// to its display value. Values that aren't in the map are returned unchanged.
//
// Get uses the most recent valid cached response among the key's getters. If none is cached, it fetches
// the key's first getter and caches the response.
func (c *Client) Get(ctx context.Context, key string, raw bool) (any, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	endpoint, err := c.registry.Lookup(key)
	if err != nil {
		return nil, err
	}

	best := c.freshest(endpoint.Getters)
	if !best.found {
		best.getter = endpoint.Getters[0]
		if best.payload, err = c.fetch(ctx, best.getter.Endpoint); err != nil {
			return nil, err
		}
	}

	value, err := extract(best.payload, best.getter.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	c.logger.Debug("value found", "key", key, "getter", best.getter.Endpoint, "cached", best.found, "value", value)

	if raw || endpoint.Values == nil {
		return value, nil
	}
	return remap(value, endpoint.Values), nil
}

type candidate struct {
	getter  Getter
	payload map[string]any
	age     time.Duration
	found   bool
}

// freshest returns the getter with the youngest valid cache entry. On equal age, the first getter wins.
func (c *Client) freshest(getters []Getter) candidate {
	var best candidate
	for _, getter := range getters {
		payload, age, ok := c.cache.Get(getter.Endpoint)
		if !ok || !c.cache.Valid(age) {
			continue
		}
		if !best.found || age < best.age {
			best = candidate{getter: getter, payload: payload, age: age, found: true}
		}
	}
	return best
}

func (c *Client) fetch(ctx context.Context, endpoint string) (map[string]any, error) {
	start := time.Now()
	body, status, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Status: status, Err: err}
	}
	if status != http.StatusOK {
		return nil, &TransportError{Endpoint: endpoint, Status: status}
	}

	var payload map[string]any
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err = decoder.Decode(&payload); err != nil {
		return nil, &TransportError{Endpoint: endpoint, Status: status, Err: fmt.Errorf("decode: %w", err)}
	}
	c.logger.Debug("endpoint fetched", "endpoint", endpoint, slog.Duration("duration", time.Since(start)))

	c.cache.Put(endpoint, payload)
	return payload, nil
}

// extract walks the slash-separated path down the payload.
func extract(payload map[string]any, path string) (any, error) {
	var value any = payload
	for _, element := range strings.Split(path, "/") {
		object, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
		}
		if value, ok = object[element]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
		}
	}
	return value, nil
}

func remap(value any, values map[string]string) any {
	if key, ok := valueKey(value); ok {
		if mapped, ok := values[key]; ok {
			return mapped
		}
	}
	return value
}

// valueKey returns the key of a raw value in a value map: numbers and booleans by their JSON text, strings as is.
func valueKey(value any) (string, bool) {
	switch v := value.(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
