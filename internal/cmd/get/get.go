package get

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/clambin/tstat-exporter/pkg/tstat"
	"io"
)

type Encoder interface {
	Encode(any) error
}

type Getter interface {
	Get(ctx context.Context, key string, raw bool) (any, error)
	Keys() []string
}

// Show encodes the value of each key. If no keys are given, all keys are shown.
// Keys that the thermostat currently doesn't report (e.g. t_cool while heating) are left out.
func Show(ctx context.Context, g Getter, keys []string, raw bool, e Encoder) error {
	if len(keys) == 0 {
		keys = g.Keys()
	}
	values := make(map[string]any, len(keys))
	for _, key := range keys {
		value, err := g.Get(ctx, key, raw)
		if err != nil {
			if errors.Is(err, tstat.ErrPathNotFound) {
				continue
			}
			return fmt.Errorf("%s: %w", key, err)
		}
		values[key] = normalize(value)
	}
	return e.Encode(values)
}

// ShowKeys writes all supported keys, one per line.
func ShowKeys(g Getter, w io.Writer) error {
	for _, key := range g.Keys() {
		if _, err := fmt.Fprintln(w, key); err != nil {
			return err
		}
	}
	return nil
}

// normalize converts json.Number values to int64 or float64, so encoders show them as numbers.
func normalize(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	default:
		return value
	}
}
