package tstat

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"maps"
	"slices"
)

// A Getter describes where to find a logical key's value: the endpoint to GET and the slash-separated
// path of the value inside the endpoint's JSON response.
type Getter struct {
	Endpoint string `yaml:"endpoint"`
	Path     string `yaml:"path"`
}

// An Endpoint describes how to retrieve one logical key.
//
// Getters lists the candidate locations of the value. When none of them are cached, the first one is fetched.
// Values optionally maps raw values to display values. Numbers and booleans are looked up by their JSON text
// (e.g. "0" or "true"), strings as is.
type Endpoint struct {
	Getters []Getter          `yaml:"getters"`
	Values  map[string]string `yaml:"values,omitempty"`
}

// Registry maps logical keys to their Endpoint.
type Registry map[string]Endpoint

// Lookup returns the Endpoint for the logical key.
func (r Registry) Lookup(key string) (Endpoint, error) {
	endpoint, ok := r[key]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return endpoint, nil
}

// Keys returns all logical keys in the Registry, sorted.
func (r Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Validate checks that every key in the Registry has at least one Getter.
func (r Registry) Validate() error {
	var errs []error
	for _, key := range r.Keys() {
		if len(r[key].Getters) == 0 {
			errs = append(errs, fmt.Errorf("%s: no getters", key))
		}
		for _, g := range r[key].Getters {
			if g.Endpoint == "" || g.Path == "" {
				errs = append(errs, fmt.Errorf("%s: getter needs an endpoint and a path", key))
			}
		}
	}
	return errors.Join(errs...)
}

// With returns a new Registry holding the entries of r, overridden by those of other.
func (r Registry) With(other Registry) Registry {
	merged := make(Registry, len(r)+len(other))
	maps.Copy(merged, r)
	maps.Copy(merged, other)
	return merged
}

// LoadRegistry reads a Registry from a YAML document:
//
//	fmode:
//	  getters:
//	    - endpoint: /tstat
//	      path: fmode
//	  values:
//	    "0": Auto
//	    "2": "On"
func LoadRegistry(r io.Reader) (Registry, error) {
	var registry Registry
	if err := yaml.NewDecoder(r).Decode(&registry); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if len(registry) == 0 {
		return nil, errors.New("registry: no keys")
	}
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return registry, nil
}
