package tstat

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	clock := fakeClock{now: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache(5 * time.Second)
	c.now = clock.Now

	_, _, ok := c.Get("/tstat")
	assert.False(t, ok)

	c.Put("/tstat", map[string]any{"temp": 70.5})
	clock.advance(3 * time.Second)
	payload, age, ok := c.Get("/tstat")
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, age)
	assert.Equal(t, map[string]any{"temp": 70.5}, payload)
	assert.True(t, c.Valid(age))

	c.SetTTL(3 * time.Second)
	assert.False(t, c.Valid(age), "ttl applies to existing entries")

	c.Put("/tstat", map[string]any{"temp": 71.0})
	payload, age, ok = c.Get("/tstat")
	assert.True(t, ok)
	assert.Zero(t, age)
	assert.Equal(t, map[string]any{"temp": 71.0}, payload)
	assert.Equal(t, 1, c.Len(), "one entry per endpoint")
}

func TestCache_Valid(t *testing.T) {
	c := NewCache(5 * time.Second)
	assert.True(t, c.Valid(0))
	assert.True(t, c.Valid(5*time.Second-time.Nanosecond))
	assert.False(t, c.Valid(5*time.Second))
	assert.False(t, c.Valid(time.Hour))

	c.SetTTL(0)
	assert.Equal(t, time.Duration(0), c.TTL())
	assert.False(t, c.Valid(0))
}

func BenchmarkCache_Get(b *testing.B) {
	c := NewCache(time.Hour)
	c.Put("/tstat", map[string]any{"temp": 70.5})
	b.ResetTimer()
	for range b.N {
		if _, age, ok := c.Get("/tstat"); !ok || !c.Valid(age) {
			b.Fatal("cache miss")
		}
	}
}
