package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 20*time.Millisecond)
	value, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, value)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestTTLCacheZeroTTLPersists(t *testing.T) {
	c := NewTTLCache[string, string]()

	c.Set("k", "v", 0)
	value, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}
