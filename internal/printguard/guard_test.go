package printguard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstPrintOnlyPerSessionAndBill(t *testing.T) {
	g := New()

	assert.True(t, g.Begin("sess-1", 100))
	assert.False(t, g.Begin("sess-1", 100))

	// another bill in the same session prints
	assert.True(t, g.Begin("sess-1", 101))
	// same bill in another session prints
	assert.True(t, g.Begin("sess-2", 100))
}

func TestExpiredEntryPrintsAgain(t *testing.T) {
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := New(
		WithTTL(time.Hour),
		WithClock(func() time.Time { return current }),
	)

	assert.True(t, g.Begin("sess-1", 100))
	assert.False(t, g.Begin("sess-1", 100))

	current = current.Add(2 * time.Hour)
	assert.True(t, g.Begin("sess-1", 100))
}
