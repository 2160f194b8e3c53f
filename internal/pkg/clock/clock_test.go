package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	c := NewFixed(base)
	assert.Equal(t, base, c.Now())

	next := base.Add(24 * time.Hour)
	c.Set(next)
	assert.Equal(t, next, c.Now())
}

func TestToday(t *testing.T) {
	c := NewFixed(time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Today(c))
}

func TestDateOf(t *testing.T) {
	got := DateOf(time.Date(2025, 12, 31, 18, 0, 1, 500, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), got)
}
