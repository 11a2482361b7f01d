package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	assert.NoError(t, err)

	got := StartOfDay(time.Date(2026, 3, 29, 23, 59, 59, 999, loc))

	assert.Equal(t, time.Date(2026, 3, 29, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestSystemClock_Now(t *testing.T) {
	clock := SystemClock{Location: time.UTC}

	assert.Equal(t, time.UTC, clock.Now().Location())
	assert.WithinDuration(t, time.Now(), clock.Now(), time.Second)
}
