package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorageEnforcesLimit(t *testing.T) {
	storage := NewInMemoryStorage()
	defer storage.Stop()

	ctx := context.Background()
	limit := Limit{Limit: 3, Unit: "hour"}

	for i := 0; i < 3; i++ {
		allowed, err := storage.Allow(ctx, "10.0.0.1", limit)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, err := storage.Allow(ctx, "10.0.0.1", limit)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestInMemoryStorageKeysAreIndependent(t *testing.T) {
	storage := NewInMemoryStorage()
	defer storage.Stop()

	ctx := context.Background()
	limit := Limit{Limit: 1, Unit: "hour"}

	allowed, err := storage.Allow(ctx, "10.0.0.1", limit)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = storage.Allow(ctx, "10.0.0.1", limit)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = storage.Allow(ctx, "10.0.0.2", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestInMemoryStorageUnknownUnit(t *testing.T) {
	storage := NewInMemoryStorage()
	defer storage.Stop()

	_, err := storage.Allow(context.Background(), "10.0.0.1", Limit{Limit: 1, Unit: "fortnight"})
	assert.Error(t, err)
}

func TestParseUnit(t *testing.T) {
	for _, unit := range []string{"second", "minute", "hour", "day"} {
		_, err := parseUnit(unit)
		assert.NoError(t, err, "unit %q", unit)
	}

	_, err := parseUnit("week")
	assert.Error(t, err)
}
