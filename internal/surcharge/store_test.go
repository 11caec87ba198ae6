package surcharge

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/crgw/haulier-rates/internal/tools/caching"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(now time.Time) *Store {
	store := NewStore(caching.NewMemoryCache())
	store.now = func() time.Time { return now }
	return store
}

func TestNextReset(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	tests := []struct {
		name     string
		at       time.Time
		expected time.Time
	}{
		{
			name:     "monday resets on the coming wednesday",
			at:       time.Date(2026, 10, 19, 15, 30, 0, 0, london),
			expected: time.Date(2026, 10, 21, 0, 0, 0, 0, london),
		},
		{
			name:     "tuesday just before midnight",
			at:       time.Date(2026, 10, 20, 23, 59, 59, 0, london),
			expected: time.Date(2026, 10, 21, 0, 0, 0, 0, london),
		},
		{
			name:     "wednesday lasts a full week",
			at:       time.Date(2026, 10, 21, 0, 0, 0, 0, london),
			expected: time.Date(2026, 10, 28, 0, 0, 0, 0, london),
		},
		{
			name:     "across the clock change",
			at:       time.Date(2026, 10, 22, 9, 0, 0, 0, london),
			expected: time.Date(2026, 10, 28, 0, 0, 0, 0, london),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.True(t, test.expected.Equal(NextReset(test.at)), "got %s", NextReset(test.at))
		})
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should report a miss when nothing is saved", func(t *testing.T) {
		store := newTestStore(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

		_, found, err := store.Load(ctx)

		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("should save and load an override", func(t *testing.T) {
		store := newTestStore(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

		saved, err := store.Save(ctx, decimal.RequireFromString("2.74"), SourceWebsite)
		require.NoError(t, err)

		loaded, found, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, found)

		assert.True(t, decimal.RequireFromString("2.74").Equal(loaded.Pct))
		assert.Equal(t, SourceWebsite, loaded.Source)
		assert.True(t, saved.ExpiresAt.Equal(loaded.ExpiresAt))
		assert.Equal(t, time.Wednesday, loaded.ExpiresAt.In(store.location).Weekday())
	})

	t.Run("should clear the override", func(t *testing.T) {
		store := newTestStore(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

		_, err := store.Save(ctx, decimal.NewFromInt(3), SourceOverride)
		require.NoError(t, err)
		require.NoError(t, store.Clear(ctx))

		_, found, err := store.Load(ctx)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("should expire in redis at the weekly reset", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewStore(caching.NewRedisCache(client))
		now := time.Date(2026, 10, 20, 12, 0, 0, 0, store.location)
		store.now = func() time.Time { return now }

		mock.Regexp().ExpectSetEx(jodaKey, `.*`, 12*time.Hour).SetVal("OK")

		_, err := store.Save(ctx, decimal.NewFromInt(3), SourceOverride)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
