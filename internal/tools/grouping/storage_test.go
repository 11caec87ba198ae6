package grouping

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"bitbucket.org/crgw/haulier-rates/internal/tools/caching"
	"bitbucket.org/crgw/haulier-rates/internal/tools/slowlog"
	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestStorage() (*storage, redismock.ClientMock) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)
	redisClient, redisMock := redismock.NewClientMock()

	return &storage{
		redis:   redisClient,
		cache:   caching.NewMemoryCache(),
		log:     &log,
		slowLog: slowlog.CreateLogger(&log),
	}, redisMock
}

func TestStorageAcquireLock(t *testing.T) {
	storage, redisMock := newTestStorage()

	t.Run("should acquire lock successfully", func(t *testing.T) {
		redisMock.ExpectSetNX("cacheKey", "", lockTTL).SetVal(true)

		lock, err := storage.AcquireLock(context.TODO(), "cacheKey")
		assert.Nil(t, err)
		assert.True(t, lock)
	})

	t.Run("should handle context timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		cancel()

		lock, err := storage.AcquireLock(ctx, "cacheKey")
		assert.NotNil(t, err)
		assert.False(t, lock)
	})

	t.Run("should handle refused locking", func(t *testing.T) {
		redisMock.ExpectSetNX("cacheKey", "", lockTTL).SetVal(false)

		lock, err := storage.AcquireLock(context.Background(), "cacheKey")
		assert.Nil(t, err)
		assert.False(t, lock)
	})
}

func TestStorageReleaseLock(t *testing.T) {
	storage, redisMock := newTestStorage()

	redisMock.ExpectDel("cacheKey").SetVal(1)
	storage.ReleaseLock(context.TODO(), "cacheKey")

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestStorageResponses(t *testing.T) {
	t.Run("should store and fetch a response", func(t *testing.T) {
		storage, _ := newTestStorage()

		storage.StoreResponse(context.TODO(), "responseKey", &Response{
			Code:    http.StatusOK,
			Body:    "body",
			Headers: map[string][]string{"Content-Type": {"application/json"}},
		}, time.Minute)

		response, err := storage.FetchResponse(context.TODO(), "responseKey")

		assert.Nil(t, err)
		if assert.NotNil(t, response) {
			assert.Equal(t, http.StatusOK, response.Code)
			assert.Equal(t, "body", response.Body)
			assert.Equal(t, []string{"application/json"}, response.Headers["Content-Type"])
		}
	})

	t.Run("should delete a stored response", func(t *testing.T) {
		storage, _ := newTestStorage()

		storage.StoreResponse(context.TODO(), "responseKey", &Response{Code: http.StatusOK, Body: "body"}, time.Minute)
		storage.DeleteResponse(context.TODO(), "responseKey")

		response, err := storage.FetchResponse(context.TODO(), "responseKey")

		assert.Nil(t, err)
		assert.Nil(t, response)
	})

	t.Run("should handle not getting a cache hit", func(t *testing.T) {
		storage, _ := newTestStorage()

		response, err := storage.FetchResponse(context.TODO(), "responseKey")

		assert.Nil(t, err)
		assert.Nil(t, response)
	})
}
