package grouping

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"bitbucket.org/crgw/haulier-rates/internal/tools/slowlog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type storageMock struct {
	Storage
	acquireLockMock    func(ctx context.Context, cacheKey string) (bool, error)
	releaseLockMock    func(ctx context.Context, cacheKey string)
	storeResponseMock  func(ctx context.Context, responseKey string, response *Response, duration time.Duration)
	fetchResponseMock  func(ctx context.Context, responseKey string) (*CachedValue, error)
	deleteResponseMock func(ctx context.Context, responseKey string)
}

func (s *storageMock) AcquireLock(ctx context.Context, cacheKey string) (bool, error) {
	return s.acquireLockMock(ctx, cacheKey)
}

func (s *storageMock) ReleaseLock(ctx context.Context, cacheKey string) {
	s.releaseLockMock(ctx, cacheKey)
}

func (s *storageMock) StoreResponse(ctx context.Context, responseKey string, response *Response, duration time.Duration) {
	s.storeResponseMock(ctx, responseKey, response, duration)
}

func (s *storageMock) FetchResponse(ctx context.Context, responseKey string) (*CachedValue, error) {
	return s.fetchResponseMock(ctx, responseKey)
}

func (s *storageMock) DeleteResponse(ctx context.Context, responseKey string) {
	s.deleteResponseMock(ctx, responseKey)
}

// mapStorage keeps locks and responses in maps and ignores ttls.
type mapStorage struct {
	locks     map[string]bool
	responses map[string]*CachedValue
	sync.Mutex
}

func newMapStorage() *mapStorage {
	return &mapStorage{
		locks:     make(map[string]bool),
		responses: make(map[string]*CachedValue),
	}
}

func (s *mapStorage) AcquireLock(ctx context.Context, cacheKey string) (bool, error) {
	s.Lock()
	defer s.Unlock()

	if s.locks[cacheKey] {
		return false, nil
	}
	s.locks[cacheKey] = true

	return true, nil
}

func (s *mapStorage) ReleaseLock(ctx context.Context, cacheKey string) {
	s.Lock()
	delete(s.locks, cacheKey)
	s.Unlock()
}

func (s *mapStorage) StoreResponse(ctx context.Context, responseKey string, response *Response, duration time.Duration) {
	s.Lock()
	s.responses[responseKey] = &CachedValue{Code: response.Code, Body: response.Body, Headers: response.Headers}
	s.Unlock()
}

func (s *mapStorage) FetchResponse(ctx context.Context, responseKey string) (*CachedValue, error) {
	s.Lock()
	defer s.Unlock()

	return s.responses[responseKey], nil
}

func (s *mapStorage) DeleteResponse(ctx context.Context, responseKey string) {
	s.Lock()
	delete(s.responses, responseKey)
	s.Unlock()
}

func createManager(storage Storage) RequestManager {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	return &requestManager{
		cache:    storage,
		log:      &log,
		slowLog:  slowlog.CreateLogger(&log),
		cacheKey: "cacheKey",
	}
}

func TestRequestManager(t *testing.T) {
	const body = `{"pct":2.74,"source":"website"}`

	requester := func() (*Response, error) {
		return &Response{
			Code: http.StatusOK,
			Body: body,
			Headers: map[string][]string{
				"Content-Type": {"application/json"},
			},
		}, nil
	}

	cacheValue := "response body from cache"

	t.Run("should run the request when the lock is free and store it", func(t *testing.T) {
		stored := make(chan time.Duration, 1)
		deleted := make(chan string, 1)

		manager := createManager(&storageMock{
			acquireLockMock: func(ctx context.Context, cacheKey string) (bool, error) {
				return true, nil
			},
			deleteResponseMock: func(ctx context.Context, responseKey string) {
				deleted <- responseKey
			},
			storeResponseMock: func(ctx context.Context, responseKey string, response *Response, duration time.Duration) {
				assert.Equal(t, "res:cacheKey", responseKey)
				stored <- duration
			},
			releaseLockMock: func(ctx context.Context, cacheKey string) {},
		})

		response, err := manager.HandleRequest(context.TODO(), requester)

		assert.Nil(t, err)
		assert.Equal(t, "res:cacheKey", <-deleted)
		assert.Equal(t, successTTL, <-stored)
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Equal(t, body, response.Body)
	})

	t.Run("should run requests made one after the other", func(t *testing.T) {
		manager := createManager(newMapStorage())

		calls := 0
		refresh := func() (*Response, error) {
			calls++
			return &Response{Code: http.StatusOK, Body: fmt.Sprintf(`{"pct":%d}`, calls)}, nil
		}

		first, err := manager.HandleRequest(context.TODO(), refresh)
		assert.Nil(t, err)

		second, err := manager.HandleRequest(context.TODO(), refresh)
		assert.Nil(t, err)

		assert.Equal(t, 2, calls)
		assert.Equal(t, `{"pct":1}`, first.Body)
		assert.Equal(t, `{"pct":2}`, second.Body)
		assert.Empty(t, second.Headers[HitHeader])
	})

	t.Run("should wait for other process to finish requesting", func(t *testing.T) {
		manager := createManager(&storageMock{
			acquireLockMock: func(ctx context.Context, cacheKey string) (bool, error) {
				return false, nil
			},
			fetchResponseMock: func(ctx context.Context, responseKey string) (*CachedValue, error) {
				assert.Equal(t, "res:cacheKey", responseKey)
				return &CachedValue{Code: http.StatusOK, Body: cacheValue}, nil
			},
		})

		response, err := manager.HandleRequest(context.TODO(), func() (*Response, error) {
			t.Fatal("should not request")
			return nil, nil
		})

		assert.Nil(t, err)
		assert.Equal(t, cacheValue, response.Body)
		assert.Equal(t, []string{"hit"}, response.Headers[HitHeader])
	})

	t.Run("should take over when the other process left no response", func(t *testing.T) {
		attempts := 0

		manager := createManager(&storageMock{
			acquireLockMock: func(ctx context.Context, cacheKey string) (bool, error) {
				attempts++
				return attempts > 1, nil
			},
			fetchResponseMock: func(ctx context.Context, responseKey string) (*CachedValue, error) {
				return nil, nil
			},
			deleteResponseMock: func(ctx context.Context, responseKey string) {},
			storeResponseMock:  func(ctx context.Context, responseKey string, response *Response, duration time.Duration) {},
			releaseLockMock:    func(ctx context.Context, cacheKey string) {},
		})

		response, err := manager.HandleRequest(context.TODO(), requester)

		assert.Nil(t, err)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, body, response.Body)
	})

	t.Run("should stop waiting when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		manager := createManager(&storageMock{
			acquireLockMock: func(ctx context.Context, cacheKey string) (bool, error) {
				cancel()
				return false, nil
			},
		})

		response, err := manager.HandleRequest(ctx, requester)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, response)
	})

	t.Run("should release lock if done", func(t *testing.T) {
		tests := []struct {
			name             string
			requester        func() (*Response, error)
			expectStore      bool
			expectedResponse *Response
			expectedError    error
		}{
			{
				name: "requesting failed",
				requester: func() (*Response, error) {
					return nil, errors.New("dial tcp: connection refused")
				},
				expectedError: errors.New("dial tcp: connection refused"),
			},
			{
				name: "bad response",
				requester: func() (*Response, error) {
					return &Response{Code: http.StatusBadGateway, Body: "error"}, nil
				},
				expectStore:      true,
				expectedResponse: &Response{Code: http.StatusBadGateway, Body: "error"},
			},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				released := make(chan bool, 1)

				manager := createManager(&storageMock{
					acquireLockMock: func(ctx context.Context, cacheKey string) (bool, error) {
						return true, nil
					},
					deleteResponseMock: func(ctx context.Context, responseKey string) {},
					storeResponseMock: func(ctx context.Context, responseKey string, response *Response, duration time.Duration) {
						assert.True(t, test.expectStore, "should not store")
						assert.Equal(t, failureTTL, duration)
					},
					releaseLockMock: func(ctx context.Context, cacheKey string) {
						released <- true
					},
				})

				response, err := manager.HandleRequest(context.TODO(), test.requester)

				assert.True(t, <-released)
				assert.Equal(t, test.expectedError, err)
				assert.Equal(t, test.expectedResponse, response)
			})
		}
	})

	t.Run("should pass through the request if redis is down", func(t *testing.T) {
		tests := []struct {
			name    string
			storage *storageMock
		}{
			{
				name: "acquire lock fails",
				storage: &storageMock{
					acquireLockMock: func(ctx context.Context, cacheKey string) (bool, error) {
						return false, errors.New("connection error")
					},
				},
			},
			{
				name: "fetch from cache fails",
				storage: &storageMock{
					acquireLockMock: func(ctx context.Context, cacheKey string) (bool, error) {
						return false, nil
					},
					fetchResponseMock: func(ctx context.Context, responseKey string) (*CachedValue, error) {
						return nil, errors.New("connection error")
					},
				},
			},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				response, err := createManager(test.storage).HandleRequest(context.TODO(), requester)

				assert.Nil(t, err)
				assert.Equal(t, http.StatusOK, response.Code)
				assert.Equal(t, body, response.Body)
			})
		}
	})
}
