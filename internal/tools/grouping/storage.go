package grouping

import (
	"context"
	"time"

	"bitbucket.org/crgw/haulier-rates/internal/tools/caching"
	"bitbucket.org/crgw/haulier-rates/internal/tools/slowlog"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type CachedValue struct {
	Code    int                 `json:"code"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

// storage takes locks with SETNX and keeps responses in the compressed cache.
type storage struct {
	redis   *redis.Client
	cache   *caching.Cacher
	log     *zerolog.Logger
	slowLog slowlog.Logger
}

func (s *storage) AcquireLock(ctx context.Context, cacheKey string) (bool, error) {
	return s.redis.SetNX(ctx, cacheKey, "", lockTTL).Result()
}

func (s *storage) ReleaseLock(ctx context.Context, cacheKey string) {
	s.redis.Del(ctx, cacheKey)
}

func (s *storage) StoreResponse(ctx context.Context, responseKey string, response *Response, duration time.Duration) {
	s.slowLog.Start("grouping:store")
	defer s.slowLog.Stop("grouping:store")

	err := s.cache.Store(ctx, responseKey, CachedValue{
		Code:    response.Code,
		Body:    response.Body,
		Headers: response.Headers,
	}, duration)
	if err != nil {
		s.log.Err(err).Msg("Unable to store the grouped response")
	}
}

// FetchResponse returns nil without an error on a miss.
func (s *storage) FetchResponse(ctx context.Context, responseKey string) (*CachedValue, error) {
	s.slowLog.Start("grouping:fetch")
	defer s.slowLog.Stop("grouping:fetch")

	var value CachedValue

	found, err := s.cache.Fetch(ctx, responseKey, &value)
	if err != nil || !found {
		return nil, err
	}

	return &value, nil
}

func (s *storage) DeleteResponse(ctx context.Context, responseKey string) {
	if err := s.cache.Delete(ctx, responseKey); err != nil {
		s.log.Err(err).Msg("Unable to delete the grouped response")
	}
}
