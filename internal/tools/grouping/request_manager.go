package grouping

import (
	"context"
	"time"

	"bitbucket.org/crgw/haulier-rates/internal/tools/caching"
	"bitbucket.org/crgw/haulier-rates/internal/tools/slowlog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// stored responses only have to outlive the waiters' next poll
	successTTL   = 5 * time.Second
	failureTTL   = 2 * time.Second
	lockTTL      = 30 * time.Second
	pollInterval = 400 * time.Millisecond

	HitHeader = "x-grouping-hit"
)

type Response struct {
	Code    int
	Headers map[string][]string
	Body    string
}

type Storage interface {
	AcquireLock(ctx context.Context, cacheKey string) (bool, error)
	ReleaseLock(ctx context.Context, cacheKey string)
	StoreResponse(ctx context.Context, responseKey string, response *Response, duration time.Duration)
	FetchResponse(ctx context.Context, responseKey string) (*CachedValue, error)
	DeleteResponse(ctx context.Context, responseKey string)
}

// requestManager lets one caller run the request while concurrent callers
// with the same key wait for its stored response. Callers arriving after the
// lock is released run the request again.
type requestManager struct {
	groupingId string
	cache      Storage
	log        *zerolog.Logger
	slowLog    slowlog.Logger
	cacheKey   string
}

func isStatusCodeAcceptable(code int) bool {
	return code >= 200 && code < 300
}

func (m *requestManager) requestAndStore(
	responseKey string,
	requester func() (*Response, error),
) (*Response, error) {
	m.slowLog.Start("grouping:requestAndStore")
	defer m.slowLog.Stop("grouping:requestAndStore")

	defer m.cache.ReleaseLock(context.Background(), m.cacheKey)

	m.cache.DeleteResponse(context.Background(), responseKey)

	response, err := requester()
	if err != nil {
		m.log.Err(err).Msg("Unable to run grouped request")
		return nil, err
	}

	duration := successTTL
	if !isStatusCodeAcceptable(response.Code) {
		duration = failureTTL
	}

	m.cache.StoreResponse(context.Background(), responseKey, response, duration)

	return response, nil
}

func (m *requestManager) requestOrWait(ctx context.Context, requester func() (*Response, error)) (*Response, error) {
	responseKey := "res:" + m.cacheKey

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		canMakeTheRequest, err := m.cache.AcquireLock(ctx, m.cacheKey)
		if err != nil {
			m.log.Err(err).
				Str("label", "cache").
				Str("key", m.cacheKey).
				Msg("Error acquiring grouping lock")

			return requester()
		}

		if canMakeTheRequest {
			return m.requestAndStore(responseKey, requester)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}

		m.slowLog.Start("grouping:fetchFromCache")
		response, err := m.cache.FetchResponse(ctx, responseKey)
		m.slowLog.Stop("grouping:fetchFromCache")

		if err != nil {
			m.log.Err(err).
				Str("label", "cache").
				Bool("hit", false).
				Str("key", responseKey).
				Msg("Error fetching from cache")

			return requester()
		}

		if response != nil {
			m.log.Info().
				Str("label", "cache").
				Bool("hit", true).
				Str("key", m.cacheKey).
				Msg("Used grouped response")

			if response.Headers == nil {
				response.Headers = make(map[string][]string)
			}
			response.Headers[HitHeader] = []string{"hit"}

			return &Response{
				Code:    response.Code,
				Body:    response.Body,
				Headers: response.Headers,
			}, nil
		}
	}
}

func (m *requestManager) HandleRequest(ctx context.Context, requester func() (*Response, error)) (*Response, error) {
	m.slowLog.Start("grouping:HandleRequest")
	defer m.slowLog.Stop("grouping:HandleRequest")
	return m.requestOrWait(ctx, requester)
}

func NewRequestManager(
	redis *redis.Client,
	log *zerolog.Logger,
	cacheKey string,
) RequestManager {
	groupingId := uuid.New().String()
	logWithGroupingId := log.With().Str("groupingId", groupingId).Logger()
	slowLog := slowlog.CreateLogger(&logWithGroupingId)

	return &requestManager{
		groupingId: groupingId,
		cacheKey:   cacheKey,
		cache: &storage{
			redis:   redis,
			cache:   caching.NewRedisCache(redis),
			log:     &logWithGroupingId,
			slowLog: slowLog,
		},
		log:     &logWithGroupingId,
		slowLog: slowLog,
	}
}
