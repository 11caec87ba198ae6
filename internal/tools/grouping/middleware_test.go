package grouping_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/crgw/haulier-rates/internal/tools/grouping"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type groupingManagerMock struct {
	handleRequestMock func(ctx context.Context, requester func() (*grouping.Response, error)) (*grouping.Response, error)
}

func (m *groupingManagerMock) HandleRequest(ctx context.Context, requester func() (*grouping.Response, error)) (*grouping.Response, error) {
	return m.handleRequestMock(ctx, requester)
}

func newRouter(o grouping.MiddlewareOptions, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zerolog.New(&bytes.Buffer{})

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("logger", &log)
	})
	router.POST("/refresh", grouping.Middleware(o), handler)

	return router
}

func cacheKey(c *gin.Context) string {
	return "refresh"
}

func TestGroupingMiddleware(t *testing.T) {
	t.Run("should return the response from the next handler", func(t *testing.T) {
		redisClient, _ := redismock.NewClientMock()

		createManager := func(redis *redis.Client, log *zerolog.Logger, key string) grouping.RequestManager {
			assert.Equal(t, "refresh", key)

			return &groupingManagerMock{
				handleRequestMock: func(ctx context.Context, requester func() (*grouping.Response, error)) (*grouping.Response, error) {
					response, err := requester()
					assert.NoError(t, err)
					assert.Equal(t, `{"pct":2.74}`, response.Body)
					return response, nil
				},
			}
		}

		router := newRouter(grouping.MiddlewareOptions{
			CreateManager: createManager,
			RedisClient:   redisClient,
			CacheKey:      cacheKey,
		}, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"pct": 2.74})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"pct":2.74}`, w.Body.String())
	})

	t.Run("should provide from manager and not call the next handler", func(t *testing.T) {
		redisClient, _ := redismock.NewClientMock()

		createManager := func(redis *redis.Client, log *zerolog.Logger, key string) grouping.RequestManager {
			return &groupingManagerMock{
				handleRequestMock: func(ctx context.Context, requester func() (*grouping.Response, error)) (*grouping.Response, error) {
					return &grouping.Response{
						Code:    http.StatusOK,
						Body:    `{"pct":3}`,
						Headers: map[string][]string{grouping.HitHeader: {"hit"}},
					}, nil
				},
			}
		}

		router := newRouter(grouping.MiddlewareOptions{
			CreateManager: createManager,
			RedisClient:   redisClient,
			CacheKey:      cacheKey,
		}, func(c *gin.Context) {
			assert.Fail(t, "should not refresh again")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"pct":3}`, w.Body.String())
		assert.Equal(t, "hit", w.Header().Get(grouping.HitHeader))
	})

	t.Run("should run every request without redis", func(t *testing.T) {
		calls := 0
		router := newRouter(grouping.MiddlewareOptions{
			CreateManager: func(redis *redis.Client, log *zerolog.Logger, key string) grouping.RequestManager {
				t.Fatal("should not group")
				return nil
			},
			CacheKey: cacheKey,
		}, func(c *gin.Context) {
			calls++
			c.Status(http.StatusNoContent)
		})

		for i := 0; i < 2; i++ {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/refresh", nil))
		}

		assert.Equal(t, 2, calls)
	})
}
