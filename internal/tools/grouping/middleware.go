package grouping

import (
	"bytes"
	"context"
	"net/http"

	"bitbucket.org/crgw/haulier-rates/internal/tools/responding"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type RequestManager interface {
	HandleRequest(context.Context, func() (*Response, error)) (*Response, error)
}

type MiddlewareOptions struct {
	CreateManager func(
		redis *redis.Client,
		log *zerolog.Logger,
		cacheKey string,
	) RequestManager
	// Without a client every request runs on its own.
	RedisClient *redis.Client
	CacheKey    func(c *gin.Context) string
}

// Middleware runs the rest of the chain once per key across instances and
// replays the stored response to callers that arrive meanwhile.
func Middleware(o MiddlewareOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if o.RedisClient == nil {
			c.Next()
			return
		}

		log := c.MustGet("logger").(*zerolog.Logger)

		groupingManager := o.CreateManager(o.RedisClient, log, o.CacheKey(c))

		requester := func() (*Response, error) {
			bodyWriter := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
			c.Writer = bodyWriter

			c.Next()

			return &Response{
				Code:    c.Writer.Status(),
				Body:    bodyWriter.body.String(),
				Headers: bodyWriter.Header().Clone(),
			}, c.Err()
		}

		response, err := groupingManager.HandleRequest(c.Request.Context(), requester)

		if !c.Writer.Written() {
			if err != nil {
				responding.HandleError(c, http.StatusInternalServerError, "Error handling grouped request", err)
				return
			}

			for key, values := range response.Headers {
				if http.CanonicalHeaderKey(key) == "X-Correlation-Id" {
					continue
				}
				for _, value := range values {
					c.Writer.Header().Add(key, value)
				}
			}

			c.Data(response.Code, gin.MIMEJSON, []byte(response.Body))
		}

		c.Abort()
	}
}
