package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CurrentTimeFunc Current time. Can be mocked for testing.
var CurrentTimeFunc = time.Now

func StartRequest(c *gin.Context) {
	c.Set("requestStartTime", CurrentTimeFunc())
}

// TraceLog writes one entry per request once the rest of the chain is done.
// Server errors log at error level and client errors at warn.
func TraceLog(c *gin.Context) {
	c.Next()

	logger := c.MustGet("logger").(*zerolog.Logger)
	startTime := c.MustGet("requestStartTime").(time.Time)
	code := c.Writer.Status()

	event := logger.Info()
	switch {
	case code >= http.StatusInternalServerError:
		event = logger.Error()
	case code >= http.StatusBadRequest:
		event = logger.Warn()
	}

	event.
		Str("label", "trace").
		Str("method", c.Request.Method).
		Str("url", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Int("code", code).
		Float64("duration", CurrentTimeFunc().Sub(startTime).Seconds()).
		Msg("")
}
