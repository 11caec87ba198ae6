package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RegisterLogger derives the request logger. Handlers read it from the
// "logger" key.
func RegisterLogger(logger *zerolog.Logger) func(c *gin.Context) {
	return func(c *gin.Context) {
		correlationId := c.MustGet("correlationId").(string)

		loggerContext := logger.
			With().
			Str("correlationId", correlationId)

		if route := c.FullPath(); route != "" {
			loggerContext = loggerContext.Str("route", route)
		}

		requestLogger := loggerContext.Logger()
		c.Set("logger", &requestLogger)
	}
}
