package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TapLogger tags the request logger with an operation id and the carrier path
// parameter when the route has one.
func TapLogger(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := c.MustGet("logger").(*zerolog.Logger)

		loggerContext := logger.
			With().
			Str("operation", operation).
			Str("operationId", uuid.New().String())

		if carrier := c.Params.ByName("carrier"); carrier != "" {
			loggerContext = loggerContext.Str("carrier", carrier)
		}

		requestLogger := loggerContext.Logger()
		c.Set("logger", &requestLogger)
	}
}
