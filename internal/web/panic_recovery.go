package web

import (
	"net/http"

	"bitbucket.org/crgw/haulier-rates/internal/tools/responding"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func PanicRecovery(c *gin.Context) {
	gin.CustomRecoveryWithWriter(&recoveryWriter{
		logger: c.MustGet("logger").(*zerolog.Logger),
	}, func(c *gin.Context, recovered any) {
		message := "Unknown error, panic recovered"

		switch value := recovered.(type) {
		case string:
			message = value
		case error:
			responding.HandleError(c, http.StatusInternalServerError, message, value)
			return
		}

		responding.HandleError(c, http.StatusInternalServerError, message, nil)
	})(c)
}

// recoveryWriter sends gin's panic report with its stack to the request logger.
type recoveryWriter struct {
	logger *zerolog.Logger
}

func (r *recoveryWriter) Write(p []byte) (n int, err error) {
	r.logger.
		Error().
		Str("label", "panic").
		Msg(string(p))

	return len(p), nil
}
