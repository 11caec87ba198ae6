package responding

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// HandleError logs through the request logger, writes the error envelope and
// aborts the chain.
func HandleError(c *gin.Context, code int, message string, err error) {
	body := ErrorBody{
		Code:    code,
		Message: message,
	}
	if err != nil {
		body.Details = err.Error()
	}

	if value, ok := c.Get("logger"); ok {
		if log, ok := value.(*zerolog.Logger); ok {
			event := log.Warn()
			if code >= 500 {
				event = log.Error()
			}

			event.
				Err(err).
				Int("code", code).
				Msg(message)
		}
	}

	c.AbortWithStatusJSON(code, ErrorResponse{Error: body})
}
