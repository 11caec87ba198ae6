package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bitbucket.org/crgw/haulier-rates/internal/tools/responding"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
)

var errMissingToken = errors.New("missing bearer token")

type operatorClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RequireOperator accepts requests carrying an HS256 bearer token signed with
// secret. An empty secret leaves the route open.
func RequireOperator(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			return
		}

		claims, err := parseOperatorToken(c.GetHeader("Authorization"), secret)
		if err != nil {
			responding.HandleError(c, http.StatusUnauthorized, "Operator token required", err)
			return
		}

		logger := c.MustGet("logger").(*zerolog.Logger)
		requestLogger := logger.
			With().
			Str("operator", claims.Username).
			Logger()

		c.Set("logger", &requestLogger)
	}
}

func parseOperatorToken(header string, secret []byte) (*operatorClaims, error) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return nil, errMissingToken
	}

	token, err := jwt.ParseWithClaims(raw, &operatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*operatorClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("could not parse operator token")
	}

	return claims, nil
}
