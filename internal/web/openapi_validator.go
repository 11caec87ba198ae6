package web

import (
	"errors"
	"net/http"

	"bitbucket.org/crgw/haulier-rates/internal/tools/responding"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// OpenapiValidator checks requests against the API document. Routes the
// document does not describe pass through untouched, as does everything when
// the document is missing or invalid.
func OpenapiValidator(log *zerolog.Logger, content []byte) gin.HandlerFunc {
	router, err := newOpenapiRouter(content)
	if err != nil {
		log.Warn().Err(err).Msg("Request validation disabled")
		return func(c *gin.Context) {}
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
			return
		}
		if err != nil {
			responding.HandleError(c, http.StatusBadRequest, "Failed to match request route", err)
			return
		}

		err = openapi3filter.ValidateRequest(c.Request.Context(), &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options:    options,
		})
		if err != nil {
			responding.HandleError(c, http.StatusBadRequest, "Request does not match the API schema", err)
			return
		}
	}
}

func newOpenapiRouter(content []byte) (routers.Router, error) {
	if len(content) == 0 {
		return nil, errors.New("empty openapi document")
	}

	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(content)
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, err
	}

	return gorillamux.NewRouter(doc)
}
