package requesting

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type TransportMiddleware func(http.RoundTripper) http.RoundTripper

type InterceptorTransport struct {
	Transport   http.RoundTripper
	Middlewares []TransportMiddleware
}

func (t *InterceptorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	for _, middleware := range t.Middlewares {
		transport = middleware(transport)
	}

	return transport.RoundTrip(req)
}

type LoggingTransportMiddleware struct {
	Transport http.RoundTripper
	log       *zerolog.Logger
}

func NewLoggingTransportMiddleware(log *zerolog.Logger) TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &LoggingTransportMiddleware{
			log:       log,
			Transport: rt,
		}
	}
}

func (t *LoggingTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	resp, err := t.Transport.RoundTrip(req)

	message := t.log.Info()
	if err != nil || !isValidResponse(resp.StatusCode) {
		message = t.log.Warn()
	}

	message.
		Str("label", "outgoing-request").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Float64("duration", time.Since(startTime).Seconds())

	if err != nil {
		message.Err(err).Msg("")
		return nil, err
	}

	message.Int("code", resp.StatusCode).Msg("")

	return resp, nil
}

type HeaderTransportMiddleware struct {
	Transport http.RoundTripper
	headers   http.Header
}

// NewHeaderTransportMiddleware sets headers on every request that does not
// already carry them.
func NewHeaderTransportMiddleware(headers http.Header) TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &HeaderTransportMiddleware{
			Transport: rt,
			headers:   headers,
		}
	}
}

func (h *HeaderTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for name, values := range h.headers {
		if req.Header.Get(name) != "" {
			continue
		}
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	return h.Transport.RoundTrip(req)
}
