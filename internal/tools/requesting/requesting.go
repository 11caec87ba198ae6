package requesting

import (
	"errors"
	"fmt"
	"net/http"
	"os"
)

var (
	ErrTimeout    = errors.New("remote request timed out")
	ErrConnection = errors.New("remote request failed")
	ErrStatus     = errors.New("remote returned an unexpected status")
)

func isValidResponse(code int) bool {
	return code >= 200 && code <= 299
}

// RequestErrors classifies the outcome of an outgoing request. A non-2xx
// response is closed before the error is returned.
func RequestErrors(response *http.Response, err error) (*http.Response, error) {
	if err != nil {
		if os.IsTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if !isValidResponse(response.StatusCode) {
		response.Body.Close()
		return nil, fmt.Errorf("%w: status code %d", ErrStatus, response.StatusCode)
	}

	return response, nil
}
