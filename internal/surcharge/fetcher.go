package surcharge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"bitbucket.org/crgw/haulier-rates/internal/tools/requesting"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

const (
	DefaultURL = "https://www.jodafreight.com/fuel-surcharge/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

	fetchTimeout = 10 * time.Second
)

var (
	ErrFetchFailed        = errors.New("failed fetching surcharge page")
	ErrSurchargeNotFound  = errors.New("current surcharge not found on page")
	currentSurchargeRegex = regexp.MustCompile(`(?i)CURRENT\s+SURCHARGE[^0-9]*([0-9]+(?:\.[0-9]+)?)\s*%`)
)

type Fetcher struct {
	url    string
	client *http.Client
}

func NewFetcher(url string, log *zerolog.Logger) *Fetcher {
	if url == "" {
		url = DefaultURL
	}

	return &Fetcher{
		url: url,
		client: &http.Client{
			Timeout: fetchTimeout,
			Transport: &requesting.InterceptorTransport{
				Transport: http.DefaultTransport,
				Middlewares: []requesting.TransportMiddleware{
					requesting.NewHeaderTransportMiddleware(http.Header{
						"User-Agent": []string{userAgent},
					}),
					requesting.NewLoggingTransportMiddleware(log),
				},
			},
		},
	}
}

func (f *Fetcher) Fetch(ctx context.Context) (decimal.Decimal, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	response, err := requesting.RequestErrors(f.client.Do(request))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer response.Body.Close()

	return ParseSurchargePage(response.Body)
}

// ParseSurchargePage finds the percentage following "CURRENT SURCHARGE" in the
// visible text of an HTML page.
func ParseSurchargePage(r io.Reader) (decimal.Decimal, error) {
	text, err := pageText(r)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	match := currentSurchargeRegex.FindStringSubmatch(text)
	if match == nil {
		return decimal.Zero, ErrSurchargeNotFound
	}

	return decimal.NewFromString(match[1])
}

func pageText(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)
	parts := []string{}
	hidden := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if errors.Is(tokenizer.Err(), io.EOF) {
				return strings.Join(parts, " "), nil
			}
			return "", tokenizer.Err()
		case html.StartTagToken:
			if isHiddenTag(tokenizer) {
				hidden++
			}
		case html.EndTagToken:
			if isHiddenTag(tokenizer) && hidden > 0 {
				hidden--
			}
		case html.TextToken:
			if hidden > 0 {
				continue
			}
			if text := strings.Join(strings.Fields(string(tokenizer.Text())), " "); text != "" {
				parts = append(parts, text)
			}
		}
	}
}

func isHiddenTag(tokenizer *html.Tokenizer) bool {
	name, _ := tokenizer.TagName()
	switch string(name) {
	case "script", "style", "noscript", "template":
		return true
	}

	return false
}
