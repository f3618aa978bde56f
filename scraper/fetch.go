package scraper

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"

// Fetcher retrieves pages with a browser User-Agent and a request timeout.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. A timeout of zero means 10 seconds.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: slog.Default().With("component", "fetcher"),
	}
}

// FetchPage retrieves the body of the page at url. Non-200 responses are
// errors.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return string(body), nil
}

// NormalizeText lowercases the input, unescapes HTML entities, strips
// diacritical marks, and flattens tabs and newlines to spaces.
func NormalizeText(input string) string {
	input = html.UnescapeString(strings.ToLower(input))

	decomposed := norm.NFKD.String(input)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r == '\n' || r == '\t' {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}
