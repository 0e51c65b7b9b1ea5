package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// HTTPFetcher fetches pages with plain HTTP GET requests. It does not run
// scripts, so it only suits sites that render their content server side.
type HTTPFetcher struct {
	config *Config
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. Requests are logged through log.
// If config is nil, default configuration will be used.
func NewHTTPFetcher(config *Config, log logrus.FieldLogger) *HTTPFetcher {
	if config == nil {
		config = DefaultConfig()
	}
	return &HTTPFetcher{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: newLoggingTransport(http.DefaultTransport, log),
		},
	}
}

// Fetch fetches the content of a URL and extracts its content region.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return nil, fmt.Errorf("not HTML content: %s", contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return NewPage(url, string(body), f.config.ContentSelector)
}
