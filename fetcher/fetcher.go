package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/joeychilson/paperoutline/config"
)

// Response represents a fetched document.
type Response struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Fetcher downloads documents over HTTP using the configured client settings.
type Fetcher struct {
	config config.FetchConfig
	client *http.Client
}

// New creates a Fetcher with the given configuration.
func New(cfg config.FetchConfig) *Fetcher {
	maxRedirects := cfg.GetMaxRedirects()

	client := &http.Client{
		Timeout: cfg.GetTimeout(),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &Fetcher{config: cfg, client: client}
}

// Fetch retrieves the content at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.GetUserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}
