package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bobmcallan/toolrt/internal/cache"
	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/config"
)

// maxResourceSize caps a single resource body.
const maxResourceSize = 16 << 20

// HTTPFetcher fetches resources over http(s) and file URLs.
type HTTPFetcher struct {
	httpClient *http.Client
	cache      *cache.ResourceCache
	logger     *common.Logger
}

// NewHTTPFetcher creates a fetcher with a per-request timeout. A nil cache
// disables caching.
func NewHTTPFetcher(timeout time.Duration, c *cache.ResourceCache, logger *common.Logger) *HTTPFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))

	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		cache:      c,
		logger:     logger,
	}
}

// Fetch performs a GET of url.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(url); ok {
			f.logger.Debug().Str("url", url).Msg("resource cache hit")
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if len(body) > maxResourceSize {
		return nil, fmt.Errorf("resource too large (max %d bytes)", maxResourceSize)
	}

	if f.cache != nil {
		f.cache.Set(url, body)
	}
	return body, nil
}
