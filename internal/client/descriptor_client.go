// Package client retrieves tool descriptors from the remote configuration
// document.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/config"
	"github.com/bobmcallan/toolrt/internal/models"
)

// maxDocumentSize caps the configuration document body.
const maxDocumentSize = 8 << 20

// DescriptorClient fetches the configuration document describing all tools.
type DescriptorClient struct {
	url        string
	httpClient *http.Client
	logger     *common.Logger
}

// NewDescriptorClient creates a client for the document at url.
func NewDescriptorClient(url string, timeout time.Duration, logger *common.Logger) *DescriptorClient {
	return &DescriptorClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// URL returns the configured document location.
func (c *DescriptorClient) URL() string {
	return c.url
}

// FetchDocument performs one GET of the configuration document.
func (c *DescriptorClient) FetchDocument(ctx context.Context) (*models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &TransportError{URL: c.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Str("url", c.url).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("descriptor fetch failed")
		return nil, &TransportError{URL: c.url, Err: fmt.Errorf("failed to reach config store: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, &TransportError{URL: c.url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("descriptor document received")

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: c.url, Err: fmt.Errorf("server returned %d", resp.StatusCode)}
	}
	if len(body) > maxDocumentSize {
		return nil, &TransportError{URL: c.url, Err: fmt.Errorf("document too large (max %d bytes)", maxDocumentSize)}
	}

	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &TransportError{URL: c.url, Err: fmt.Errorf("failed to parse document: %w", err)}
	}
	return &doc, nil
}

// FetchDescriptor retrieves the document and selects the tool matching id.
func (c *DescriptorClient) FetchDescriptor(ctx context.Context, id string) (*models.ToolDescriptor, error) {
	doc, err := c.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	d, ok := doc.Find(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	c.logger.Debug().Str("tool", id).Str("bridge", d.Bridge).Int("libraries", len(d.Libraries)).Msg("descriptor resolved")
	return d, nil
}
