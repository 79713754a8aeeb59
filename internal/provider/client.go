// Package provider fetches the raw sales dataset from the remote endpoint.
package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"salesdash/internal/config"
	"salesdash/internal/errors"
	"salesdash/internal/models"
)

// Client issues a single GET per Fetch. It never retries.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

func NewClient(cfg config.ProviderConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// Fetch returns the response body when the provider answers 200. Any other
// status, or a transport failure, is reported as *errors.FetchError.
func (c *Client) Fetch(ctx context.Context, q models.Query) ([]byte, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse provider endpoint: %w", err)
	}
	u.RawQuery = q.Values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.FetchError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.FetchError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("read body: %w", err)}
	}

	c.logger.InfoContext(ctx, "provider responded",
		"url", u.String(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
