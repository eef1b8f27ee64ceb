// Package remote loads datasets from a running dataset service over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"precatorios/internal/core"
	ports "precatorios/internal/sheets"
)

var _ ports.DatasetReader = (*Client)(nil)

// Client fetches GET <baseURL>/<source>.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Error string `json:"error"`
}

// ReadRecords downloads the dataset of source. Non-2xx responses carry the
// server's error message in the returned LoadFailure.
func (c *Client) ReadRecords(ctx context.Context, source core.Source) ([]core.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+source.Path(), nil)
	if err != nil {
		return nil, core.NewLoadFailure(source, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.NewLoadFailure(source, fmt.Errorf("get %s: %w", source.Path(), err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewLoadFailure(source, decodeError(resp))
	}

	var records []core.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, core.NewLoadFailure(source, fmt.Errorf("decode response: %w", err))
	}
	return records, nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return errors.New(eb.Error)
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
