// Package pinecone implements index.Store against the Pinecone data-plane
// REST API. The client talks to a single index host and partitions records
// by namespace.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/docindex/index"
)

var (
	// ErrHostRequired is returned when the index host is empty.
	ErrHostRequired = errors.New("index host is required")

	// ErrAPIKeyRequired is returned when the api key is empty.
	ErrAPIKeyRequired = errors.New("api key is required")
)

// Client is a Pinecone-backed index.Store.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ index.Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Default has a 60s timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the given index host. The host is the
// per-index endpoint from the Pinecone console, with or without the
// https:// prefix.
func New(host, apiKey string, opts ...Option) (*Client, error) {
	if host == "" {
		return nil, ErrHostRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}

	c := &Client{
		host:       strings.TrimRight(host, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default().With("component", "pinecone"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close is a no-op; the client holds no persistent connections.
func (c *Client) Close() error {
	return nil
}

type upsertRequest struct {
	Vectors   []index.Record `json:"vectors"`
	Namespace string         `json:"namespace"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

// Upsert writes records into the namespace.
func (c *Client) Upsert(ctx context.Context, namespace string, records []index.Record) error {
	if len(records) == 0 {
		return nil
	}

	var resp upsertResponse
	err := c.post(ctx, "/vectors/upsert", upsertRequest{
		Vectors:   records,
		Namespace: namespace,
	}, &resp)
	if err != nil {
		return err
	}

	c.logger.Debug("upserted vectors", "namespace", namespace, "count", resp.UpsertedCount)
	return nil
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []index.Match `json:"matches"`
}

// Query returns the topK nearest records in the namespace.
func (c *Client) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]index.Match, error) {
	if topK < 1 {
		return nil, nil
	}

	var resp queryResponse
	err := c.post(ctx, "/query", queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		IncludeMetadata: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// post sends a JSON request to the index host and decodes the response.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("pinecone %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
