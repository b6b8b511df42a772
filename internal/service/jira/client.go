package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// apiPrefix is joined to the base URL for every call.
const apiPrefix = "/rest/api/2/"

// Config holds configuration for creating a Jira Client.
type Config struct {
	// BaseURL is the root URL of the Jira instance, e.g. https://jira.example.com.
	BaseURL string
	// Token is sent as a bearer credential on every request.
	Token string
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	// Logger receives request diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client performs authenticated calls against the Jira REST API v2. It holds
// no mutable state and is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Jira client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("jira: base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("jira: token is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Execute performs one call against {baseURL}/rest/api/2/{endpoint} and
// returns the decoded JSON body, or nil when the body is empty. Non-2xx
// responses fail with *APIError and network failures with *TransportError.
// The endpoint must already carry any percent-encoded query values.
func (c *Client) Execute(ctx context.Context, method, endpoint string, body any) (any, error) {
	raw, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, c.decodeError(method, endpoint, err)
	}
	return out, nil
}

// executeInto is Execute decoding into a typed value.
func (c *Client) executeInto(ctx context.Context, method, endpoint string, body any, out any) error {
	raw, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return c.decodeError(method, endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	url := c.baseURL + apiPrefix + strings.TrimLeft(endpoint, "/")

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("jira: marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		c.logger.Error("failed to build Jira request", zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("jira: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("jira request", zap.String("method", method), zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		transportErr := &TransportError{Method: method, URL: url, Err: err}
		c.logger.Error("jira request failed", zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, transportErr
	}
	defer resp.Body.Close()

	c.logger.Debug("jira response", zap.String("method", method), zap.String("url", url), zap.Int("status", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read Jira response", zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(raw)}
		c.logger.Error("jira API error",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.String("body", apiErr.Body))
		return nil, apiErr
	}

	return raw, nil
}

func (c *Client) decodeError(method, endpoint string, err error) error {
	c.logger.Error("failed to decode Jira response", zap.String("method", method), zap.String("endpoint", endpoint), zap.Error(err))
	return fmt.Errorf("jira: decode %s %s response: %w", method, endpoint, err)
}
