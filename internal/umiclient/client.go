// Package umiclient sends commands to the OCR application's HTTP control
// endpoint.
package umiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/internal/logx"
	"pkt.systems/umidoc/internal/version"
	"pkt.systems/umidoc/schema"
)

// DefaultEndpoint is the control endpoint of a locally running Umi-OCR.
const DefaultEndpoint = "http://127.0.0.1:1224/argv"

const maxErrorBody = 256

// Sender delivers one command and returns the raw textual reply.
type Sender interface {
	Send(ctx context.Context, cmd schema.Command) (string, error)
}

// Config configures the HTTP client.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client posts commands as JSON arrays to the control endpoint. It never
// retries; callers decide what a failure means.
type Client struct {
	endpoint string
	http     *http.Client
}

// New constructs a Client.
func New(cfg Config) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// NewWithHTTPClient constructs a Client using hc for transport.
func NewWithHTTPClient(endpoint string, hc *http.Client) *Client {
	c := New(Config{Endpoint: endpoint})
	if hc != nil {
		c.http = hc
	}
	return c
}

// Endpoint returns the configured control endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send implements Sender.
func (c *Client) Send(ctx context.Context, cmd schema.Command) (string, error) {
	log := logx.WithCommand(pslog.Ctx(ctx), cmd)
	payload, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("%w: encode command: %w", schema.ErrTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", schema.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("control request failed", "err", err)
		return "", fmt.Errorf("%w: error sending request to %s: %w", schema.ErrTransport, c.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("control response read failed", "status", resp.StatusCode, "err", err)
		return "", fmt.Errorf("%w: error reading response from %s: %w", schema.ErrResponseRead, c.endpoint, err)
	}
	log.Debug("control request", "status", resp.StatusCode, "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := strings.TrimSpace(string(body))
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody] + "..."
		}
		if excerpt == "" {
			return "", fmt.Errorf("%w: %s returned status %d", schema.ErrTransport, c.endpoint, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s returned status %d: %s", schema.ErrTransport, c.endpoint, resp.StatusCode, excerpt)
	}
	return string(body), nil
}
