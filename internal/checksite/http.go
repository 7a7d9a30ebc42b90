package checksite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// client wraps http.Client with the server base URL.
type client struct {
	http *http.Client
	base string
}

func newClient(cfg *Config) *client {
	return &client{http: &http.Client{Timeout: cfg.Timeout}, base: cfg.BaseURL}
}

// get performs a GET request and returns the status and body.
func (c *client) get(ctx context.Context, path string, q url.Values, header ...string) (int, []byte, error) {
	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// getJSON decodes a 200 response into v.
func (c *client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	status, body, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, status)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}
