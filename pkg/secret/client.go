// Package secret reads versioned key/value secrets from a Vault-style
// KV v2 backend. The endpoint and token are injected at construction so
// document evaluation never reaches into ambient process state.
package secret

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theMackabu/ship/pkg/value"
)

// DefaultTimeout bounds a single secret read when no client is supplied.
const DefaultTimeout = 30 * time.Second

// Client talks to one KV v2 mount.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for the backend at baseURL authenticating with
// token. A nil httpClient falls back to one with DefaultTimeout.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Read fetches the secret stored at path and returns its key/value map.
// KV v2 wraps the payload twice (response data, then secret data); both
// layers are unwrapped here. A response without the inner map is returned
// as-is so callers still see whatever the backend produced.
func (c *Client) Read(path string) (value.Value, error) {
	if c.baseURL == "" {
		return value.Value{}, fmt.Errorf("secret backend is not configured")
	}

	url := fmt.Sprintf("%s/v1/kv/data/%s", c.baseURL, strings.TrimPrefix(path, "/"))
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return value.Value{}, fmt.Errorf("building secret request: %w", err)
	}
	req.Header.Set("X-Vault-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return value.Value{}, fmt.Errorf("secret request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return value.Value{}, fmt.Errorf("reading secret response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return value.Value{}, fmt.Errorf("secret backend returned status %d for %q", resp.StatusCode, path)
	}

	parsed, err := value.FromJSON(body)
	if err != nil {
		return value.Value{}, fmt.Errorf("decoding secret response: %w", err)
	}
	if parsed.Kind() != value.KindObject {
		return value.Value{}, fmt.Errorf("unexpected secret response shape")
	}

	data, ok := parsed.AsObject().Get("data")
	if !ok {
		return value.Value{}, fmt.Errorf("secret response has no data field")
	}
	if data.Kind() != value.KindObject {
		return data, nil
	}
	if inner, ok := data.AsObject().Get("data"); ok && inner.Kind() == value.KindObject {
		return inner, nil
	}
	return data, nil
}
