// Package prowler is a thin HTTP client for the Prowler API: a login +
// health round trip used as a connectivity probe, and a resource listing
// used by sync. Upstream failures are captured and returned as data at
// this boundary, never propagated as faults.
package prowler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"
)

var (
	// ErrAuthentication means the token request was rejected or no token
	// could be found in the response.
	ErrAuthentication = errors.New("prowler authentication failed")
	// ErrAPI means an authenticated call returned a non-success status.
	ErrAPI = errors.New("prowler api error")
)

// Result is the outcome of a connectivity probe. Callers must check
// Success; the probe never panics or returns a Go error for upstream
// failures.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client talks to one or more Prowler deployments. Requests carry an
// explicit timeout so a hung upstream cannot hold an inbound request
// open indefinitely.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TestConnection performs the two-step probe: obtain a token with the
// supplied credentials, then hit the health endpoint with it.
func (c *Client) TestConnection(ctx context.Context, baseURL, email, password string) Result {
	token, err := c.authenticate(ctx, baseURL, email, password)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	if err := c.checkHealth(ctx, baseURL, token); err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	return Result{Success: true}
}

// FetchResources authenticates and pulls the full resource listing,
// mapping each item through the tolerant normalizer.
func (c *Client) FetchResources(ctx context.Context, baseURL, email, password string) ([]models.Asset, error) {
	token, err := c.authenticate(ctx, baseURL, email, password)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalizeBaseURL(baseURL)+"/api/v1/resources", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build resources request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: resources endpoint returned %d", ErrAPI, resp.StatusCode)
	}

	items, err := decodeResourceList(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPI, err)
	}

	assets := make([]models.Asset, 0, len(items))
	for _, item := range items {
		assets = append(assets, MapResource(item))
	}
	return assets, nil
}

// authenticate submits the credentials and extracts the bearer token.
func (c *Client) authenticate(ctx context.Context, baseURL, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		normalizeBaseURL(baseURL)+"/api/v1/tokens", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrAuthentication, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read token response: %v", ErrAuthentication, err)
	}

	token := extractToken(raw)
	if token == "" {
		return "", fmt.Errorf("%w: no token in response", ErrAuthentication)
	}
	return token, nil
}

// checkHealth calls the lightweight health endpoint with the token.
func (c *Client) checkHealth(ctx context.Context, baseURL, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		normalizeBaseURL(baseURL)+"/api/v1/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health endpoint returned %d", ErrAPI, resp.StatusCode)
	}
	return nil
}

// tokenKeys is the priority-ordered list of field names historically
// used for the bearer token, checked at the top level and inside
// JSON:API style data.attributes.
var tokenKeys = []string{"token", "access_token", "accessToken", "access", "jwt"}

func extractToken(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if data, ok := body["data"].(map[string]any); ok {
		if attrs, ok := data["attributes"].(map[string]any); ok {
			if t := pickString(attrs, tokenKeys); t != "" {
				return t
			}
		}
		if t := pickString(data, tokenKeys); t != "" {
			return t
		}
	}
	return pickString(body, tokenKeys)
}

// decodeResourceList accepts either a bare array or an object wrapping
// one under a handful of historical key names.
func decodeResourceList(r io.Reader) ([]map[string]any, error) {
	raw, err := io.ReadAll(io.LimitReader(r, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read resources response: %w", err)
	}

	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("decode resources response: %w", err)
	}
	for _, key := range []string{"data", "resources", "items", "results"} {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &list); err == nil {
			return list, nil
		}
	}
	return nil, errors.New("unrecognized resources response shape")
}

func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}
