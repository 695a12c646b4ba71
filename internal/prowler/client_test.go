package prowler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProwler is a minimal stand-in for the upstream API.
type fakeProwler struct {
	email     string
	password  string
	token     string
	tokenBody func(token string) any
	healthy   bool
	resources any
}

func (f *fakeProwler) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/tokens", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != f.email || creds["password"] != f.password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body := f.tokenBody(f.token)
		_ = json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token || !f.healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/v1/resources", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(f.resources)
	})
	return mux
}

func newFakeProwler() *fakeProwler {
	return &fakeProwler{
		email:    "ops@example.com",
		password: "upstream-pw",
		token:    "tok-123",
		tokenBody: func(token string) any {
			return map[string]string{"token": token}
		},
		healthy: true,
	}
}

func TestTestConnectionSuccess(t *testing.T) {
	srv := httptest.NewServer(newFakeProwler().handler())
	defer srv.Close()

	c := NewClient(time.Second)
	result := c.TestConnection(context.Background(), srv.URL+"/", "ops@example.com", "upstream-pw")
	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
}

func TestTestConnectionBadCredentials(t *testing.T) {
	srv := httptest.NewServer(newFakeProwler().handler())
	defer srv.Close()

	c := NewClient(time.Second)
	result := c.TestConnection(context.Background(), srv.URL, "ops@example.com", "wrong")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "authentication failed")
}

func TestTestConnectionTokenAliases(t *testing.T) {
	bodies := map[string]func(token string) any{
		"access_token": func(tok string) any { return map[string]string{"access_token": tok} },
		"accessToken":  func(tok string) any { return map[string]string{"accessToken": tok} },
		"jwt":          func(tok string) any { return map[string]string{"jwt": tok} },
		"jsonapi": func(tok string) any {
			return map[string]any{
				"data": map[string]any{
					"attributes": map[string]any{"access": tok},
				},
			}
		},
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			fake := newFakeProwler()
			fake.tokenBody = body
			srv := httptest.NewServer(fake.handler())
			defer srv.Close()

			c := NewClient(time.Second)
			result := c.TestConnection(context.Background(), srv.URL, "ops@example.com", "upstream-pw")
			assert.True(t, result.Success, "error: %s", result.Error)
		})
	}
}

func TestTestConnectionNoTokenInResponse(t *testing.T) {
	fake := newFakeProwler()
	fake.tokenBody = func(string) any { return map[string]string{"message": "welcome"} }
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := NewClient(time.Second)
	result := c.TestConnection(context.Background(), srv.URL, "ops@example.com", "upstream-pw")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no token")
}

func TestTestConnectionUnhealthy(t *testing.T) {
	fake := newFakeProwler()
	fake.healthy = false
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := NewClient(time.Second)
	result := c.TestConnection(context.Background(), srv.URL, "ops@example.com", "upstream-pw")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "health")
}

func TestTestConnectionUnreachable(t *testing.T) {
	c := NewClient(time.Second)
	// nothing listens here; the failure must come back as data
	result := c.TestConnection(context.Background(), "http://127.0.0.1:1", "a@example.com", "pw")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestFetchResources(t *testing.T) {
	fake := newFakeProwler()
	fake.resources = map[string]any{
		"data": []map[string]any{
			{
				"id":       "i-1",
				"name":     "web",
				"type":     "compute",
				"region":   "us-east-1",
				"status":   "pass",
				"severity": "low",
			},
			{
				"resource_id":       "bucket-1",
				"resource_name":     "logs",
				"resource_type":     "storage",
				"compliance_status": "fail",
				"risk":              "critical",
			},
		},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := NewClient(time.Second)
	assets, err := c.FetchResources(context.Background(), srv.URL, "ops@example.com", "upstream-pw")
	require.NoError(t, err)
	require.Len(t, assets, 2)

	assert.Equal(t, "i-1", assets[0].ResourceID)
	assert.Equal(t, models.AssetCompliant, assets[0].Status)
	assert.Equal(t, "bucket-1", assets[1].ResourceID)
	assert.Equal(t, models.AssetNonCompliant, assets[1].Status)
	assert.Equal(t, models.SeverityCritical, assets[1].Severity)
}

func TestFetchResourcesBareArray(t *testing.T) {
	fake := newFakeProwler()
	fake.resources = []map[string]any{
		{"id": "i-1", "name": "web", "type": "compute", "status": "ok"},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := NewClient(time.Second)
	assets, err := c.FetchResources(context.Background(), srv.URL, "ops@example.com", "upstream-pw")
	require.NoError(t, err)
	require.Len(t, assets, 1)
}

func TestFetchResourcesAuthFailure(t *testing.T) {
	srv := httptest.NewServer(newFakeProwler().handler())
	defer srv.Close()

	c := NewClient(time.Second)
	_, err := c.FetchResources(context.Background(), srv.URL, "ops@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)
}
