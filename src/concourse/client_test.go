package concourse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeATC records token and build requests.
type fakeATC struct {
	mu         sync.Mutex
	issuer     func(w http.ResponseWriter, r *http.Request)
	legacy     func(w http.ResponseWriter, r *http.Request)
	build      func(w http.ResponseWriter, r *http.Request)
	tokenCalls []string
	authHeader string
	buildURL   string
}

func (f *fakeATC) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/sky/issuer/token":
		f.tokenCalls = append(f.tokenCalls, "issuer")
		if f.issuer == nil {
			http.NotFound(w, r)
			return
		}
		f.issuer(w, r)
	case r.URL.Path == "/sky/token":
		f.tokenCalls = append(f.tokenCalls, "legacy")
		if f.legacy == nil {
			http.NotFound(w, r)
			return
		}
		f.legacy(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/teams/"):
		f.authHeader = r.Header.Get("Authorization")
		f.buildURL = r.URL.RequestURI()
		if f.build == nil {
			http.NotFound(w, r)
			return
		}
		f.build(w, r)
	default:
		http.NotFound(w, r)
	}
}

func tokenHandler(t *testing.T, wantScope string, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "basic auth missing")
		assert.Equal(t, "fly", user)
		assert.Equal(t, "Zmx5", pass)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "ci", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		assert.Equal(t, wantScope, r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func statusHandler(status string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 12, "name": "4", "status": status})
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://ci.example.com")

	require.NotNil(t, client)
	assert.Equal(t, "https://ci.example.com/", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.False(t, client.Authenticated())

	client = NewClient("https://ci.example.com/")
	assert.Equal(t, "https://ci.example.com/", client.baseURL)
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		issuer     string
		legacy     string
		wantBearer string
		wantCalls  []string
	}{
		{
			name:       "issuer id_token preferred",
			issuer:     `{"access_token":"access","id_token":"id","token_type":"bearer"}`,
			wantBearer: "id",
			wantCalls:  []string{"issuer"},
		},
		{
			name:       "issuer access_token when id_token empty",
			issuer:     `{"access_token":"access","token_type":"bearer"}`,
			wantBearer: "access",
			wantCalls:  []string{"issuer"},
		},
		{
			name:       "issuer without tokens falls back to legacy",
			issuer:     `{}`,
			legacy:     `{"access_token":"legacy-token"}`,
			wantBearer: "legacy-token",
			wantCalls:  []string{"issuer", "legacy"},
		},
		{
			name:       "issuer garbage falls back to legacy",
			issuer:     `not json`,
			legacy:     `{"access_token":"legacy-token"}`,
			wantBearer: "legacy-token",
			wantCalls:  []string{"issuer", "legacy"},
		},
		{
			name:      "both fail",
			issuer:    `not json`,
			legacy:    `still not json`,
			wantCalls: []string{"issuer", "legacy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atc := &fakeATC{
				issuer: tokenHandler(t, "openid profile email federated:id groups", tt.issuer),
			}
			if tt.legacy != "" {
				atc.legacy = tokenHandler(t, "openid+profile+email+federated:id+groups", tt.legacy)
			}
			server := httptest.NewServer(atc)
			defer server.Close()

			client := NewClient(server.URL).Authenticate(context.Background(), "ci", "secret")

			assert.Equal(t, tt.wantBearer, client.bearer)
			assert.Equal(t, tt.wantBearer != "", client.Authenticated())
			assert.Equal(t, tt.wantCalls, atc.tokenCalls)
		})
	}
}

func TestAuthenticate_IssuerHTTPError(t *testing.T) {
	atc := &fakeATC{
		issuer: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"access_token":"should-not-be-used"}`))
		},
		legacy: tokenHandler(t, "openid+profile+email+federated:id+groups", `{"access_token":"legacy-token"}`),
	}
	server := httptest.NewServer(atc)
	defer server.Close()

	client := NewClient(server.URL).Authenticate(context.Background(), "ci", "secret")

	assert.Equal(t, "legacy-token", client.bearer)
}

func TestAuthenticate_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(server.URL).Authenticate(context.Background(), "ci", "secret")

	assert.False(t, client.Authenticated())
}

func TestBuildURL(t *testing.T) {
	client := NewClient("http://example.com")

	assert.Equal(t,
		"http://example.com/api/v1/teams/main/pipelines/pipeline/jobs/job/builds/4",
		client.BuildURL("main", "pipeline", nil, "job", 4),
	)

	vars, err := ParseInstanceVars(`{"num":1,"foo":"bar"}`)
	require.NoError(t, err)
	assert.Equal(t,
		"http://example.com/api/v1/teams/main/pipelines/pipeline/jobs/job/builds/4?vars=%7B%22foo%22%3A%22bar%22%2C%22num%22%3A1%7D",
		client.BuildURL("main", "pipeline", vars, "job", 4),
	)

	assert.Equal(t,
		"http://example.com/api/v1/teams/main/pipelines/my%20pipeline/jobs/unit%2Ftests/builds/4",
		client.BuildURL("main", "my pipeline", nil, "unit/tests", 4),
	)
}

func TestBuildStatus(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(w http.ResponseWriter, r *http.Request)
		wantStatus Status
		wantOK     bool
	}{
		{name: "succeeded", handler: statusHandler("succeeded"), wantStatus: StatusSucceeded, wantOK: true},
		{name: "failed", handler: statusHandler("failed"), wantStatus: StatusFailed, wantOK: true},
		{name: "pending", handler: statusHandler("pending"), wantStatus: StatusPending, wantOK: true},
		{name: "unknown status", handler: statusHandler("exploded")},
		{
			name: "status absent",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id": 12}`))
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "undecodable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atc := &fakeATC{build: tt.handler}
			server := httptest.NewServer(atc)
			defer server.Close()

			status, ok := NewClient(server.URL).BuildStatus(context.Background(), "main", "pipeline", nil, "job", 4)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, "/api/v1/teams/main/pipelines/pipeline/jobs/job/builds/4", atc.buildURL)
		})
	}
}

func TestBuildStatus_BearerHeader(t *testing.T) {
	atc := &fakeATC{
		issuer: tokenHandler(t, "openid profile email federated:id groups", `{"id_token":"tok"}`),
		build:  statusHandler("succeeded"),
	}
	server := httptest.NewServer(atc)
	defer server.Close()

	anonymous := NewClient(server.URL)
	_, ok := anonymous.BuildStatus(context.Background(), "main", "p", nil, "j", 1)
	require.True(t, ok)
	assert.Empty(t, atc.authHeader)

	authed := NewClient(server.URL).Authenticate(context.Background(), "ci", "secret")
	_, ok = authed.BuildStatus(context.Background(), "main", "p", nil, "j", 1)
	require.True(t, ok)
	assert.Equal(t, "Bearer tok", atc.authHeader)
}

func TestBuildStatus_InstanceVars(t *testing.T) {
	atc := &fakeATC{build: statusHandler("errored")}
	server := httptest.NewServer(atc)
	defer server.Close()

	vars, err := ParseInstanceVars(`{"branch":"main"}`)
	require.NoError(t, err)

	status, ok := NewClient(server.URL).BuildStatus(context.Background(), "main", "p", vars, "j", 7)

	require.True(t, ok)
	assert.Equal(t, StatusErrored, status)
	assert.Equal(t, "/api/v1/teams/main/pipelines/p/jobs/j/builds/7?vars=%7B%22branch%22%3A%22main%22%7D", atc.buildURL)
}
