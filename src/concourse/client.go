// Package concourse provides a client for the parts of the Concourse API the
// resource relies on: token issuance and build lookups.
package concourse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"concourse-slack-notifier/src/logger"
	"concourse-slack-notifier/src/transport"
)

// fly is the public OAuth client every Concourse installation accepts.
const (
	flyClientID     = "fly"
	flyClientSecret = "Zmx5"

	issuerTokenPath = "sky/issuer/token"
	legacyTokenPath = "sky/token"

	issuerScope = "openid profile email federated:id groups"
	legacyScope = "openid+profile+email+federated:id+groups"
)

// Client is a Concourse API client.
//
// Authentication is best effort: when neither token endpoint works the
// client stays anonymous and keeps working for public pipelines.
type Client struct {
	baseURL    string
	bearer     string
	httpClient *http.Client
	log        logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
}

// NewClient creates a client for the Concourse installation at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: transport.DefaultTimeout},
		log:        logger.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether a bearer token was obtained.
func (c *Client) Authenticated() bool {
	return c.bearer != ""
}

// Authenticate exchanges username and password for a bearer token.
// The issuer endpoint of current Concourse versions is tried first, then the
// endpoint older versions expose. Failure is logged and otherwise ignored.
func (c *Client) Authenticate(ctx context.Context, username, password string) *Client {
	token, err := c.requestToken(ctx, issuerTokenPath, username, password, issuerScope)
	if err != nil {
		c.log.Debug("token request to %s failed: %v", issuerTokenPath, err)
		token, err = c.requestToken(ctx, legacyTokenPath, username, password, legacyScope)
	}
	if err != nil {
		c.log.Debug("token request to %s failed: %v", legacyTokenPath, err)
		c.log.Info("could not authenticate to %s, continuing without credentials", c.baseURL)
		return c
	}
	c.bearer = token
	return c
}

func (c *Client) requestToken(ctx context.Context, path, username, password, scope string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)
	form.Set("scope", scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(flyClientID, flyClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	// Recent servers hand out the usable bearer as id_token, older ones only
	// as access_token.
	switch {
	case tok.IDToken != "":
		return tok.IDToken, nil
	case tok.AccessToken != "":
		return tok.AccessToken, nil
	default:
		return "", fmt.Errorf("token response from %s carries no token", path)
	}
}

// BuildURL returns the API URL of a job build.
func (c *Client) BuildURL(team, pipeline string, vars InstanceVars, job string, number uint64) string {
	u := fmt.Sprintf("%sapi/v1/teams/%s/pipelines/%s/jobs/%s/builds/%d",
		c.baseURL,
		url.PathEscape(team),
		url.PathEscape(pipeline),
		url.PathEscape(job),
		number,
	)
	if len(vars) > 0 {
		u += "?vars=" + url.QueryEscape(vars.QueryValue())
	}
	return u
}

// GetBuild fetches a job build from the Concourse API.
func (c *Client) GetBuild(ctx context.Context, team, pipeline string, vars InstanceVars, job string, number uint64) (*Build, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BuildURL(team, pipeline, vars, job, number), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var build Build
	if err := json.NewDecoder(resp.Body).Decode(&build); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &build, nil
}

// BuildStatus looks up the status of a job build. Lookups are advisory, so
// every failure, and a missing or unrecognised status, is reported as
// ok == false.
func (c *Client) BuildStatus(ctx context.Context, team, pipeline string, vars InstanceVars, job string, number uint64) (Status, bool) {
	build, err := c.GetBuild(ctx, team, pipeline, vars, job, number)
	if err != nil {
		c.log.Debug("build %s/%s #%d lookup failed: %v", pipeline, job, number, err)
		return "", false
	}
	if !build.Status.Valid() {
		c.log.Debug("build %s/%s #%d has no usable status %q", pipeline, job, number, build.Status)
		return "", false
	}
	return build.Status, true
}
