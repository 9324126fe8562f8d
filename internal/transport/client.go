// Package transport provides HTTP client functionality shared by the sheet
// reader, the image resolver, and the pull request client.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/teamroster/pkg/constants"
	"github.com/agentstation/teamroster/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with optional authentication.
type Client struct {
	http  *http.Client
	auth  Authenticator
	token string
}

// New creates a new transport client with the specified authenticator.
// The token is applied to every request through the authenticator; pass
// an empty token with NoAuth for unauthenticated endpoints.
func New(auth Authenticator, token string) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:  &http.Client{Timeout: DefaultHTTPTimeout},
		auth:  auth,
		token: token,
	}
}

// WithHTTPClient replaces the underlying http.Client, primarily for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}
	if req.Method == http.MethodPost || req.Method == http.MethodPatch || req.Method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	return c.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, url, body)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, url string, body any) (*http.Response, error) {
	return c.send(ctx, http.MethodPatch, url, body)
}

func (c *Client) send(ctx context.Context, method, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapIO("create", method+" "+url, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	return c.Do(req)
}

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx status codes are surfaced as an APIError carrying the body.
func DecodeResponse(resp *http.Response, service string, target any) error {
	defer resp.Body.Close() //nolint:errcheck // read side only

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
