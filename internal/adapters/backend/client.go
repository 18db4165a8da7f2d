package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	// Timeout bounds each request end to end. Zero means defaultTimeout.
	Timeout time.Duration

	// AuthScheme overrides the default per-user bearer scheme. When set
	// to API-Key or Token, AuthToken is sent with that prefix on every
	// request; Custom sends AuthToken verbatim.
	AuthScheme string
	AuthToken  string

	// HTTPClient lets tests substitute a transport. Nil uses a fresh
	// client with the configured timeout.
	HTTPClient *http.Client
}

// Client issues HTTP requests to the academy backend with consistent
// authentication, base-URL resolution, and error normalization. It is
// built once at startup and shared; it performs no navigation and holds
// no session state.
type Client struct {
	baseURL    string
	http       *http.Client
	authScheme string
	authToken  string
	timeout    time.Duration
}

// New creates a Client for the given base URL.
// PRE: baseURL is an absolute http(s) URL without trailing slash
func New(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httpClient,
		authScheme: opts.AuthScheme,
		authToken:  opts.AuthToken,
		timeout:    timeout,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// errorBody is the shape backend error responses are expected to carry.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// do performs one request and returns the raw success body.
// POST: 2xx returns the body; non-2xx returns *APIError; transport
// failure returns an error wrapping ErrNetwork.
func (c *Client) do(ctx context.Context, method, endpoint, token string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth := c.authorization(token); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, normalizeError(resp.StatusCode, raw)
	}
	return raw, nil
}

// normalizeError turns a non-2xx response into an *APIError carrying the
// body's detail/message field, falling back to a generic HTTP message.
func normalizeError(status int, raw []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if eb.Detail != "" {
			return &APIError{Status: status, Message: eb.Detail}
		}
		if eb.Message != "" {
			return &APIError{Status: status, Message: eb.Message}
		}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("HTTP %d", status)}
}

// authorization builds the Authorization header value. The default is
// "Bearer <token>" with the caller's per-user token; a configured scheme
// override substitutes the fixed deployment credential instead.
func (c *Client) authorization(token string) string {
	switch c.authScheme {
	case "", "Bearer":
		if token == "" {
			return ""
		}
		return "Bearer " + token
	case "Custom":
		return c.authToken
	default: // API-Key, Token
		return c.authScheme + " " + c.authToken
	}
}

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, endpoint, token string, out any) error {
	return c.send(ctx, http.MethodGet, endpoint, token, nil, out)
}

// send issues a request with an optional JSON body, decoding into out
// when out is non-nil.
func (c *Client) send(ctx context.Context, method, endpoint, token string, body, out any) error {
	raw, err := c.do(ctx, method, endpoint, token, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

// queryPath appends url-encoded query params to an endpoint.
func queryPath(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}
