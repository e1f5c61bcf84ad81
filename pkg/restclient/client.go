// pkg/restclient/client.go

// Package restclient is the small JSON-over-HTTP client shared by the adapter
// packages and by generated packages.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "toolbelt/1.0"
	maxErrorBody     = 2048
)

// Auth decorates an outgoing request with credentials.
type Auth interface {
	Apply(req *http.Request)
}

// BearerToken sends "Authorization: Bearer <token>".
type BearerToken string

// Apply sets the Authorization header.
func (t BearerToken) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+string(t))
}

// BasicAuth sends HTTP basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Apply sets basic auth on the request.
func (b BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(b.Username, b.Password)
}

// HeaderAuth sends a credential in a named header, e.g. X-API-Key.
type HeaderAuth struct {
	Header string
	Value  string
}

// Apply sets the header.
func (h HeaderAuth) Apply(req *http.Request) {
	req.Header.Set(h.Header, h.Value)
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, e.Status, body)
}

// Client sends JSON or form requests relative to a base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       Auth
	headers    map[string]string
	newBackOff func() backoff.BackOff
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAuth sets the credential decorator.
func WithAuth(a Auth) Option { return func(c *Client) { c.auth = a } }

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

// WithTimeout sets the per-request timeout. It applies to a copy of the
// http.Client, so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBaseURL overrides the base URL the client was created with. Adapters use
// it to point at sandboxes, self-hosted instances, or test servers.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithBackOff replaces the retry policy used for idempotent requests.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = factory }
}

// New returns a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		headers:    map[string]string{"User-Agent": defaultUserAgent},
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 3 * time.Second
	return b
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Request describes one call. Path is joined to the base URL unless it is absolute.
// At most one of JSON and Form is sent as the body.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	JSON    any
	Form    url.Values
	Headers map[string]string
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// PostJSON issues a POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: body}, out)
}

// PostForm issues a POST with a form-encoded body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Form: form}, out)
}

// Do sends the request and decodes a JSON response into out when out is non-nil.
// GET and HEAD requests are retried on network errors and 5xx responses.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	target, err := c.resolve(r.Path, r.Query)
	if err != nil {
		return err
	}
	var payload []byte
	contentType := ""
	switch {
	case r.JSON != nil:
		payload, err = json.Marshal(r.JSON)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		contentType = "application/json"
	case r.Form != nil:
		payload = []byte(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	var body []byte
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, r.Method, target, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		for k, v := range r.Headers {
			req.Header.Set(k, v)
		}
		if c.auth != nil {
			c.auth.Apply(req)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{
				Method:     r.Method,
				URL:        target,
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       truncate(string(data), maxErrorBody),
			}
			if resp.StatusCode >= 500 {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		body = data
		return nil
	}

	if idempotent(r.Method) {
		err = backoff.Retry(attempt, backoff.WithContext(c.newBackOff(), ctx))
	} else {
		err = attempt()
	}
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", target, err)
	}
	return nil
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		raw = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid request url %q: %w", raw, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
