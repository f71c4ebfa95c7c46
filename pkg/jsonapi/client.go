package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

const (
	defaultTimeout  = 60 * time.Second
	defaultMaxTries = 3
)

// Client talks JSON:API to the xbe REST service.
type Client struct {
	baseURL    *url.URL
	token      string
	userAgent  string
	httpClient *http.Client
	maxTries   uint
	newBackOff func() backoff.BackOff
}

type ClientOption func(*Client)

func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxTries bounds the attempts made for 502/503/504 and network errors.
// 1 disables retries.
func WithMaxTries(n uint) ClientOption {
	return func(c *Client) {
		c.maxTries = n
	}
}

func WithBackOff(fn func() backoff.BackOff) ClientOption {
	return func(c *Client) {
		c.newBackOff = fn
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		userAgent:  "xbe-integration",
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxTries:   defaultMaxTries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Response is a completed exchange, including non-2xx ones.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Document is nil when the body is empty or not JSON:API.
	Document *Document
}

func (c *Client) Get(ctx context.Context, path string, query *Query) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body *Document) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Patch(ctx context.Context, path string, body *Document) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends the request. GET requests are retried on 502/503/504 and network
// failures with backoff; other methods are sent exactly once since the
// service may have applied a request whose response was lost. Any other
// non-2xx status returns the response together with an *errors.APIError.
func (c *Client) Do(ctx context.Context, method, path string, query *Query, body *Document) (*Response, error) {
	log := zap.S().Named("jsonapi")

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = b
	}

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()
	target := u.String()

	attempt := 0
	operation := func() (*Response, error) {
		attempt++
		log.Debugw("request", "method", method, "url", target, "attempt", attempt)

		resp, err := c.send(ctx, method, target, payload)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		apiErr := srvErrors.NewAPIError(resp.StatusCode, fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)), method, path, details(resp)...)
		if apiErr.Transient() {
			return resp, apiErr
		}
		return resp, backoff.Permanent(apiErr)
	}

	tries := c.maxTries
	if !retryable(method) {
		tries = 1
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debugw("retrying request", "method", method, "url", target, "error", err, "next", next)
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return resp, err
	}
	return resp, nil
}

func retryable(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", MediaType)
	if payload != nil {
		req.Header.Set("Content-Type", MediaType)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}
	if len(bytes.TrimSpace(data)) > 0 {
		var doc Document
		if err := Decode(data, &doc); err == nil {
			resp.Document = &doc
		}
	}
	return resp, nil
}

func details(resp *Response) []string {
	if resp.Document == nil {
		return nil
	}
	out := make([]string, 0, len(resp.Document.Errors))
	for _, e := range resp.Document.Errors {
		if s := e.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
