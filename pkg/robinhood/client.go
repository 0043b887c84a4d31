package robinhood

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/betbot/gohood/pkg/logger"
	"github.com/betbot/gohood/pkg/ratelimit"
)

// clientID is the fixed OAuth client id of the official mobile app.
const clientID = "c82SH0WZOsabOXGP2sxqcj34FxkvfnWRZBKlBjFS"

const requestTimeout = 15 * time.Second

// The API bans IPs that burst past its per-minute budget, so requests are
// gated client-side well under the observed threshold.
const (
	rateLimitRequests = 100
	rateLimitWindow   = time.Minute
)

// Client talks to the private Robinhood API. It is not designed for
// concurrent use: Login/Logout/Refresh mutate the bearer token, order and
// read paths only read it.
type Client struct {
	endpoints Endpoints
	http      *resty.Client
	auth      *authSession
	limiter   ratelimit.Limiter
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithEndpoints overrides the API hosts. Tests point this at httptest servers.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// WithTimeout overrides the fixed per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithRateLimiter swaps the request limiter.
func WithRateLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates an unauthenticated client. Proxy configuration is picked
// up from the environment by the underlying transport.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoints: DefaultEndpoints(),
		auth:      newAuthSession(),
		limiter:   ratelimit.NewSlidingWindow(rateLimitRequests, rateLimitWindow),
	}
	c.http = resty.New().
		SetTimeout(requestTimeout).
		SetHeaders(map[string]string{
			"Accept":                  "*/*",
			"Accept-Language":         "en;q=1, fr;q=0.9, de;q=0.8, ja;q=0.7, nl;q=0.6, it;q=0.5",
			"X-Robinhood-API-Version": "1.265.0",
			"Connection":              "keep-alive",
			"User-Agent":              "Robinhood/823 (iPhone; iOS 7.1.2; Scale/2.00)",
		})
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return c.limiter.Wait(req.Context())
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the endpoint resolver in use.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

// IsLoggedIn reports whether the client holds a usable bearer token.
func (c *Client) IsLoggedIn() bool {
	return c.auth.state == AuthStateAuthenticated && c.auth.token != ""
}

func (c *Client) requireAuth() error {
	if !c.IsLoggedIn() {
		return errors.Wrap(ErrAuthRequired, "login required for caller")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.auth.token != "" {
		req.SetHeader("Authorization", "Bearer "+c.auth.token)
	}
	return req
}

// Get performs a GET against an absolute URL and decodes the JSON response
// into out. The bearer token is attached when present.
func (c *Client) Get(ctx context.Context, url string, params map[string]string, out any) error {
	req := c.newRequest(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if out != nil {
		req.SetResult(out)
	}
	logger.Debugf("[robinhood] GET %s", url)
	resp, err := req.Get(url)
	return checkResponse(resp, err)
}

// PostJSON performs a POST with a JSON body against an absolute URL.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	req := c.newRequest(ctx).SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	logger.Debugf("[robinhood] POST %s", url)
	resp, err := req.Post(url)
	return checkResponse(resp, err)
}

// postForm posts an order-preserving form body. The API expects
// form-encoded writes on the equity side.
func (c *Client) postForm(ctx context.Context, url string, form *orderedForm, out any) error {
	req := c.newRequest(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	if form != nil {
		req.SetBody(form.Encode())
	}
	if out != nil {
		req.SetResult(out)
	}
	logger.Debugf("[robinhood] POST %s", url)
	resp, err := req.Post(url)
	return checkResponse(resp, err)
}

// checkResponse passes transport errors through untranslated and turns
// non-2xx statuses into errors carrying the response body.
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return errors.Errorf("robinhood api: %s %s: %d %s",
			resp.Request.Method, resp.Request.URL,
			resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}
	return nil
}
