package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Config defines the setup for the HTTP client used by a profile crawl.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	UseCookieJar bool
	// Transport overrides the default transport, e.g. for uTLS fingerprinting.
	Transport http.RoundTripper
}

// Client wraps a standard http.Client with a configurable timeout, redirect
// policy and cookie jar. One Client is scoped to one top-level profile
// request and released when the crawl finishes.
type Client struct {
	*http.Client
}

// New creates an HTTP client from the provided configuration.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	c := &http.Client{
		Timeout: cfg.Timeout,
	}

	if cfg.MaxRedirects >= 0 {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("httpclient: stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		}
	} else {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	if cfg.UseCookieJar {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("httpclient: %w", err)
		}
		c.Jar = jar
	}

	if cfg.Transport != nil {
		c.Transport = cfg.Transport
	}

	return &Client{Client: c}, nil
}

// Do executes an HTTP request under the provided context. The context governs
// cancellation independently of the client-level timeout.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ctx == nil {
		return nil, errors.New("httpclient: context cannot be nil")
	}

	resp, err := c.Client.Do(req.Clone(ctx))
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	return resp, nil
}

// Release drops any idle connections held by the client. Call it on every
// exit path of a crawl so connection state never outlives the request.
func (c *Client) Release() {
	c.CloseIdleConnections()
}
