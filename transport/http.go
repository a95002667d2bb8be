package transport

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"github.com/kbukum/retrokit/errors"
)

// HTTP sends requests with an *http.Client.
type HTTP struct {
	client *http.Client
}

// NewHTTP builds a net/http transport from cfg.
func NewHTTP(cfg Config) (*HTTP, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt, err := buildRoundTripper(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTP{client: &http.Client{Transport: rt}}, nil
}

// NewHTTPFromClient wraps an existing client. The client's own Timeout, if
// any, applies in addition to the caller's context.
func NewHTTPFromClient(c *http.Client) *HTTP {
	if c == nil {
		c = &http.Client{}
	}
	return &HTTP{client: c}
}

// Client returns the underlying client.
func (h *HTTP) Client() *http.Client { return h.client }

// Send performs the request with ctx attached. A default User-Agent is set
// when the request has none.
func (h *HTTP) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return h.client.Do(outgoing(ctx, req))
}

func buildRoundTripper(cfg Config) (*http.Transport, error) {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		DisableKeepAlives:     cfg.DisableKeepAlives,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		t.TLSClientConfig = tlsCfg
	}

	if cfg.ForceHTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, errors.InvalidConfig("transport: enable http2").WithCause(err)
		}
	}
	return t, nil
}
