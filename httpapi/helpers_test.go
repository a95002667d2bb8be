package httpapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/retrokit/apitest"
	"github.com/kbukum/retrokit/logger"
	"github.com/kbukum/retrokit/transport"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// capture returns a transport that records the last request and answers 200 "{}".
func capture(got **http.Request) transport.Transport {
	return transport.Func(func(_ context.Context, req *http.Request) (*http.Response, error) {
		*got = req
		return response(http.StatusOK, "{}"), nil
	})
}

// blocking returns a transport that never answers until the test ends.
func blocking(t *testing.T) transport.Transport {
	t.Helper()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	return transport.Func(func(context.Context, *http.Request) (*http.Response, error) {
		<-release
		return nil, io.EOF
	})
}

func newTestAPI(t *testing.T, cfg Config, opts ...Option) *API {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	api, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = api.Close() })
	return api
}

func newServerAPI(t *testing.T, cfg Config) (*API, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	cfg.BaseURL = srv.URL()
	return newTestAPI(t, cfg), srv
}
