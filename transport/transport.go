package transport

import (
	"context"
	"net/http"

	"github.com/kbukum/retrokit/version"
)

// Transport sends a request and returns the response. Implementations must
// honor ctx cancellation and be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Func adapts a function to Transport. Useful for stubs.
type Func func(ctx context.Context, req *http.Request) (*http.Response, error)

// Send calls f(ctx, req).
func (f Func) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return f(ctx, req)
}

// outgoing returns req bound to ctx. When req has no User-Agent the default
// is set on a clone, so the caller's header map is never written.
func outgoing(ctx context.Context, req *http.Request) *http.Request {
	if req.Header.Get("User-Agent") != "" {
		return req.WithContext(ctx)
	}
	out := req.Clone(ctx)
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	out.Header.Set("User-Agent", version.UserAgent())
	return out
}
