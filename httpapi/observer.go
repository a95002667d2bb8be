package httpapi

import (
	"context"
	"net/http"
)

// Finish is called exactly once when a dispatch ends, with the response or
// the error that ended it.
type Finish func(resp *Response, err error)

// Observer watches dispatches. Begin runs after the interceptors and before
// the transport; the context it returns is the one the transport sees.
type Observer interface {
	Begin(ctx context.Context, req *http.Request) (context.Context, Finish)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, req *http.Request) (context.Context, Finish)

// Begin calls f(ctx, req).
func (f ObserverFunc) Begin(ctx context.Context, req *http.Request) (context.Context, Finish) {
	return f(ctx, req)
}

// beginAll starts every observer in order and returns a Finish that ends
// them in reverse.
func beginAll(ctx context.Context, observers []Observer, req *http.Request) (context.Context, Finish) {
	if len(observers) == 0 {
		return ctx, func(*Response, error) {}
	}
	finishes := make([]Finish, 0, len(observers))
	for _, o := range observers {
		var fin Finish
		ctx, fin = o.Begin(ctx, req)
		if fin != nil {
			finishes = append(finishes, fin)
		}
	}
	return ctx, func(resp *Response, err error) {
		for i := len(finishes) - 1; i >= 0; i-- {
			finishes[i](resp, err)
		}
	}
}
