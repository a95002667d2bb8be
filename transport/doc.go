// Package transport is the pluggable layer that actually sends requests.
//
// Anything that can turn an *http.Request into an *http.Response under a
// context is a Transport. Two bindings are provided: HTTP over net/http
// (TLS, connection pooling, optional forced HTTP/2 via golang.org/x/net/http2)
// and Retrying, which wraps an *http.Client with hashicorp/go-retryablehttp.
// Retry is strictly a transport concern; the dispatcher above never retries.
//
//	t, err := transport.New(transport.Config{
//	    TLS:   &security.TLSConfig{CAFile: "ca.pem"},
//	    Retry: &transport.RetryConfig{MaxRetries: 3},
//	}, log)
package transport
