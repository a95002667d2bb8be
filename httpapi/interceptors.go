package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kbukum/retrokit/interceptor"
	"github.com/kbukum/retrokit/logger"
)

// HeaderInterceptor sets key to value on every request.
func HeaderInterceptor(key, value string) interceptor.Interceptor[*http.Request] {
	return interceptor.NewNamedFunc("header:"+key, func(req *http.Request) error {
		if _, err := mergeHeaders(http.Header{key: {value}}, "", nil); err != nil {
			return err
		}
		req.Header.Set(key, value)
		return nil
	})
}

// RequestIDInterceptor sets header (X-Request-ID when empty) to a fresh
// UUID unless the request already carries one.
func RequestIDInterceptor(header string) interceptor.Interceptor[*http.Request] {
	if header == "" {
		header = "X-Request-ID"
	}
	return interceptor.NewNamedFunc("request-id", func(req *http.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, uuid.NewString())
		}
		return nil
	})
}

// LoggingInterceptor logs each outgoing request at debug level.
func LoggingInterceptor(log *logger.Logger) interceptor.Interceptor[*http.Request] {
	if log == nil {
		log = logger.Get("httpapi")
	}
	return interceptor.NewNamedFunc("logging", func(req *http.Request) error {
		log.Debug("outgoing request", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.Redacted(),
		))
		return nil
	})
}

// RateLimitInterceptor blocks each request until the limiter admits it.
// Waiting honors the request context; a canceled wait fails the interceptor.
func RateLimitInterceptor(rps float64, burst int) interceptor.Interceptor[*http.Request] {
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return interceptor.NewNamedFunc("rate-limit", func(req *http.Request) error {
		return limiter.Wait(req.Context())
	})
}
