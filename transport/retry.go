package transport

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/kbukum/retrokit/logger"
)

// Retrying sends requests through go-retryablehttp. Once retries are
// exhausted the last response is returned as is, so status handling stays
// with the caller.
type Retrying struct {
	client *retryablehttp.Client
}

// NewRetrying wraps base with retry. A nil base uses a fresh *http.Client.
func NewRetrying(base *http.Client, cfg RetryConfig, log *logger.Logger) *Retrying {
	cfg.ApplyDefaults()
	if base == nil {
		base = &http.Client{}
	}
	if log == nil {
		log = logger.Get("transport")
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = base
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.WaitMin
	rc.RetryWaitMax = cfg.WaitMax
	rc.Logger = leveledLogger{log: log}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &Retrying{client: rc}
}

// Send performs req, retrying on connection errors, 429 and 5xx responses.
// The body is buffered so it can be replayed.
func (r *Retrying) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	rreq, err := retryablehttp.FromRequest(outgoing(ctx, req))
	if err != nil {
		return nil, err
	}
	return r.client.Do(rreq)
}

// leveledLogger adapts logger.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log *logger.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Error(msg, logger.Fields(kv...)) }
func (l leveledLogger) Info(msg string, kv ...interface{}) { l.log.Debug(msg, logger.Fields(kv...)) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug(msg, logger.Fields(kv...)) }
func (l leveledLogger) Warn(msg string, kv ...interface{}) { l.log.Warn(msg, logger.Fields(kv...)) }

var _ retryablehttp.LeveledLogger = leveledLogger{}
