package httpapi

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/retrokit/errors"
	"github.com/kbukum/retrokit/interceptor"
	"github.com/kbukum/retrokit/logger"
	"github.com/kbukum/retrokit/transport"
)

// DefaultTimeout bounds a dispatch when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Dispatcher runs the interceptor chain and sends requests through a
// transport under a timeout. It is safe for concurrent use; configuration
// changes apply to dispatches that start afterwards.
type Dispatcher struct {
	chain *interceptor.Chain[*http.Request]

	mu        sync.RWMutex
	transport transport.Transport
	timeout   time.Duration
	observers []Observer
	log       *logger.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchTimeout sets the per-dispatch timeout.
func WithDispatchTimeout(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) { dp.timeout = normalizeTimeout(d) }
}

// WithDispatchObserver adds an observer.
func WithDispatchObserver(o Observer) DispatcherOption {
	return func(dp *Dispatcher) { dp.observers = append(dp.observers, o) }
}

// WithDispatchLogger sets the dispatcher's logger.
func WithDispatchLogger(l *logger.Logger) DispatcherOption {
	return func(dp *Dispatcher) { dp.log = l }
}

// NewDispatcher creates a dispatcher over t. A nil t uses transport.Default().
func NewDispatcher(t transport.Transport, opts ...DispatcherOption) *Dispatcher {
	if t == nil {
		t = transport.Default()
	}
	d := &Dispatcher{
		chain:     interceptor.NewChain[*http.Request](),
		transport: t,
		timeout:   DefaultTimeout,
		log:       logger.Get("httpapi"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func normalizeTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// SetTimeout replaces the timeout. Zero or negative restores DefaultTimeout.
func (d *Dispatcher) SetTimeout(timeout time.Duration) {
	d.mu.Lock()
	d.timeout = normalizeTimeout(timeout)
	d.mu.Unlock()
}

// Timeout returns the current timeout.
func (d *Dispatcher) Timeout() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.timeout
}

// SetTransport replaces the transport. Nil is ignored.
func (d *Dispatcher) SetTransport(t transport.Transport) {
	if t == nil {
		return
	}
	d.mu.Lock()
	d.transport = t
	d.mu.Unlock()
}

// Transport returns the current transport.
func (d *Dispatcher) Transport() transport.Transport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.transport
}

// AddObserver appends an observer.
func (d *Dispatcher) AddObserver(o Observer) {
	d.mu.Lock()
	d.observers = append(d.observers, o)
	d.mu.Unlock()
}

// AddInterceptor appends i to the chain.
func (d *Dispatcher) AddInterceptor(i interceptor.Interceptor[*http.Request]) bool {
	return d.chain.Add(i)
}

// AddInterceptorFront prepends i so it runs first.
func (d *Dispatcher) AddInterceptorFront(i interceptor.Interceptor[*http.Request]) bool {
	return d.chain.AddFront(i)
}

// AddInterceptorFunc appends fn and returns the interceptor wrapping it.
func (d *Dispatcher) AddInterceptorFunc(fn func(*http.Request) error) interceptor.Interceptor[*http.Request] {
	return d.chain.AddFunc(fn)
}

// RemoveInterceptor removes i by id.
func (d *Dispatcher) RemoveInterceptor(i interceptor.Interceptor[*http.Request]) bool {
	return d.chain.Remove(i)
}

// Interceptors returns the chain.
func (d *Dispatcher) Interceptors() *interceptor.Chain[*http.Request] {
	return d.chain
}

// Do runs the interceptors against req, then sends it and reads the whole
// body within the timeout.
//
// Errors: INTERCEPTOR_ERROR when an interceptor fails (the chain itself is
// not timed), TIMEOUT when the timer fires first, TRANSPORT_ERROR when the
// transport fails or ctx is canceled.
func (d *Dispatcher) Do(ctx context.Context, req *http.Request) (*Response, error) {
	if err := d.chain.RunAll(req); err != nil {
		return nil, errors.Interceptor(err)
	}

	d.mu.RLock()
	tr, timeout, observers, log := d.transport, d.timeout, d.observers, d.log
	d.mu.RUnlock()

	start := time.Now()
	ctx, finish := beginAll(ctx, observers, req)
	resp, err := send(ctx, tr, timeout, req)
	finish(resp, err)

	fields := logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL.Redacted(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	if err != nil {
		fields[logger.FieldErrorCode] = string(errors.CodeOf(err))
		log.Warn("dispatch failed", logger.MergeWithError(fields, err))
		return nil, err
	}
	fields[logger.FieldStatus] = resp.StatusCode
	log.Debug("dispatch", fields)
	return resp, nil
}

type sendResult struct {
	resp *Response
	err  error
}

func send(ctx context.Context, tr transport.Transport, timeout time.Duration, req *http.Request) (*Response, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Capacity 1: the goroutine never blocks on send, even after a timeout.
	done := make(chan sendResult, 1)
	go func() {
		resp, err := readAll(tr.Send(tctx, req.WithContext(tctx)))
		done <- sendResult{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, classify(ctx, tctx, timeout, r.err)
		}
		return r.resp, nil
	case <-tctx.Done():
		return nil, classify(ctx, tctx, timeout, tctx.Err())
	}
}

func readAll(hr *http.Response, err error) (*Response, error) {
	if err != nil {
		return nil, err
	}
	if hr == nil {
		return nil, stderrors.New("transport returned no response")
	}
	var body []byte
	if hr.Body != nil {
		defer hr.Body.Close()
		if body, err = io.ReadAll(hr.Body); err != nil {
			return nil, err
		}
	}
	return &Response{StatusCode: hr.StatusCode, Header: hr.Header, Body: body}, nil
}

// classify maps a send failure onto TIMEOUT or TRANSPORT_ERROR. The caller's
// own deadline counts as a timeout; the caller's cancellation does not.
func classify(parent, tctx context.Context, timeout time.Duration, err error) error {
	switch {
	case parent.Err() != nil:
		if stderrors.Is(parent.Err(), context.DeadlineExceeded) {
			return errors.Timeout(timeout, parent.Err())
		}
		return errors.Transport(parent.Err())
	case stderrors.Is(tctx.Err(), context.DeadlineExceeded):
		return errors.Timeout(timeout, err)
	default:
		return errors.Transport(err)
	}
}

// --- verb helpers over absolute URLs ---

func (d *Dispatcher) verb(ctx context.Context, method, rawURL string, header http.Header, contentType string, body io.Reader) (*Response, error) {
	req, err := Builder{}.Build(ctx, method, rawURL, contentType, header, nil, nil, body)
	if err != nil {
		return nil, err
	}
	return d.Do(ctx, req)
}

// Get sends a GET to rawURL.
func (d *Dispatcher) Get(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	return d.verb(ctx, http.MethodGet, rawURL, header, "", nil)
}

// Head sends a HEAD to rawURL.
func (d *Dispatcher) Head(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	return d.verb(ctx, http.MethodHead, rawURL, header, "", nil)
}

// Options sends an OPTIONS to rawURL.
func (d *Dispatcher) Options(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	return d.verb(ctx, http.MethodOptions, rawURL, header, "", nil)
}

// Delete sends a DELETE to rawURL.
func (d *Dispatcher) Delete(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	return d.verb(ctx, http.MethodDelete, rawURL, header, "", nil)
}

// Post sends a POST with body to rawURL.
func (d *Dispatcher) Post(ctx context.Context, rawURL string, header http.Header, contentType string, body io.Reader) (*Response, error) {
	return d.verb(ctx, http.MethodPost, rawURL, header, contentType, body)
}

// Put sends a PUT with body to rawURL.
func (d *Dispatcher) Put(ctx context.Context, rawURL string, header http.Header, contentType string, body io.Reader) (*Response, error) {
	return d.verb(ctx, http.MethodPut, rawURL, header, contentType, body)
}

// Patch sends a PATCH with body to rawURL.
func (d *Dispatcher) Patch(ctx context.Context, rawURL string, header http.Header, contentType string, body io.Reader) (*Response, error) {
	return d.verb(ctx, http.MethodPatch, rawURL, header, contentType, body)
}
