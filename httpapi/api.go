package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sync"
	"time"

	"github.com/kbukum/retrokit/codec"
	"github.com/kbukum/retrokit/config"
	"github.com/kbukum/retrokit/errors"
	"github.com/kbukum/retrokit/interceptor"
	"github.com/kbukum/retrokit/logger"
	"github.com/kbukum/retrokit/transport"
)

// API is the configuration shared by every endpoint of one service. All
// methods are safe for concurrent use; a call observes the configuration
// as it was when the call started.
type API struct {
	name       string
	dispatcher *Dispatcher
	log        *logger.Logger

	mu              sync.RWMutex
	baseURL         string
	header          http.Header
	failOnStatus    bool
	transportCfg    transport.Config
	customTransport bool

	watchMu sync.Mutex
	watcher *config.Watcher
}

// Option configures an API.
type Option func(*apiOptions)

type apiOptions struct {
	transport    transport.Transport
	log          *logger.Logger
	observers    []Observer
	interceptors []interceptor.Interceptor[*http.Request]
}

// WithTransport replaces the transport built from Config.Transport.
func WithTransport(t transport.Transport) Option {
	return func(o *apiOptions) { o.transport = t }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *apiOptions) { o.log = l }
}

// WithObserver adds a dispatch observer.
func WithObserver(obs Observer) Option {
	return func(o *apiOptions) { o.observers = append(o.observers, obs) }
}

// WithInterceptor appends an interceptor to the chain.
func WithInterceptor(i interceptor.Interceptor[*http.Request]) Option {
	return func(o *apiOptions) { o.interceptors = append(o.interceptors, i) }
}

// New creates an API from cfg.
func New(cfg Config, opts ...Option) (*API, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	header, err := cfg.defaultHeader()
	if err != nil {
		return nil, err
	}

	var o apiOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("httpapi")
	}
	o.log = o.log.WithFields(logger.Fields("api", cfg.Name))

	tr := o.transport
	if tr == nil {
		if tr, err = transport.New(cfg.Transport, o.log.WithComponent("transport")); err != nil {
			return nil, err
		}
	}

	dopts := []DispatcherOption{WithDispatchTimeout(cfg.Timeout), WithDispatchLogger(o.log)}
	for _, obs := range o.observers {
		dopts = append(dopts, WithDispatchObserver(obs))
	}
	d := NewDispatcher(tr, dopts...)
	for _, i := range o.interceptors {
		d.AddInterceptor(i)
	}

	return &API{
		name:            cfg.Name,
		dispatcher:      d,
		log:             o.log,
		baseURL:         cfg.BaseURL,
		header:          header,
		failOnStatus:    cfg.FailOnStatus,
		transportCfg:    cfg.Transport,
		customTransport: o.transport != nil,
	}, nil
}

// Name returns the API's name.
func (a *API) Name() string { return a.name }

// Dispatcher returns the dispatcher, for interceptor and observer management.
func (a *API) Dispatcher() *Dispatcher { return a.dispatcher }

// SetBaseURL replaces the base URL.
func (a *API) SetBaseURL(raw string) error {
	if raw != "" {
		if _, err := url.Parse(raw); err != nil {
			return errors.InvalidURL(raw, err)
		}
	}
	a.mu.Lock()
	a.baseURL = raw
	a.mu.Unlock()
	return nil
}

// BaseURL returns the base URL.
func (a *API) BaseURL() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.baseURL
}

// SetDefaultHeader replaces the default headers with a copy of h.
func (a *API) SetDefaultHeader(h http.Header) error {
	if _, err := mergeHeaders(h, "", nil); err != nil {
		return err
	}
	a.mu.Lock()
	a.header = h.Clone()
	a.mu.Unlock()
	return nil
}

// SetHeader sets one default header.
func (a *API) SetHeader(key, value string) error {
	if _, err := mergeHeaders(http.Header{key: {value}}, "", nil); err != nil {
		return err
	}
	// The published map is never written in place; builders read it unlocked.
	a.mu.Lock()
	h := a.header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	h.Set(key, value)
	a.header = h
	a.mu.Unlock()
	return nil
}

// DefaultHeader returns a copy of the default headers.
func (a *API) DefaultHeader() http.Header {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.header.Clone()
}

// SetTimeout replaces the dispatch timeout. Zero or negative restores the default.
func (a *API) SetTimeout(d time.Duration) { a.dispatcher.SetTimeout(d) }

// Timeout returns the dispatch timeout.
func (a *API) Timeout() time.Duration { return a.dispatcher.Timeout() }

// SetTransport replaces the transport. Reconfigure no longer rebuilds it afterwards.
func (a *API) SetTransport(t transport.Transport) {
	a.mu.Lock()
	a.customTransport = true
	a.mu.Unlock()
	a.dispatcher.SetTransport(t)
}

// SetFailOnStatus toggles the status policy.
func (a *API) SetFailOnStatus(fail bool) {
	a.mu.Lock()
	a.failOnStatus = fail
	a.mu.Unlock()
}

// FailOnStatus reports whether 4xx/5xx responses become STATUS_ERROR.
func (a *API) FailOnStatus() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.failOnStatus
}

// AddInterceptor appends i to the dispatcher chain.
func (a *API) AddInterceptor(i interceptor.Interceptor[*http.Request]) bool {
	return a.dispatcher.AddInterceptor(i)
}

// RemoveInterceptor removes i from the dispatcher chain.
func (a *API) RemoveInterceptor(i interceptor.Interceptor[*http.Request]) bool {
	return a.dispatcher.RemoveInterceptor(i)
}

// Reconfigure applies cfg to a running API: base URL, headers, timeout,
// status policy and, unless a transport was injected, the transport.
func (a *API) Reconfigure(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	header, err := cfg.defaultHeader()
	if err != nil {
		return err
	}

	a.mu.RLock()
	rebuild := !a.customTransport && !reflect.DeepEqual(a.transportCfg, cfg.Transport)
	a.mu.RUnlock()

	var tr transport.Transport
	if rebuild {
		if tr, err = transport.New(cfg.Transport, a.log.WithComponent("transport")); err != nil {
			return err
		}
	}

	a.mu.Lock()
	a.baseURL = cfg.BaseURL
	a.header = header
	a.failOnStatus = cfg.FailOnStatus
	if tr != nil {
		a.transportCfg = cfg.Transport
	}
	a.mu.Unlock()

	a.dispatcher.SetTimeout(cfg.Timeout)
	if tr != nil {
		a.dispatcher.SetTransport(tr)
	}
	a.log.Info("api reconfigured", logger.Fields("base_url", cfg.BaseURL, logger.FieldTimeout, cfg.Timeout.Milliseconds()))
	return nil
}

func (a *API) builder() Builder {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Builder{BaseURL: a.baseURL, DefaultHeader: a.header}
}

// NewRequest builds a request against the API without sending it.
func (a *API) NewRequest(ctx context.Context, method, relativeURL string, opts Options, contentType string, body io.Reader) (*http.Request, error) {
	return a.builder().Build(ctx, method, relativeURL, contentType, opts.Header, opts.Path, opts.Query, body)
}

// NewMultipartRequest encodes form with the buffered multipart codec and
// builds a request without sending it.
func (a *API) NewMultipartRequest(ctx context.Context, method, relativeURL string, opts Options, form *codec.FormData) (*http.Request, error) {
	p, err := codec.Multipart.Encode(form)
	if err != nil {
		return nil, errors.Encode(err)
	}
	return a.NewRequest(ctx, method, relativeURL, opts, p.ContentType, p.Body)
}

// Do builds and dispatches a request and returns the raw response. The
// status policy does not apply.
func (a *API) Do(ctx context.Context, method, relativeURL string, opts Options, contentType string, body io.Reader) (*Response, error) {
	req, err := a.NewRequest(ctx, method, relativeURL, opts, contentType, body)
	if err != nil {
		return nil, err
	}
	return a.dispatcher.Do(ctx, req)
}

// DoMultipart is Do with a buffered multipart body.
func (a *API) DoMultipart(ctx context.Context, method, relativeURL string, opts Options, form *codec.FormData) (*Response, error) {
	req, err := a.NewMultipartRequest(ctx, method, relativeURL, opts, form)
	if err != nil {
		return nil, err
	}
	return a.dispatcher.Do(ctx, req)
}

// checkStatus applies the status policy.
func (a *API) checkStatus(resp *Response) error {
	if resp.IsError() && a.FailOnStatus() {
		return errors.Status(resp.StatusCode, resp.Body)
	}
	return nil
}

// Close stops config watching, if any.
func (a *API) Close() error {
	return a.StopWatching()
}
