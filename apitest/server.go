package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RecordedRequest is a request as the server received it.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

// RequestURI returns the path with its query, e.g. "/products/3?soft=true".
func (r RecordedRequest) RequestURI() string {
	if r.RawQuery == "" {
		return r.Path
	}
	return r.Path + "?" + r.RawQuery
}

// Echo is the JSON body returned for requests that match no route.
type Echo struct {
	Method string            `json:"method"`
	Path   string            `json:"path"`
	Query  map[string]string `json:"query"`
	Header map[string]string `json:"header"`
	Body   string            `json:"body"`
}

// Server is a recording test server.
type Server struct {
	engine *gin.Engine
	ts     *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{engine: gin.New()}
	s.engine.Use(s.record)
	s.engine.NoRoute(echo)
	s.ts = httptest.NewServer(s.engine)
	t.Cleanup(s.Close)
	return s
}

// Engine returns the gin engine for custom routes and middleware.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handle registers a route. Register routes before sending requests.
func (s *Server) Handle(method, path string, h gin.HandlerFunc) {
	s.engine.Handle(method, path, h)
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.ts.URL }

// Requests returns a copy of every recorded request, oldest first.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the most recent request.
func (s *Server) Last() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// Close shuts the server down. It is safe to call more than once.
func (s *Server) Close() {
	s.ts.Close()
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	rec := RecordedRequest{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Query:    c.Request.URL.Query(),
		Header:   c.Request.Header.Clone(),
		Body:     body,
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	c.Next()
}

func echo(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	e := Echo{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  make(map[string]string),
		Header: make(map[string]string),
		Body:   string(body),
	}
	for k := range c.Request.URL.Query() {
		e.Query[k] = c.Query(k)
	}
	for k := range c.Request.Header {
		e.Header[k] = c.GetHeader(k)
	}
	c.JSON(http.StatusOK, e)
}
