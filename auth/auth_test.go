package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/retrokit/errors"
	"github.com/kbukum/retrokit/httpapi"
	"github.com/kbukum/retrokit/logger"
	"github.com/kbukum/retrokit/transport"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Now().Truncate(time.Second)}
}

func TestConfig_Validate(t *testing.T) {
	ecKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"hmac", Config{Secret: "s"}, false},
		{"hmac without secret", Config{}, true},
		{"ecdsa", Config{Method: ES256, PrivateKey: ecKey}, false},
		{"rsa with ecdsa key", Config{Method: RS256, PrivateKey: ecKey}, true},
		{"ecdsa without key", Config{Method: ES256}, true},
		{"unknown method", Config{Method: "none", Secret: "s"}, true},
		{"refresh longer than ttl", Config{Secret: "s", TTL: time.Minute, RefreshBefore: time.Hour}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %s", errors.CodeOf(err))
			}
		})
	}
}

func TestJWTSource_SignAndParse(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		cfg  Config
	}{
		{"HS256", Config{Secret: "top-secret"}},
		{"HS512", Config{Secret: "top-secret", Method: HS512}},
		{"ES256", Config{Method: ES256, PrivateKey: ecKey}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Issuer = "orders"
			cfg.Subject = "svc-orders"
			cfg.Audience = []string{"catalog"}
			cfg.Scope = "products:read"

			src, err := NewJWTSource(cfg)
			if err != nil {
				t.Fatal(err)
			}
			tok, err := src.Token(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			claims, err := src.Parse(tok)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if claims.Issuer != "orders" || claims.Subject != "svc-orders" || claims.Scope != "products:read" {
				t.Errorf("claims = %+v", claims)
			}
			if claims.ID == "" || claims.ExpiresAt == nil {
				t.Error("jti and exp should be set")
			}
		})
	}
}

func TestJWTSource_RejectsForeignToken(t *testing.T) {
	a, _ := NewJWTSource(Config{Secret: "a"})
	b, _ := NewJWTSource(Config{Secret: "b"})
	tok, _ := a.Token(context.Background())
	if _, err := b.Parse(tok); err == nil {
		t.Error("token signed with another key should not verify")
	}
}

func TestJWTSource_Caching(t *testing.T) {
	clock := newClock()
	src, err := NewJWTSource(Config{Secret: "s", TTL: time.Minute, RefreshBefore: 10 * time.Second}, WithClock(clock.Now))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first, _ := src.Token(ctx)
	clock.Advance(30 * time.Second)
	if again, _ := src.Token(ctx); again != first {
		t.Error("token should be cached while fresh")
	}

	clock.Advance(25 * time.Second)
	refreshed, _ := src.Token(ctx)
	if refreshed == first {
		t.Error("token should be refreshed inside the refresh window")
	}
	if _, err := src.Parse(refreshed); err != nil {
		t.Errorf("refreshed token invalid: %v", err)
	}

	src.Invalidate()
	if next, _ := src.Token(ctx); next == refreshed {
		t.Error("Invalidate should force a new token")
	}
}

func TestJWTSource_Expired(t *testing.T) {
	clock := newClock()
	src, _ := NewJWTSource(Config{Secret: "s", TTL: time.Minute}, WithClock(clock.Now))
	tok, _ := src.Token(context.Background())
	clock.Advance(2 * time.Minute)
	if _, err := src.Parse(tok); err == nil {
		t.Error("expired token should not verify")
	}
}

func TestJWTSource_CanceledContext(t *testing.T) {
	src, _ := NewJWTSource(Config{Secret: "s"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Token(ctx); !stderrors.Is(err, context.Canceled) {
		t.Errorf("error = %v", err)
	}
}

func TestBearerInterceptor(t *testing.T) {
	src, err := NewJWTSource(Config{Secret: "s", Audience: []string{"catalog"}})
	if err != nil {
		t.Fatal(err)
	}

	var got *http.Request
	api, err := httpapi.New(httpapi.Config{BaseURL: "http://catalog.internal"},
		httpapi.WithLogger(logger.Nop()),
		httpapi.WithTransport(transport.Func(func(_ context.Context, req *http.Request) (*http.Response, error) {
			got = req
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil
		})),
		httpapi.WithInterceptor(BearerInterceptor(src)),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := api.Do(context.Background(), http.MethodGet, "/products", httpapi.Options{}, "", nil); err != nil {
		t.Fatal(err)
	}
	tok, ok := strings.CutPrefix(got.Header.Get("Authorization"), "Bearer ")
	if !ok {
		t.Fatalf("Authorization = %q", got.Header.Get("Authorization"))
	}
	if _, err := src.Parse(tok); err != nil {
		t.Errorf("sent token does not verify: %v", err)
	}
}

func TestBearerInterceptor_SourceError(t *testing.T) {
	failing := TokenSourceFunc(func(context.Context) (string, error) { return "", stderrors.New("vault sealed") })
	req, _ := http.NewRequest(http.MethodGet, "http://localhost", nil)
	if err := BearerInterceptor(failing).Intercept(req); err == nil {
		t.Error("expected source error")
	}

	if err := BearerInterceptor(StaticToken("abc")).Intercept(req); err != nil || req.Header.Get("Authorization") != "Bearer abc" {
		t.Errorf("static token: err=%v header=%q", err, req.Header.Get("Authorization"))
	}
	if err := BearerInterceptor(StaticToken("a\nb")).Intercept(req); !errors.IsHeader(err) {
		t.Errorf("invalid token: error = %v, want HEADER_ERROR", err)
	}
}
