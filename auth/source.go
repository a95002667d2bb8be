package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenSource supplies the credential for a request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token.
type StaticToken string

// Token returns t.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Claims are the claims a JWTSource signs.
type Claims struct {
	gojwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// JWTSource signs tokens and caches the current one. It is safe for
// concurrent use.
type JWTSource struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// SourceOption configures a JWTSource.
type SourceOption func(*JWTSource)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SourceOption {
	return func(s *JWTSource) { s.now = now }
}

// NewJWTSource creates a token source from cfg.
func NewJWTSource(cfg Config, opts ...SourceOption) (*JWTSource, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &JWTSource{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Token returns the cached token, signing a new one when the cached token
// is missing or within RefreshBefore of expiry.
func (s *JWTSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(s.cfg.RefreshBefore).Before(s.expires) {
		return s.token, nil
	}

	tok, exp, err := s.sign(now)
	if err != nil {
		return "", err
	}
	s.token, s.expires = tok, exp
	return tok, nil
}

// Invalidate drops the cached token so the next call signs a fresh one.
func (s *JWTSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expires = time.Time{}
	s.mu.Unlock()
}

func (s *JWTSource) sign(now time.Time) (string, time.Time, error) {
	iat := gojwt.NewNumericDate(now)
	exp := gojwt.NewNumericDate(now.Add(s.cfg.TTL))
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   s.cfg.Subject,
			Audience:  s.cfg.Audience,
			IssuedAt:  iat,
			NotBefore: iat,
			ExpiresAt: exp,
		},
		Scope: s.cfg.Scope,
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString(s.cfg.signKey())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp.Time, nil
}

// Parse verifies a token signed with the source's configuration and
// returns its claims. Issuer and the first audience are checked when set.
func (s *JWTSource) Parse(token string) (*Claims, error) {
	alg := s.cfg.signingMethod().Alg()
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{alg}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}

	claims := &Claims{}
	_, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.cfg.verifyKey(), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	return claims, nil
}
