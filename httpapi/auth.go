package httpapi

import (
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/kbukum/retrokit/errors"
	"github.com/kbukum/retrokit/interceptor"
)

// SetAuthorization sets the Authorization header to token verbatim.
func SetAuthorization(h http.Header, token string) error {
	if !httpguts.ValidHeaderFieldValue(token) {
		return errors.InvalidHeader("Authorization", fmt.Errorf("invalid field value"))
	}
	h.Set("Authorization", token)
	return nil
}

// SetBearer sets "Authorization: Bearer <token>".
func SetBearer(h http.Header, token string) error {
	return SetAuthorization(h, "Bearer "+token)
}

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey uses API key authentication (header or query parameter).
	AuthAPIKey
	// AuthCustom uses a custom authentication function.
	AuthCustom
)

// AuthConfig configures request authentication applied by AuthInterceptor.
type AuthConfig struct {
	Type     AuthType
	Token    string
	Username string
	Password string
	Key      string
	// In is "header" (default) or "query" for AuthAPIKey.
	In string
	// Name is the header or query parameter name for AuthAPIKey. Defaults to "X-API-Key".
	Name  string
	Apply func(*http.Request) error
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via the X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: "X-API-Key"}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// CustomAuth creates an auth config backed by fn.
func CustomAuth(fn func(*http.Request) error) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

func (a *AuthConfig) apply(req *http.Request) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		return SetBearer(req.Header, a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		if a.In == "query" {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
			return nil
		}
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(a.Key) {
			return errors.InvalidHeader(name, fmt.Errorf("invalid api key header"))
		}
		req.Header.Set(name, a.Key)
	case AuthCustom:
		if a.Apply != nil {
			return a.Apply(req)
		}
	}
	return nil
}

// AuthInterceptor applies auth to every request.
func AuthInterceptor(auth *AuthConfig) interceptor.Interceptor[*http.Request] {
	return interceptor.NewNamedFunc("auth", auth.apply)
}
