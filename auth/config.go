package auth

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/retrokit/errors"
)

// SigningMethod names a JWT signing algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
	RS384 SigningMethod = "RS384"
	RS512 SigningMethod = "RS512"
	ES256 SigningMethod = "ES256"
	ES384 SigningMethod = "ES384"
	ES512 SigningMethod = "ES512"
)

const (
	defaultTTL           = 15 * time.Minute
	defaultRefreshBefore = 30 * time.Second
)

// Config configures a JWTSource.
type Config struct {
	// Secret is the HMAC key for HS* methods.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// PrivateKey is an *rsa.PrivateKey or *ecdsa.PrivateKey for RS*/ES* methods.
	PrivateKey any `yaml:"-" mapstructure:"-"`

	// PublicKey verifies tokens in Parse. Derived from PrivateKey when nil.
	PublicKey any `yaml:"-" mapstructure:"-"`

	// Method is the signing algorithm. Defaults to HS256.
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	Issuer   string   `yaml:"issuer" mapstructure:"issuer"`
	Subject  string   `yaml:"subject" mapstructure:"subject"`
	Audience []string `yaml:"audience" mapstructure:"audience"`
	Scope    string   `yaml:"scope" mapstructure:"scope"`

	// TTL is the lifetime of each token. Defaults to 15m.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// RefreshBefore mints a new token once the cached one has less than this
	// left. Defaults to 30s.
	RefreshBefore time.Duration `yaml:"refresh_before" mapstructure:"refresh_before"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = defaultTTL
	}
	if c.RefreshBefore == 0 {
		c.RefreshBefore = defaultRefreshBefore
	}
}

// Validate checks that the key material matches the signing method.
func (c *Config) Validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
		if c.Secret == "" {
			return errors.InvalidConfig("auth: secret is required for HMAC signing methods")
		}
	case RS256, RS384, RS512:
		if _, ok := c.PrivateKey.(*rsa.PrivateKey); !ok {
			return errors.InvalidConfig("auth: private key must be *rsa.PrivateKey for RSA signing methods")
		}
	case ES256, ES384, ES512:
		if _, ok := c.PrivateKey.(*ecdsa.PrivateKey); !ok {
			return errors.InvalidConfig("auth: private key must be *ecdsa.PrivateKey for ECDSA signing methods")
		}
	default:
		return errors.InvalidConfig(fmt.Sprintf("auth: unsupported signing method %q", c.Method))
	}
	if c.TTL <= 0 || c.RefreshBefore < 0 || c.RefreshBefore >= c.TTL {
		return errors.InvalidConfig("auth: ttl must be positive and longer than refresh_before")
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	case RS256:
		return gojwt.SigningMethodRS256
	case RS384:
		return gojwt.SigningMethodRS384
	case RS512:
		return gojwt.SigningMethodRS512
	case ES256:
		return gojwt.SigningMethodES256
	case ES384:
		return gojwt.SigningMethodES384
	case ES512:
		return gojwt.SigningMethodES512
	default:
		return gojwt.SigningMethodHS256
	}
}

func (c *Config) signKey() any {
	switch c.Method {
	case HS256, HS384, HS512:
		return []byte(c.Secret)
	default:
		return c.PrivateKey
	}
}

func (c *Config) verifyKey() any {
	if c.PublicKey != nil {
		return c.PublicKey
	}
	switch k := c.PrivateKey.(type) {
	case *rsa.PrivateKey:
		return &k.PublicKey
	case *ecdsa.PrivateKey:
		return &k.PublicKey
	}
	return []byte(c.Secret)
}
