package transport

import (
	"time"

	"github.com/kbukum/retrokit/security"
	"github.com/kbukum/retrokit/validation"
)

const (
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
	defaultRetryWaitMin    = time.Second
	defaultRetryWaitMax    = 30 * time.Second
)

// Config configures the net/http binding.
type Config struct {
	// TLS configures client TLS. Nil keeps Go's defaults.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout" validate:"gte=0"`
	DisableKeepAlives   bool          `yaml:"disable_keep_alives" mapstructure:"disable_keep_alives"`

	// ForceHTTP2 configures the transport for HTTP/2 even with a custom TLS config.
	ForceHTTP2 bool `yaml:"force_http2" mapstructure:"force_http2"`

	// Retry wraps the transport in go-retryablehttp. Nil disables retry.
	Retry *RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// RetryConfig configures the retrying binding.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`
	WaitMin    time.Duration `yaml:"wait_min" mapstructure:"wait_min" validate:"gte=0"`
	WaitMax    time.Duration `yaml:"wait_max" mapstructure:"wait_max" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = defaultIdleConnTimeout
	}
	if c.Retry != nil {
		c.Retry.ApplyDefaults()
	}
}

// ApplyDefaults fills in zero-value wait bounds.
func (c *RetryConfig) ApplyDefaults() {
	if c.WaitMin == 0 {
		c.WaitMin = defaultRetryWaitMin
	}
	if c.WaitMax == 0 {
		c.WaitMax = defaultRetryWaitMax
	}
}

// Validate checks field ranges and the TLS settings.
func (c *Config) Validate() error {
	v := validation.New().Merge(validation.ValidateStruct(c))
	if c.TLS != nil {
		v.Merge(c.TLS.Validate())
	}
	if c.Retry != nil {
		v.Check(c.Retry.WaitMax == 0 || c.Retry.WaitMin <= c.Retry.WaitMax, "retry.wait_min", "must not exceed wait_max")
	}
	return v.Validate()
}
