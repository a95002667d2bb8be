package httpapi

import (
	"net/http"
	"time"

	"github.com/kbukum/retrokit/transport"
	"github.com/kbukum/retrokit/validation"
)

// Config configures an API.
type Config struct {
	// Name tags logs and metrics and selects the config file in LoadConfig.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the reference endpoint templates resolve against.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each dispatch. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers" validate:"omitempty,header_names"`

	// BearerToken, when set, adds "Authorization: Bearer <token>" to the default headers.
	BearerToken string `yaml:"bearer_token" mapstructure:"bearer_token"`

	// FailOnStatus makes endpoints return STATUS_ERROR for 4xx/5xx instead of
	// decoding the body.
	FailOnStatus bool `yaml:"fail_on_status" mapstructure:"fail_on_status"`

	Transport transport.Config `yaml:"transport" mapstructure:"transport" validate:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	c.Transport.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.New().
		Merge(validation.ValidateStruct(c)).
		BaseURL("base_url", c.BaseURL).
		Merge(c.Transport.Validate()).
		Validate()
}

// defaultHeader builds the default header set from the config.
func (c *Config) defaultHeader() (http.Header, error) {
	h := make(http.Header, len(c.Headers)+1)
	for k, v := range c.Headers {
		h.Set(k, v)
	}
	if c.BearerToken != "" {
		if err := SetBearer(h, c.BearerToken); err != nil {
			return nil, err
		}
	}
	return h, nil
}
