package transport

import (
	"github.com/kbukum/retrokit/logger"
)

// New builds the transport described by cfg: the net/http binding, wrapped
// in Retrying when cfg.Retry is set.
func New(cfg Config, log *logger.Logger) (Transport, error) {
	cfg.ApplyDefaults()
	h, err := NewHTTP(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Retry == nil {
		return h, nil
	}
	return NewRetrying(h.Client(), *cfg.Retry, log), nil
}

// Default returns a net/http transport with default settings.
func Default() Transport {
	h, err := NewHTTP(Config{})
	if err != nil {
		return NewHTTPFromClient(nil)
	}
	return h
}
