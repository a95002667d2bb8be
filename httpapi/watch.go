package httpapi

import (
	"context"

	"github.com/kbukum/retrokit/config"
	"github.com/kbukum/retrokit/logger"
)

// LoadConfig loads a Config for the named API with config.LoadConfig.
func LoadConfig(name string, opts ...config.LoaderOption) (Config, error) {
	var cfg Config
	if err := config.LoadConfig(name, &cfg, opts...); err != nil {
		return Config{}, err
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	return cfg, nil
}

// NewFromFile loads path and creates an API from it.
func NewFromFile(name, path string, opts ...Option) (*API, error) {
	cfg, err := LoadConfig(name, config.WithConfigFile(path))
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// WatchConfig reloads path whenever it changes and applies it with
// Reconfigure. A file that fails to load or validate is logged and the
// running configuration is kept. Only one file is watched at a time.
func (a *API) WatchConfig(ctx context.Context, path string, opts ...config.WatcherOption) error {
	reload := func() {
		cfg, err := LoadConfig(a.name, config.WithConfigFile(path), config.WithLogger(a.log))
		if err == nil {
			err = a.Reconfigure(cfg)
		}
		if err != nil {
			a.log.Warn("config reload rejected", logger.Fields(logger.FieldPath, path, logger.FieldError, err.Error()))
		}
	}

	opts = append([]config.WatcherOption{config.WithWatcherLogger(a.log)}, opts...)
	w := config.NewWatcher(path, reload, opts...)

	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.watcher != nil {
		_ = a.watcher.Stop()
		a.watcher = nil
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	a.watcher = w
	return nil
}

// StopWatching stops the config watcher started by WatchConfig.
func (a *API) StopWatching() error {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.watcher == nil {
		return nil
	}
	err := a.watcher.Stop()
	a.watcher = nil
	return err
}
