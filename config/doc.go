// Package config loads retrokit configuration and watches it for changes.
//
// LoadConfig uses Viper to read a YAML, JSON or TOML file found in the
// standard locations, loads a .env file with godotenv and overlays
// environment variables carrying the RETROKIT_ prefix:
//
//	var cfg httpapi.Config
//	err := config.LoadConfig("products", &cfg)
//
// RETROKIT_BASE_URL overrides base_url, RETROKIT_TRANSPORT_MAX_IDLE_CONNS
// overrides transport.max_idle_conns.
//
// Watcher reports edits to a single file through fsnotify, debounced so
// that an editor's write-rename sequence triggers one reload.
package config
