package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/retrokit/errors"
)

type clientConfig struct {
	Name      string            `mapstructure:"name"`
	BaseURL   string            `mapstructure:"base_url"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	Headers   map[string]string `mapstructure:"headers"`
	Transport struct {
		MaxIdleConns int `mapstructure:"max_idle_conns"`
	} `mapstructure:"transport"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleYAML = `
name: products
base_url: http://localhost:3400
timeout: 5s
headers:
  authorization: Bearer MY_TOKEN
transport:
  max_idle_conns: 10
`

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "products.yml", sampleYAML)

	var cfg clientConfig
	if err := LoadConfig("products", &cfg, WithConfigFile(path), WithEnvPrefix("RK_TEST_NONE")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "http://localhost:3400" || cfg.Timeout != 5*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Headers["authorization"] != "Bearer MY_TOKEN" {
		t.Errorf("headers = %v", cfg.Headers)
	}
	if cfg.Transport.MaxIdleConns != 10 {
		t.Errorf("max_idle_conns = %d", cfg.Transport.MaxIdleConns)
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "products.toml", "name = \"products\"\nbase_url = \"http://example.com\"\n")

	var cfg clientConfig
	if err := LoadConfig("products", &cfg, WithConfigFile(path), WithEnvPrefix("RK_TEST_NONE")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "http://example.com" {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "products.yml", sampleYAML)
	t.Setenv("RKTEST_BASE_URL", "http://override:9000")
	t.Setenv("RKTEST_TRANSPORT_MAX_IDLE_CONNS", "42")

	var cfg clientConfig
	if err := LoadConfig("products", &cfg, WithConfigFile(path), WithEnvPrefix("RKTEST_")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "http://override:9000" {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}
	if cfg.Transport.MaxIdleConns != 42 {
		t.Errorf("max_idle_conns = %d", cfg.Transport.MaxIdleConns)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("file value lost: timeout = %v", cfg.Timeout)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "products.yml", sampleYAML)
	envPath := writeFile(t, dir, ".env", "RKENV_TIMEOUT=2s\n")
	t.Cleanup(func() { os.Unsetenv("RKENV_TIMEOUT") })

	var cfg clientConfig
	err := LoadConfig("products", &cfg, WithConfigFile(path), WithEnvFile(envPath), WithEnvPrefix("RKENV"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s from .env", cfg.Timeout)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.yml", "base_url: [unterminated")

	tests := []struct {
		name string
		file string
	}{
		{"missing file", filepath.Join(dir, "absent.yml")},
		{"invalid yaml", broken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg clientConfig
			err := LoadConfig("products", &cfg, WithConfigFile(tt.file))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }
func (f *fakeFS) LoadEnv(string) error { return nil }

func TestResolver_ResolveFiles(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		opts       LoaderConfig
		wantConfig string
		wantEnv    string
	}{
		{"named file wins", []string{"./products.yml", "./retrokit.yml"}, LoaderConfig{}, "./products.yml", ""},
		{"shared fallback", []string{"./config/retrokit.toml"}, LoaderConfig{}, "./config/retrokit.toml", ""},
		{"named env file", []string{"./.env.products", "./.env"}, LoaderConfig{}, "", "./.env.products"},
		{"explicit paths", nil, LoaderConfig{ConfigFile: "/etc/x.yml", EnvFile: "/etc/x.env"}, "/etc/x.yml", "/etc/x.env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeFS{files: map[string]bool{}}
			for _, f := range tt.files {
				fs.files[f] = true
			}
			got := (&Resolver{FileSystem: fs}).ResolveFiles("products", tt.opts)
			if got.ConfigFile != tt.wantConfig || got.EnvFile != tt.wantEnv {
				t.Errorf("got %+v, want config=%q env=%q", got, tt.wantConfig, tt.wantEnv)
			}
		})
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("TRANSPORT_MAX_IDLE_CONNS")
	want := []string{
		"transport_max_idle_conns",
		"transport.max.idle.conns",
		"transport.max_idle_conns",
		"transport.max.idle_conns",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("envKeyVariants = %v, want %v", got, want)
	}
	if got := envKeyVariants("TIMEOUT"); !reflect.DeepEqual(got, []string{"timeout"}) {
		t.Errorf("single key variants = %v", got)
	}
}

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "products.yml", sampleYAML)
	writeFile(t, dir, "other.yml", "x: 1")

	var calls atomic.Int32
	changed := make(chan struct{}, 4)
	w := NewWatcher(path, func() {
		calls.Add(1)
		changed <- struct{}{}
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	writeFile(t, dir, "other.yml", "x: 2")
	for i := 0; i < 3; i++ {
		writeFile(t, dir, "products.yml", sampleYAML+"\n# edit\n")
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected onChange after write")
	}
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("expected one debounced callback, got %d", n)
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w := NewWatcher("/tmp/none.yml", func() {})
	if err := w.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w := NewWatcher("/nonexistent-retrokit-dir/cfg.yml", func() {})
	if err := w.Start(context.Background()); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}
