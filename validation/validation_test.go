package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/retrokit/errors"
)

type sampleTLS struct {
	CAFile string `yaml:"ca_file" validate:"omitempty"`
}

type sampleConfig struct {
	Name    string            `yaml:"name" validate:"required"`
	BaseURL string            `yaml:"base_url" validate:"omitempty,url"`
	Retries int               `yaml:"retries" validate:"gte=0,lte=10"`
	Headers map[string]string `yaml:"headers" validate:"omitempty,header_names"`
	TLS     sampleTLS         `yaml:"tls"`
}

func TestValidateStruct_Valid(t *testing.T) {
	cfg := sampleConfig{
		Name:    "products",
		BaseURL: "http://localhost:3400",
		Retries: 3,
		Headers: map[string]string{"Authorization": "Bearer MY_TOKEN"},
	}
	if err := ValidateStruct(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		cfg   sampleConfig
		field string
	}{
		{"missing name", sampleConfig{}, "name"},
		{"relative url", sampleConfig{Name: "x", BaseURL: "/api"}, "base_url"},
		{"too many retries", sampleConfig{Name: "x", Retries: 11}, "retries"},
		{"bad header name", sampleConfig{Name: "x", Headers: map[string]string{"X Bad": "v"}}, "headers"},
		{"bad header value", sampleConfig{Name: "x", Headers: map[string]string{"X-Ok": "a\nb"}}, "headers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.cfg)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("expected INVALID_CONFIG, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field+":") {
				t.Errorf("expected field %q in %q", tt.field, err.Error())
			}
		})
	}
}

func TestValidator_Checks(t *testing.T) {
	v := New().
		Required("name", "  ").
		BaseURL("base_url", "ftp://host").
		NonNegative("timeout", -time.Second).
		Check(true, "ok", "never")

	if len(v.Errors()) != 3 {
		t.Fatalf("expected 3 errors, got %v", v.Errors())
	}
	err := v.Validate()
	e, ok := errors.As(err)
	if !ok || e.Code != errors.ErrCodeInvalidConfig {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
	if fields, _ := e.Details["fields"].([]FieldError); len(fields) != 3 {
		t.Errorf("expected 3 detailed fields, got %v", e.Details["fields"])
	}
}

func TestValidator_BaseURL(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"", true},
		{"http://localhost:3400", true},
		{"https://api.example.com/v1/", true},
		{"localhost:3400", false},
		{"/relative", false},
		{"http://", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := New().BaseURL("base_url", tt.value)
			if v.HasErrors() == tt.ok {
				t.Errorf("BaseURL(%q) errors = %v, want ok=%v", tt.value, v.Errors(), tt.ok)
			}
		})
	}
}

func TestValidator_Merge(t *testing.T) {
	v := New().Merge(ValidateStruct(sampleConfig{})).Merge(nil)
	if len(v.Errors()) != 1 || v.Errors()[0].Field != "name" {
		t.Errorf("unexpected merged errors %v", v.Errors())
	}
}
