package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version == "" {
		t.Fatal("version must never be empty")
	}
	if info.Version == "dev" && info.IsRelease {
		t.Error("dev build must not be a release")
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		commit string
		want   string
	}{
		{"", "unknown"},
		{"abc", "abc"},
		{"0123456789abcdef", "0123456"},
	}
	for _, tt := range tests {
		info := &Info{Version: "1.0.0", GitCommit: tt.commit}
		if got := info.ShortCommit(); got != tt.want {
			t.Errorf("ShortCommit(%q) = %q, want %q", tt.commit, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if got := (&Info{Version: "1.0.0"}).String(); got != "1.0.0" {
		t.Errorf("String() = %q", got)
	}
	if got := (&Info{Version: "1.0.0", GitCommit: "0123456789"}).String(); got != "1.0.0 (0123456)" {
		t.Errorf("String() = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "retrokit/") || ua == "retrokit/" {
		t.Errorf("UserAgent() = %q", ua)
	}
}
