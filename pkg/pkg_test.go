package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version != want || Version == "" {
		t.Errorf("Version = %q, want %q", Version, want)
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/usr/local/bin/stache", "stache"},
		{`C:\bin\stache.exe`, "stache"},
		{"/tmp/__debug_bin123", Name},
		{"/home/u/.stache", "stache"},
		{"/home/u/...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			in := filepath.FromSlash(tt.in)
			if strings.Contains(tt.in, `\`) && filepath.Separator != '\\' {
				in = "stache.exe"
			}

			if got := normalizePrefix(in); got != tt.want {
				t.Errorf("normalizePrefix(%q) = %q, want %q", in, got, tt.want)
			}
		})
	}
}

func TestDirs(t *testing.T) {
	if filepath.Base(ConfigDir()) != Prefix() || filepath.Base(CacheDir()) != Prefix() {
		t.Errorf("dirs not suffixed with %q: %q %q", Prefix(), ConfigDir(), CacheDir())
	}

	if got := ConfigPath("config.yaml"); got != filepath.Join(ConfigDir(), "config.yaml") {
		t.Errorf("ConfigPath = %q", got)
	}

	if !strings.HasSuffix(EnvPrefix(), "_") {
		t.Errorf("EnvPrefix = %q", EnvPrefix())
	}
}
