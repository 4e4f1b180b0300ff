package cmd

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Verbose bool   `help:"Verbose output"`
	Note    string `help:"Free-form note"`

	Render Render `cmd:"" help:"Render"`
	Init   Init   `cmd:"" help:"Init"`
}

func parseInit(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	vars := kong.Vars{ConfigIdentifier: confPath}
	maps.Copy(vars, Vars())

	var cli initCLI

	parser, err := kong.New(&cli, vars, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ktx := parseInit(t, confPath, "init", "--note", "hello", "--verbose")
			ctx := WithContext(t.Context(), ktx)

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				content, _ := os.ReadFile(confPath)
				if string(content) != "existing: true\n" {
					t.Errorf("existing file was modified: %q", content)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var doc map[string]map[string]any
			if err := yaml.Unmarshal(content, &doc); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			values, ok := doc[ConfigIdentifier]
			if !ok {
				t.Fatalf("generated config has no %q key:\n%s", ConfigIdentifier, content)
			}

			if values["note"] != "hello" || values["verbose"] != true {
				t.Errorf("global flags not captured: %v", values)
			}

			if values["ext"] != ".mustache" || values["output"] != "-" {
				t.Errorf("render flags not captured: %v", values)
			}

			if values["max-depth"] == nil {
				t.Errorf("default of max-depth not captured: %v", values)
			}

			for _, skipped := range []string{"help", "data", "set", "force"} {
				if _, ok := values[skipped]; ok {
					t.Errorf("flag %q should not be written", skipped)
				}
			}
		})
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	type level string

	tests := []struct {
		name   string
		in     any
		want   any
		wantOK bool
	}{
		{"nil", nil, nil, false},
		{"empty_string", "", nil, false},
		{"empty_slice", []string{}, nil, false},
		{"string", "x", "x", true},
		{"named_string", level("warn"), "warn", true},
		{"bool", false, false, true},
		{"int", 3, 3, true},
		{"slice", []string{"a"}, []string{"a"}, true},
		{"func", func() {}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := configValue(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("configValue(%v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}

			if !ok {
				return
			}

			if s, isSlice := got.([]string); isSlice {
				if len(s) != 1 || s[0] != "a" {
					t.Errorf("configValue(%v) = %v", tt.in, got)
				}

				return
			}

			if got != tt.want {
				t.Errorf("configValue(%v) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}
