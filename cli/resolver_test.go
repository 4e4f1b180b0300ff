package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want config
	}{
		{
			name: "flat",
			text: "config:\n  log-level: debug\n  max_depth: 50\n  pretty: false\n",
			want: config{"log-level": "debug", "max-depth": "50", "pretty": "false"},
		},
		{
			name: "nested",
			text: "config:\n  log:\n    format: json\n    time_layout: none\n",
			want: config{"log-format": "json", "log-time-layout": "none"},
		},
		{
			name: "list",
			text: "config:\n  partials: [a, b]\n  data: []\n",
			want: config{"partials": "a,b", "data": ""},
		},
		{
			name: "other_keys_ignored",
			text: "other:\n  log-level: error\n",
			want: config{},
		},
		{
			name: "not_mapping",
			text: "config: [1, 2]\n",
			want: config{},
		},
		{
			name: "empty",
			text: "",
			want: config{},
		},
		{
			name: "invalid",
			text: "config: {\n",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := resolve(t.Context(), "config")(strings.NewReader(tt.text))
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}

			got, ok := res.(config)
			if !ok {
				t.Fatalf("resolve() = %T, want config", res)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("resolve() = %v, want %v", got, tt.want)
			}

			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("resolve()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestConfigResolver(t *testing.T) {
	t.Parallel()

	var cli struct {
		LogLevel string   `default:"warn"`
		MaxDepth int      `default:"100"`
		Partials []string `short:"p"`
		Pretty   bool     `default:"true" negatable:""`
	}

	res := config{
		"log-level": "debug",
		"max-depth": "7",
		"partials":  "a,b",
		"pretty":    "false",
	}

	parser, err := kong.New(&cli, kong.Resolvers(res))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--log-level", "error"}); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want command line to override", cli.LogLevel)
	}

	if cli.MaxDepth != 7 || cli.Pretty {
		t.Errorf("MaxDepth = %d, Pretty = %v; want 7, false", cli.MaxDepth, cli.Pretty)
	}

	if len(cli.Partials) != 2 || cli.Partials[1] != "b" {
		t.Errorf("Partials = %v, want [a b]", cli.Partials)
	}
}
