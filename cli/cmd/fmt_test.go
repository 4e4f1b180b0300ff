package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/mustache"
)

func TestPrintTreeAST(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "t.mustache",
		"Hi {{name}}!{{#items}}{{{.}}}{{/items}}{{^items}}none{{/items}}")

	var buf bytes.Buffer
	if err := printTree(t.Context(), &buf, path, 2, "ast", mustache.Format); err != nil {
		t.Fatalf("printTree() error = %v", err)
	}

	want := strings.Join([]string{
		`Text "Hi "`,
		`Variable name`,
		`Text "!"`,
		`Section items`,
		`  Variable . (unescaped)`,
		`InvertedSection items`,
		`  Text "none"`,
		``,
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("printTree() =\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintTreeFormats(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "t.mustache", "{{> header}}\n{{title}}")

	tests := []struct {
		name   string
		run    func(*bytes.Buffer) error
		decode func([]byte, any) error
	}{
		{
			name: "json",
			run: func(buf *bytes.Buffer) error {
				return printTree(t.Context(), buf, path, 2, "json", mustache.FormatJSON)
			},
			decode: json.Unmarshal,
		},
		{
			name: "yaml",
			run: func(buf *bytes.Buffer) error {
				return printTree(t.Context(), buf, path, 2, "yaml", mustache.FormatYAML)
			},
			decode: yaml.Unmarshal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := tt.run(&buf); err != nil {
				t.Fatalf("printTree() error = %v", err)
			}

			var nodes []map[string]any
			if err := tt.decode(buf.Bytes(), &nodes); err != nil {
				t.Fatalf("decode output: %v\n%s", err, buf.String())
			}

			if len(nodes) != 2 {
				t.Fatalf("got %d nodes, want 2:\n%s", len(nodes), buf.String())
			}

			if nodes[0]["name"] != "header" || nodes[1]["name"] != "title" {
				t.Errorf("unexpected nodes: %v", nodes)
			}
		})
	}
}

func TestPrintTreeErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.mustache", "{{#open}}never closed")

	var buf bytes.Buffer

	err := printTree(t.Context(), &buf, bad, 2, "ast", mustache.Format)

	var merr *mustache.Error
	if !errors.As(err, &merr) {
		t.Fatalf("printTree(unclosed) error = %v, want *mustache.Error", err)
	}

	if !errors.Is(err, mustache.ErrMalformedSection) {
		t.Errorf("printTree(unclosed) error = %v, want %v", err, mustache.ErrMalformedSection)
	}

	if !slices.ContainsFunc(merr.LogValue().Group(), func(a slog.Attr) bool {
		return a.Key == "format" && a.Value.String() == "ast"
	}) {
		t.Errorf("printTree(unclosed) error %v lacks format attribute", merr.LogValue())
	}

	if buf.Len() != 0 {
		t.Errorf("printTree wrote %q on error", buf.String())
	}

	err = printTree(t.Context(), &buf, dir+"/missing.mustache", 2, "ast", mustache.Format)
	if !errors.Is(err, ErrReadTemplate) {
		t.Errorf("printTree(missing) error = %v, want %v", err, ErrReadTemplate)
	}
}
