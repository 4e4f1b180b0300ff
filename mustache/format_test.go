package mustache

import (
	"strings"
	"testing"
)

func TestFormatJSON(t *testing.T) {
	nodes, err := New(WithCache(NewCache())).Parse(t.Context(), "a{{b}}{{^c}}{{>d}}{{/c}}")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var b strings.Builder

	err = FormatJSON(t.Context(), &b, nodes, 0)
	if err != nil {
		t.Fatalf("FormatJSON failed: %v", err)
	}

	want := `[{"kind":"Text","literal":"a"},` +
		`{"escaped":true,"kind":"Variable","name":"b"},` +
		`{"body":[{"kind":"Partial","name":"d"}],"kind":"InvertedSection","name":"c"}]` +
		"\n"

	if got := b.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatYAML(t *testing.T) {
	nodes, err := New(WithCache(NewCache())).Parse(t.Context(), "{{#s}}x{{/s}}")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var b strings.Builder

	err = FormatYAML(t.Context(), &b, nodes, 2)
	if err != nil {
		t.Fatalf("FormatYAML failed: %v", err)
	}

	got := b.String()
	for _, want := range []string{"kind: Section", "name: s", "raw_body: x", "literal: x"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestToMap(t *testing.T) {
	m := ToMap(&Partial{Name: "p", Indent: "\t"})

	if m["kind"] != "Partial" || m["name"] != "p" || m["indent"] != "\t" {
		t.Errorf("unexpected map: %v", m)
	}
}
