package mustache

import (
	"strings"
	"testing"
)

var benchTemplate = strings.Repeat(
	"{{#items}}<li>{{name}} {{{html}}} {{#ok}}yes{{/ok}}{{^ok}}no{{/ok}}</li>\n{{/items}}", 8)

func benchData() map[string]any {
	items := make([]any, 16)
	for i := range items {
		items[i] = map[string]any{"name": "item", "html": "<i>", "ok": i%2 == 0}
	}

	return map[string]any{"items": items}
}

// BenchmarkParse_Uncached measures the parser with a cold cache per run.
func BenchmarkParse_Uncached(b *testing.B) {
	for b.Loop() {
		e := New(WithCache(NewCache()))

		_, err := e.Parse(b.Context(), benchTemplate)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParse_Cached measures cache hits.
func BenchmarkParse_Cached(b *testing.B) {
	e := New(WithCache(NewCache()))

	for b.Loop() {
		_, err := e.Parse(b.Context(), benchTemplate)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRender measures rendering of a cached template.
func BenchmarkRender(b *testing.B) {
	e := New(WithCache(NewCache()))
	data := benchData()

	for b.Loop() {
		_, err := e.Render(b.Context(), benchTemplate, data, nil)
		if err != nil {
			b.Fatal(err)
		}
	}
}
