package mustache

import (
	"errors"
	"sync"
	"testing"
)

func TestCache_ParsesOnce(t *testing.T) {
	cache := NewCache()
	e := New(WithCache(cache))

	first, err := e.Parse(t.Context(), "Hello {{name}}")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	second, err := e.Parse(t.Context(), "Hello {{name}}")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if first[0] != second[0] {
		t.Error("expected identical cached nodes")
	}

	if n := cache.Parses(); n != 1 {
		t.Errorf("expected 1 parse, got %d", n)
	}
}

func TestCache_SectionBodies(t *testing.T) {
	cache := NewCache()
	e := New(WithCache(cache))

	nodes, err := e.Parse(t.Context(), "{{#a}}\nbody {{x}}\n{{/a}}\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if n := cache.Len(); n != 2 {
		t.Errorf("expected 2 cached keys, got %d", n)
	}

	body, err := e.Parse(t.Context(), "body {{x}}\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sec := nodes[0].(*Section) //nolint:forcetypeassert
	if body[0] != sec.Body[0] {
		t.Error("expected section body to be served from cache")
	}

	if n := cache.Parses(); n != 1 {
		t.Errorf("expected 1 parse, got %d", n)
	}
}

func TestCache_DetachedBodies(t *testing.T) {
	partials := PartialMap{"p": "{{! c }}\nB"}
	data := map[string]any{"s": true}

	tests := []struct {
		name     string
		template string
		want     string
		body     string
		bodyWant string
		parses   int
	}{
		{
			name:     "comment after open tag",
			template: "{{#s}}{{! c }}\nB{{/s}}",
			want:     "\nB",
			body:     "{{! c }}\nB",
			bodyWant: "B",
			parses:   2,
		},
		{
			name:     "comment before end tag",
			template: "{{#s}} {{! c }}{{/s}}",
			want:     " ",
			body:     " {{! c }}",
			bodyWant: "",
			parses:   2,
		},
		{
			name:     "partial with body text",
			template: "{{#s}}{{! c }}\nB{{/s}}|{{>p}}",
			want:     "\nB|B",
			body:     "{{! c }}\nB",
			bodyWant: "B",
			parses:   2,
		},
		{
			name:     "standalone section lines",
			template: "{{#s}}\n{{! c }}\nB\n{{/s}}\n",
			want:     "B\n",
			body:     "{{! c }}\nB\n",
			bodyWant: "B\n",
			parses:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache()
			e := New(WithCache(cache))

			got, err := e.Render(t.Context(), tt.template, data, partials)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.template, got, tt.want)
			}

			got, err = e.Render(t.Context(), tt.body, data, partials)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			if got != tt.bodyWant {
				t.Errorf("Render(%q) = %q, want %q", tt.body, got, tt.bodyWant)
			}

			if n := cache.Parses(); n != tt.parses {
				t.Errorf("expected %d parses, got %d", tt.parses, n)
			}
		})
	}
}

func TestCache_KeyIncludesDelims(t *testing.T) {
	cache := NewCache()
	e := New(WithCache(cache))

	_, err := e.parse(t.Context(), "<%a%>", DefaultDelims)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	nodes, err := e.parse(t.Context(), "<%a%>", Delims{Open: "<%", Close: "%>"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if _, ok := nodes[0].(*Variable); !ok {
		t.Errorf("expected *Variable, got %T", nodes[0])
	}

	if n := cache.Parses(); n != 2 {
		t.Errorf("expected 2 parses, got %d", n)
	}
}

func TestCache_FailedParse(t *testing.T) {
	cache := NewCache()
	e := New(WithCache(cache))

	for range 2 {
		_, err := e.Parse(t.Context(), "{{#a}}ok{{/a}}{{#b}}")
		if !errors.Is(err, ErrMalformedSection) {
			t.Fatalf("expected ErrMalformedSection, got %v", err)
		}
	}

	if n := cache.Parses(); n != 1 {
		t.Errorf("expected failure to be cached after 1 parse, got %d", n)
	}

	// Bodies of a failed parse are never committed.
	if n := cache.Len(); n != 1 {
		t.Errorf("expected 1 cached key, got %d", n)
	}
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache()
	e := New(WithCache(cache))

	_, _ = e.Parse(t.Context(), "{{#a}}{{/a}}")
	cache.Clear()

	if n := cache.Len(); n != 0 {
		t.Errorf("expected empty cache, got %d keys", n)
	}
}

func TestCache_ConcurrentRender(t *testing.T) {
	cache := NewCache()
	e := New(WithCache(cache))

	const template = "{{#items}}<{{name}}>{{/items}}"

	data := map[string]any{
		"items": []map[string]any{{"name": "a"}, {"name": "b"}},
	}

	var wg sync.WaitGroup

	results := make([]string, 32)
	errs := make([]error, len(results))

	for i := range results {
		wg.Go(func() {
			results[i], errs[i] = e.Render(t.Context(), template, data, nil)
		})
	}

	wg.Wait()

	for i, got := range results {
		if errs[i] != nil {
			t.Fatalf("render %d failed: %v", i, errs[i])
		}

		if got != "<a><b>" {
			t.Errorf("render %d = %q, want %q", i, got, "<a><b>")
		}
	}

	if n := cache.Parses(); n != 1 {
		t.Errorf("expected 1 parse, got %d", n)
	}
}

func TestCacheKey(t *testing.T) {
	a := makeCacheKey(DefaultDelims, "Hello {{name}}", false)

	if b := makeCacheKey(DefaultDelims, "Hello {{name}}", false); a != b {
		t.Error("expected equal keys for equal text")
	}

	if b := makeCacheKey(DefaultDelims, "Hello {{name}}", true); a == b {
		t.Error("expected detached key to differ")
	}

	if b := makeCacheKey(DefaultDelims, "Hello {{Name}}", false); a == b {
		t.Error("expected different keys for different text")
	}

	if s := a.String(); len(s) != 32 {
		t.Errorf("expected 32 hex digits, got %q", s)
	}
}
