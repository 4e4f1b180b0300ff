package mustache

import (
	"testing"
	"testing/fstest"
)

func TestPartialFS(t *testing.T) {
	fsys := fstest.MapFS{
		"header.mustache":       {Data: []byte("<h1>{{title}}</h1>")},
		"nested/row.mustache":   {Data: []byte("<tr>")},
		"footer.html":           {Data: []byte("<footer>")},
		"custom/item.tpl":       {Data: []byte("item")},
		"custom/item.tpl.extra": {Data: []byte("wrong")},
	}

	tests := []struct {
		name    string
		ext     string
		partial string
		want    string
		wantOK  bool
	}{
		{"default extension", "", "header", "<h1>{{title}}</h1>", true},
		{"nested path", "", "nested/row", "<tr>", true},
		{"explicit extension", "", "header.mustache", "<h1>{{title}}</h1>", true},
		{"verbatim fallback", "", "footer.html", "<footer>", true},
		{"custom extension", ".tpl", "custom/item", "item", true},
		{"missing", "", "nope", "", false},
		{"invalid path", "", "../etc/passwd", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PartialFS{FS: fsys, Ext: tt.ext}.Partial(tt.partial)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Partial(%q) = %q, %v; want %q, %v",
					tt.partial, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPartialChain(t *testing.T) {
	chain := PartialChain{
		nil,
		PartialMap{"a": "first"},
		PartialMap{"a": "second", "b": "only"},
	}

	if got, _ := chain.Partial("a"); got != "first" {
		t.Errorf("expected first match to win, got %q", got)
	}

	if got, _ := chain.Partial("b"); got != "only" {
		t.Errorf("expected fallthrough, got %q", got)
	}

	if _, ok := chain.Partial("c"); ok {
		t.Error("expected miss")
	}
}
