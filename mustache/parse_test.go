package mustache

import (
	"errors"
	"strings"
	"testing"
)

// dump renders nodes with [Format] for comparison against expected trees.
func dump(t *testing.T, nodes []Node) string {
	t.Helper()

	var b strings.Builder

	err := Format(t.Context(), &b, nodes, 2)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	return b.String()
}

func TestParse_Trees(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "empty",
			src:  "",
			want: "",
		},
		{
			name: "text and variable",
			src:  "Hello {{name}}!",
			want: "Text \"Hello \"\nVariable name\nText \"!\"\n",
		},
		{
			name: "unescaped forms",
			src:  "{{{raw}}}{{& amp }}",
			want: "Variable raw (unescaped)\nVariable amp (unescaped)\n",
		},
		{
			name: "comment continues parsing",
			src:  "a{{! note }}b{{c}}",
			want: "Text \"ab\"\nVariable c\n",
		},
		{
			name: "standalone comment removes line",
			src:  "a\n  {{! c }}\nb",
			want: "Text \"a\\nb\"\n",
		},
		{
			name: "standalone section",
			src:  "{{#list}}\n  item\n{{/list}}\n",
			want: "Section list\n  Text \"  item\\n\"\n",
		},
		{
			name: "inverted section",
			src:  "{{^empty}}none{{/empty}}",
			want: "InvertedSection empty\n  Text \"none\"\n",
		},
		{
			name: "nested sections",
			src:  "{{#a}}{{#b}}{{c}}{{/b}}{{/a}}",
			want: "Section a\n  Section b\n    Variable c\n",
		},
		{
			name: "standalone partial keeps indent",
			src:  "  {{>p}}\n",
			want: "Partial p indent=\"  \"\n",
		},
		{
			name: "inline partial",
			src:  "x {{>p}}",
			want: "Text \"x \"\nPartial p\n",
		},
		{
			name: "variable is never standalone",
			src:  "  {{name}}\n",
			want: "Text \"  \"\nVariable name\nText \"\\n\"\n",
		},
		{
			name: "set delimiters",
			src:  "{{=<% %>=}}<%name%>{{name}}",
			want: "Variable name\nText \"{{name}}\"\n",
		},
		{
			name: "section records delimiters",
			src:  "{{=| |=}}|#a||b||/a|",
			want: "Section a delims=\"| |\"\n  Variable b\n",
		},
		{
			name: "crlf standalone",
			src:  "{{#a}}\r\nx\r\n{{/a}}\r\n",
			want: "Section a\n  Text \"x\\r\\n\"\n",
		},
		{
			name: "trailing whitespace breaks standalone",
			src:  "{{#a}} \nx{{/a}}",
			want: "Section a\n  Text \" \\nx\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithCache(NewCache()))

			nodes, err := e.Parse(t.Context(), tt.src)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if got := dump(t, nodes); got != tt.want {
				t.Errorf("tree mismatch\ngot:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestParse_RawBody(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"inline", "{{#a}}x {{y}} z{{/a}}", "x {{y}} z"},
		{"standalone end drops indent", "{{#a}}\nx\n  {{/a}}\n", "x\n"},
		{"inline end keeps indent", "{{#a}}x  {{/a}}", "x  "},
		{"nested tags kept verbatim", "{{#a}}{{#b}}{{/b}}{{/a}}", "{{#b}}{{/b}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := New(WithCache(NewCache())).Parse(t.Context(), tt.src)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			sec, ok := nodes[0].(*Section)
			if !ok {
				t.Fatalf("expected *Section, got %T", nodes[0])
			}

			if sec.RawBody != tt.want {
				t.Errorf("RawBody = %q, want %q", sec.RawBody, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		wantPos string
	}{
		{"unclosed section", "{{#a}}x", ErrMalformedSection, "1:1"},
		{"unopened section", "x{{/a}}", ErrMalformedSection, "1:2"},
		{"mismatched section", "{{#a}}\n{{/b}}", ErrMalformedSection, "2:1"},
		{"parent tag", "line1\n  {{<x}}", ErrMalformedTag, "2:3"},
		{"block tag", "{{$block}}", ErrMalformedTag, "1:1"},
		{"single delimiter", "{{= x =}}", ErrMalformedTag, "1:1"},
		{"invalid delimiter", "ab{{=a= b=}}", ErrMalformedTag, "1:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := New(WithCache(NewCache())).Parse(t.Context(), tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			if nodes != nil {
				t.Errorf("expected no nodes, got %d", len(nodes))
			}

			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *Error, got %T", err)
			}

			pos, ok := perr.Position()
			if !ok {
				t.Fatal("expected error position")
			}

			if pos.String() != tt.wantPos {
				t.Errorf("position = %s, want %s", pos, tt.wantPos)
			}
		})
	}
}

func TestParse_InvalidDelimiterCause(t *testing.T) {
	_, err := New(WithCache(NewCache())).Parse(t.Context(), "{{=a= b=}}")
	if !errors.Is(err, ErrInvalidDelimiters) {
		t.Errorf("expected wrapped ErrInvalidDelimiters, got %v", err)
	}
}

func TestParseReader(t *testing.T) {
	e := New(WithCache(NewCache()))

	nodes, err := e.ParseReader(t.Context(), strings.NewReader("a{{b}}"))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if got, want := dump(t, nodes), "Text \"a\"\nVariable b\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

type failReader struct{}

func (failReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseReader_Error(t *testing.T) {
	_, err := New(WithCache(NewCache())).ParseReader(t.Context(), failReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}
