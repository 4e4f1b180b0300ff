package lambda

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/stache/mustache"
)

func TestParse(t *testing.T) {
	tests := []struct {
		def        string
		wantName   string
		wantSource string
		wantErr    bool
	}{
		{def: "bold=\"<b>\" + text", wantName: "bold", wantSource: "\"<b>\" + text"},
		{def: " up = upper(text) ", wantName: "up", wantSource: "upper(text)"},
		{def: "eq=text == \"a=b\"", wantName: "eq", wantSource: "text == \"a=b\""},
		{def: "noequals", wantErr: true},
		{def: "=text", wantErr: true},
		{def: "empty=", wantErr: true},
		{def: "a.b=text", wantErr: true},
		{def: "a b=text", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			name, source, err := Parse(tt.def)
			if tt.wantErr {
				if !errors.Is(err, ErrDefinition) {
					t.Errorf("expected ErrDefinition, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if name != tt.wantName || source != tt.wantSource {
				t.Errorf("got (%q, %q), want (%q, %q)",
					name, source, tt.wantName, tt.wantSource)
			}
		})
	}
}

func TestLambda_Eval(t *testing.T) {
	tests := []struct {
		name   string
		source string
		vars   map[string]any
		text   string
		want   any
	}{
		{"upper", "upper(text)", nil, "hi", "HI"},
		{"concat", `"<b>" + text + "</b>"`, nil, "x", "<b>x</b>"},
		{"length", "len(text)", nil, "abcd", 4},
		{"vars", `greeting + " " + text`, map[string]any{"greeting": "hey"}, "you", "hey you"},
		{"path builtin", `path.base(text)`, nil, "/a/b.txt", "b.txt"},
		{"split builtin", `len(mung.split(text))`, nil, "a" + string(os.PathListSeparator) + "b", 2},
		{"platform", `platform.OS != ""`, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compile(tt.name, tt.source, WithVars(tt.vars))
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}

			got, err := l.Eval(tt.text)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLambda_MungPrefix(t *testing.T) {
	l, err := Compile("p", `mung.prefix(text, "/first")`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	list := filepath.Join("/usr", "bin")

	got, err := l.Eval(list)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	s, _ := got.(string)
	if !strings.HasPrefix(s, "/first") || !strings.Contains(s, list) {
		t.Errorf("unexpected list %q", s)
	}
}

func TestCompile_Error(t *testing.T) {
	_, err := Compile("bad", "text +")
	if !errors.Is(err, ErrCompile) {
		t.Errorf("expected ErrCompile, got %v", err)
	}

	_, err = Compile("unknown", "nosuchname + text")
	if !errors.Is(err, ErrCompile) {
		t.Errorf("expected ErrCompile for unknown name, got %v", err)
	}
}

func TestLambda_FuncSwallowsErrors(t *testing.T) {
	l, err := Compile("mod", "1 % len(text)")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if _, err := l.Eval(""); !errors.Is(err, ErrEvaluate) {
		t.Errorf("expected ErrEvaluate, got %v", err)
	}

	if got := l.Func()(""); got != "" {
		t.Errorf("expected empty text, got %v", got)
	}
}

func TestSet_Render(t *testing.T) {
	set, err := CompileAll([]string{
		`bold="<b>" + text + "</b>"`,
		`shout=upper(text)`,
		`shout=lower(text)`,
	})
	if err != nil {
		t.Fatalf("CompileAll failed: %v", err)
	}

	data := set.Data()
	data["name"] = "Ann"

	got, err := mustache.Render(t.Context(),
		"{{#bold}}hi {{name}}{{/bold}} {{#shout}}LOUD{{/shout}}", data, nil,
		mustache.WithCache(mustache.NewCache()))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if want := "<b>hi Ann</b> loud"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileAll_Error(t *testing.T) {
	_, err := CompileAll([]string{"ok=text", "broken"})
	if !errors.Is(err, ErrDefinition) {
		t.Errorf("expected ErrDefinition, got %v", err)
	}
}
