package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/lambda"
	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
	"github.com/ardnew/stache/pkg"
)

// Input holds the flags describing a render's data and partials. It is
// embedded by every command that renders templates.
type Input struct {
	Data     []string `help:"YAML or JSON data file ('-' for stdin); later files override earlier keys" placeholder:"FILE"      short:"d" type:"path"`
	Set      []string `help:"Set a string value; dotted keys create nested records"                      placeholder:"KEY=VALUE"`
	Partials []string `help:"Directory searched for partials, before ${partialsEnv}"                     placeholder:"DIR"       short:"p" type:"path"`
	Ext      string   `help:"File extension of partials"                                                  default:".mustache"`
	Lambda   []string `help:"Lambda defined by an expr-lang expression over 'text'"                       placeholder:"NAME=EXPR" short:"l"`
}

// Vars returns the interpolation variables referenced by command flags.
func Vars() kong.Vars {
	return kong.Vars{"partialsEnv": "$" + PartialsEnv()}
}

// PartialsEnv returns the environment variable holding the default partial
// search path.
func PartialsEnv() string { return pkg.EnvPrefix() + "PARTIALS" }

// Load reads the data files, applies assignments and compiles lambdas.
func (in *Input) Load(ctx context.Context) (map[string]any, error) {
	data, err := loadData(ctx, in.Data)
	if err != nil {
		return nil, err
	}

	for _, kv := range in.Set {
		if err := assign(data, kv); err != nil {
			return nil, err
		}
	}

	if len(in.Lambda) > 0 {
		set, err := lambda.CompileAll(in.Lambda,
			lambda.WithVars(data),
			lambda.WithLogger(log.Default()),
		)
		if err != nil {
			return nil, ErrInvalidLambda.Wrap(err)
		}

		maps.Copy(data, set.Data())
	}

	log.DebugContext(ctx, "data loaded",
		slog.Int("files", len(in.Data)),
		slog.Int("keys", len(data)),
		slog.Int("lambdas", len(in.Lambda)),
	)

	return data, nil
}

// Search returns the partial loader: one [mustache.PartialFS] per existing
// directory of the search path, in priority order.
func (in *Input) Search() mustache.PartialChain {
	dirs := searchPath(in.Partials, os.Getenv(PartialsEnv()))

	chain := make(mustache.PartialChain, 0, len(dirs))
	for _, dir := range dirs {
		chain = append(chain, mustache.PartialFS{FS: os.DirFS(dir), Ext: in.Ext})
	}

	return chain
}

// searchPath prefixes dirs onto the PATH-like list env and keeps the first
// occurrence of each entry naming an existing directory.
func searchPath(dirs []string, env string) []string {
	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	seen := make(map[string]bool)

	var path []string

	for _, dir := range strings.Split(list, string(os.PathListSeparator)) {
		if dir == "" || seen[dir] || !isDir(dir) {
			continue
		}

		seen[dir] = true
		path = append(path, dir)
	}

	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// loadData decodes every document of every file into one record. Keys of
// later documents replace those of earlier ones.
func loadData(ctx context.Context, paths []string) (map[string]any, error) {
	data := make(map[string]any)

	srcs, err := openSources(paths)
	if err != nil {
		return nil, err
	}
	defer closeSources(srcs)

	for _, src := range srcs {
		text, err := mustache.ReadSource(src)
		if err != nil {
			return nil, ErrReadData.Wrap(err).With(slog.String("file", src.name))
		}

		if err := decodeInto(ctx, data, text); err != nil {
			return nil, ErrDecodeData.Wrap(err).With(slog.String("file", src.name))
		}
	}

	return data, nil
}

var errNotMapping = errors.New("document is not a mapping")

// decodeInto merges each YAML (or JSON) document in text into data.
func decodeInto(ctx context.Context, data map[string]any, text string) error {
	dec := yaml.NewDecoder(strings.NewReader(text))

	for {
		var doc any

		err := dec.DecodeContext(ctx, &doc)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		switch doc := doc.(type) {
		case nil:
		case map[string]any:
			maps.Copy(data, doc)
		default:
			return errNotMapping
		}
	}
}

// assign applies one key=value assignment. A dotted key descends into
// nested records, replacing any non-record value on the way.
func assign(data map[string]any, kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	key = strings.TrimSpace(key)

	if !ok || key == "" {
		return ErrInvalidSet.With(slog.String("assignment", kv))
	}

	path := strings.Split(key, ".")
	if slices.Contains(path, "") {
		return ErrInvalidSet.With(slog.String("assignment", kv))
	}

	m := data
	for _, name := range path[:len(path)-1] {
		next, ok := m[name].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[name] = next
		}

		m = next
	}

	m[path[len(path)-1]] = value

	return nil
}
