package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/profile"
)

// defaultConfigIndent is the indent width of the generated file.
const defaultConfigIndent = 2

// Init writes a configuration file holding the current value of every flag.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	buf, err := yaml.MarshalContext(ctx,
		map[string]any{ConfigIdentifier: flagValues(ktx)},
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, buf, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// flagValues collects the value of every flag of every command, keyed by
// flag name. Help, version, force and profiling flags are skipped, as are
// empty strings and lists.
func flagValues(ktx *kong.Context) map[string]any {
	values := make(map[string]any)
	ignore := []string{"help", "version", "force", profile.Tag}

	var visit func(*kong.Node)
	visit = func(n *kong.Node) {
		for _, flag := range n.Flags {
			if flag.Hidden || hasAnyPrefix(flag.Name, ignore) {
				continue
			}

			if _, seen := values[flag.Name]; seen {
				continue
			}

			// Flags of commands not on the parsed path hold zero values,
			// so their declared default is written instead.
			if v, ok := configValue(ktx.FlagValue(flag)); ok {
				values[flag.Name] = v
			} else if flag.Default != "" {
				values[flag.Name] = flag.Default
			}
		}

		for _, child := range n.Children {
			visit(child)
		}
	}

	visit(ktx.Model.Node)

	return values
}

// configValue reports whether v is worth writing to the configuration file.
func configValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		if rv.Len() == 0 {
			return nil, false
		}
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return nil, false
	}

	// Named string types (such as the log flags) are written as plain
	// strings.
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}

	return v, true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}
