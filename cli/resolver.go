package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
// Flag values are read from the mapping under the top-level key name:
//
//	config:
//	  log-level: debug
//	  log:
//	    pretty: false
//	  partials: [./partials, ./shared]
//	  max_depth: 50
//
// Nested mappings join their keys with "-", so the two log entries above set
// --log-level and --log-pretty. Underscores may stand in for hyphens. Lists
// are joined with commas. Command-line flags override file values.
//
// A file that cannot be decoded, or has no mapping under name, is ignored.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		values, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		return flatten(config{}, "", values), nil
	}
}

// config implements [kong.Resolver] over a flattened set of flag values.
type config map[string]string

// flatten adds each value of m to c under its hyphenated key path.
func flatten(c config, prefix string, m map[string]any) config {
	for key, value := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case nil:
		case map[string]any:
			flatten(c, key, v)
		case []any:
			part := make([]string, len(v))
			for i, elem := range v {
				part[i] = fmt.Sprint(elem)
			}

			c[key] = strings.Join(part, ",")
		default:
			c[key] = fmt.Sprint(v)
		}
	}

	return c
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}
