package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/log"
)

const (
	defaultEditor = "vi"
	editIndent    = 2
)

// editDataCommand implements [tea.ExecCommand] for the edit-decode-retry
// loop. It writes the data as YAML to a temp file, opens the user's editor
// and decodes the result. On a decode error the user is asked to re-edit;
// declining exits the program.
//
// Functions (lambdas) cannot be written as YAML. They are held back and
// restored under their names unless the edited document replaces them.
type editDataCommand struct {
	data    map[string]any
	newData map[string]any
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editDataCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editDataCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editDataCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. A cleared file leaves newData nil.
func (c *editDataCommand) Run() error {
	ctx := c.ctxFunc()

	plain, funcs := splitFuncs(c.data)

	content, err := yaml.MarshalContext(ctx, plain, yaml.Indent(editIndent))
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), "stache-repl-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		edited, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(edited)) == "" {
			return nil
		}

		data, decodeErr := decodeData(ctx, edited)
		c.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("content_length", len(edited)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			for name, fn := range funcs {
				if _, ok := data[name]; !ok {
					data[name] = fn
				}
			}

			c.newData = data

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = edited
	}
}

// decodeData decodes a YAML mapping. An empty document is an empty map.
func decodeData(ctx context.Context, text []byte) (map[string]any, error) {
	var doc any
	if err := yaml.UnmarshalContext(ctx, text, &doc); err != nil {
		return nil, err
	}

	switch doc := doc.(type) {
	case nil:
		return make(map[string]any), nil
	case map[string]any:
		return doc, nil
	default:
		return nil, ErrNotMapping
	}
}

// splitFuncs separates the top-level function values of data from the rest.
func splitFuncs(data map[string]any) (plain, funcs map[string]any) {
	plain = maps.Clone(data)
	if plain == nil {
		plain = make(map[string]any)
	}

	funcs = make(map[string]any)

	for name, v := range data {
		if t := reflect.TypeOf(v); t != nil && t.Kind() == reflect.Func {
			funcs[name] = v
			delete(plain, name)
		}
	}

	return plain, funcs
}

// runEditor runs $EDITOR (or vi) on the file at path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
