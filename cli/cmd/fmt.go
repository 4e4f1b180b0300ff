package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Fmt parses a template and prints its node tree.
type Fmt struct {
	AST  AST  `cmd:"" default:"withargs" help:"Print the node tree as an indented outline (default)."`
	JSON JSON `cmd:""                    help:"Print the node tree as JSON."`
	YAML YAML `cmd:""                    help:"Print the node tree as YAML."`
}

// formatter writes a parsed node sequence.
type formatter func(ctx context.Context, w io.Writer, nodes []mustache.Node, indent int) error

// printTree parses the template at source and writes it with format.
func printTree(
	ctx context.Context,
	w io.Writer,
	source string,
	indent int,
	name string,
	format formatter,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := readTemplate(source)
	if err != nil {
		return err
	}

	nodes, err := mustache.New(mustache.WithLogger(log.Default())).Parse(ctx, text)
	if err != nil {
		return mustache.WrapError(err).With(slog.String("format", name))
	}

	return format(ctx, w, nodes, indent)
}

// AST prints the node tree as an indented outline.
type AST struct {
	Indent int `default:"2" help:"Indent width" short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	return printTree(ctx, os.Stdout, a.Source, a.Indent, "ast", mustache.Format)
}

// JSON prints the node tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width; 0 prints one line" short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return printTree(ctx, os.Stdout, j.Source, j.Indent, "json",
		func(ctx context.Context, w io.Writer, nodes []mustache.Node, indent int) error {
			if err := mustache.FormatJSON(ctx, w, nodes, indent); err != nil {
				return ErrJSONMarshal.Wrap(err)
			}

			return nil
		})
}

// YAML prints the node tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width; 0 prints flow style" short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return printTree(ctx, os.Stdout, y.Source, y.Indent, "yaml",
		func(ctx context.Context, w io.Writer, nodes []mustache.Node, indent int) error {
			if err := mustache.FormatYAML(ctx, w, nodes, indent); err != nil {
				return ErrYAMLMarshal.Wrap(err)
			}

			return nil
		})
}
