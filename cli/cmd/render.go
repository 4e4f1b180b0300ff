package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Render renders a template against data files and writes the result.
type Render struct {
	Input `embed:""`

	MaxDepth int    `default:"100" help:"Maximum nesting of partials and lambda results"`
	Output   string `default:"-"   help:"Output file or '-' for stdout"                  placeholder:"FILE" short:"o" type:"path"`

	Template string `arg:"" default:"-" help:"Template file or '-' for stdin" name:"template"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := readTemplate(r.Template)
	if err != nil {
		return err
	}

	data, err := r.Load(ctx)
	if err != nil {
		return err
	}

	engine := mustache.New(
		mustache.WithLogger(log.Default()),
		mustache.WithMaxDepth(r.MaxDepth),
	)

	out, err := engine.Render(ctx, text, data, r.Search())
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "rendered",
		slog.String("template", r.Template),
		slog.Int("bytes", len(out)),
		slog.Int("cached", engine.Cache().Len()),
	)

	return writeOutput(r.Output, out)
}
