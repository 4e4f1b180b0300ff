package cmd

import (
	"context"

	"github.com/ardnew/stache/cli/cmd/repl"
	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Repl starts an interactive session rendering template lines.
type Repl struct {
	Input `embed:""`

	MaxDepth int `default:"100" help:"Maximum nesting of partials and lambda results"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := r.Load(ctx)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, repl.Session{
		Engine: mustache.New(
			mustache.WithLogger(log.Default()),
			mustache.WithMaxDepth(r.MaxDepth),
			mustache.WithCache(mustache.NewCache()),
		),
		Data:     data,
		Partials: r.Search(),
		CacheDir: cacheDir,
		Logger:   log.Default(),
	})
}
