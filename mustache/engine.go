package mustache

import (
	"context"

	"github.com/ardnew/stache/log"
)

// DefaultMaxDepth bounds how deeply partials and lambda output may nest
// before rendering fails with [ErrMaxDepthExceeded].
const DefaultMaxDepth = 100

// Engine parses and renders templates.
//
// The zero Engine is not usable; create one with [New].
// An Engine is safe for concurrent use.
type Engine struct {
	cache    *Cache
	logger   log.Logger
	maxDepth int
}

// Option configures an [Engine].
type Option func(*Engine)

// New returns an Engine using [DefaultCache] unless configured otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		cache:    DefaultCache,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithCache sets the cache used to memoize parsed templates.
// A nil cache selects [DefaultCache].
func WithCache(cache *Cache) Option {
	return func(e *Engine) {
		if cache == nil {
			cache = DefaultCache
		}

		e.cache = cache
	}
}

// WithLogger sets the logger for parse and render tracing.
// The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxDepth sets the nesting limit for partials and lambda output.
// Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		e.maxDepth = depth
	}
}

// Cache returns the cache used by e.
func (e *Engine) Cache() *Cache { return e.cache }

// Parse compiles text with an Engine backed by [DefaultCache].
func Parse(ctx context.Context, text string) ([]Node, error) {
	return New().Parse(ctx, text)
}

// Render renders template against data with an Engine configured by opts.
// See [Engine.Render].
func Render(
	ctx context.Context,
	template string,
	data any,
	partials Partials,
	opts ...Option,
) (string, error) {
	return New(opts...).Render(ctx, template, data, partials)
}
