// Package lambda compiles expr-lang expressions into template lambdas.
//
// A lambda definition has the form name=expression. The expression sees its
// input under the name "text" (a section's unrendered body, or the empty
// string for an interpolation tag) along with a set of built-in helpers
// (see [Builtins]) and any variables supplied with [WithVars]. The result
// is converted to text and rendered as a template:
//
//	bold=`"<b>" + text + "</b>"`
//	shout=upper(text)
//	home=env("HOME")
package lambda

import (
	"log/slog"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Predefined errors (sentinel values).
var (
	ErrDefinition = mustache.NewError("invalid lambda definition")
	ErrCompile    = mustache.NewError("failed to compile lambda")
	ErrEvaluate   = mustache.NewError("failed to evaluate lambda")
)

// Lambda is a compiled lambda expression.
type Lambda struct {
	name    string
	source  string
	program *vm.Program
	vars    map[string]any
	logger  log.Logger
}

// Option configures a [Lambda].
type Option func(*Lambda)

// WithVars adds variables to the expression environment.
// Variables shadow built-ins of the same name.
func WithVars(vars map[string]any) Option {
	return func(l *Lambda) {
		if l.vars == nil {
			l.vars = make(map[string]any, len(vars))
		}

		maps.Copy(l.vars, vars)
	}
}

// WithLogger sets the logger reporting evaluation failures.
func WithLogger(logger log.Logger) Option {
	return func(l *Lambda) {
		l.logger = logger
	}
}

// Compile compiles an expression into a named lambda.
func Compile(name, source string, opts ...Option) (*Lambda, error) {
	l := &Lambda{name: name, source: source}

	for _, opt := range opts {
		opt(l)
	}

	program, err := expr.Compile(source, expr.Env(makeEnv(l.vars)))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(
			slog.String("name", name),
			slog.String("source", source),
		)
	}

	l.program = program

	return l, nil
}

// Name returns the name the lambda is bound to.
func (l *Lambda) Name() string { return l.name }

// Source returns the expression text.
func (l *Lambda) Source() string { return l.source }

// Eval runs the expression with text bound to [TextVar].
func (l *Lambda) Eval(text string) (any, error) {
	env := makeEnv(l.vars)
	env[TextVar] = text

	out, err := expr.Run(l.program, env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(
			slog.String("name", l.name),
			slog.String("source", l.source),
		)
	}

	return out, nil
}

// Func adapts l to a function the template engine calls as a lambda.
// Evaluation failures are logged at Warn level and produce empty text.
func (l *Lambda) Func() func(string) any {
	return func(text string) any {
		out, err := l.Eval(text)
		if err != nil {
			l.logger.Warn("lambda failed", slog.Any("error", err))

			return ""
		}

		l.logger.Trace("lambda evaluated",
			slog.String("name", l.name),
			slog.Int("input_length", len(text)),
		)

		return out
	}
}

// Parse splits a definition of the form name=expression.
// The name must be non-empty and contain no whitespace or dots.
func Parse(def string) (name, source string, err error) {
	name, source, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	source = strings.TrimSpace(source)

	if !ok || name == "" || source == "" || strings.ContainsAny(name, " \t.") {
		return "", "", ErrDefinition.With(slog.String("definition", def))
	}

	return name, source, nil
}

// Set holds compiled lambdas by name.
type Set map[string]*Lambda

// CompileAll parses and compiles every definition. A later definition of
// the same name replaces an earlier one.
func CompileAll(defs []string, opts ...Option) (Set, error) {
	set := make(Set, len(defs))

	for _, def := range defs {
		name, source, err := Parse(def)
		if err != nil {
			return nil, err
		}

		l, err := Compile(name, source, opts...)
		if err != nil {
			return nil, err
		}

		set[name] = l
	}

	return set, nil
}

// Data returns the lambdas as context values keyed by name, ready to be
// merged into template data.
func (s Set) Data() map[string]any {
	data := make(map[string]any, len(s))
	for name, l := range s {
		data[name] = l.Func()
	}

	return data
}
