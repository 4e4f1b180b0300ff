package mustache

import (
	"context"
	"log/slog"
	"strings"
)

// Render parses template and renders it against data.
//
// A non-nil data becomes the sole scope of the context stack. Missing names
// render as empty text and missing partials as empty templates; the only
// failures are parse errors and exceeding the engine's nesting limit. On
// failure the returned text is empty.
func (e *Engine) Render(
	ctx context.Context,
	template string,
	data any,
	partials Partials,
) (string, error) {
	nodes, err := e.Parse(ctx, template)
	if err != nil {
		return "", err
	}

	return e.RenderNodes(ctx, nodes, data, partials)
}

// RenderNodes renders an already parsed node sequence against data.
func (e *Engine) RenderNodes(
	ctx context.Context,
	nodes []Node,
	data any,
	partials Partials,
) (string, error) {
	var stack Stack
	if !isNil(data) {
		stack = stack.Push(data)
	}

	r := &renderer{engine: e, partials: partials}

	var b strings.Builder

	err := r.render(ctx, &b, nodes, stack, 0)
	if err != nil {
		e.logger.DebugContext(ctx, "render failed", slog.Any("error", err))

		return "", err
	}

	return b.String(), nil
}

// renderer walks node sequences for one top-level render call.
type renderer struct {
	engine   *Engine
	partials Partials
}

// render writes nodes to b. depth counts the partials and lambda results
// currently being expanded.
func (r *renderer) render(
	ctx context.Context,
	b *strings.Builder,
	nodes []Node,
	stack Stack,
	depth int,
) error {
	for _, n := range nodes {
		var err error

		switch n := n.(type) {
		case *Text:
			b.WriteString(n.Literal)

		case *Variable:
			err = r.variable(ctx, b, n, stack, depth)

		case *Partial:
			err = r.partial(ctx, b, n, stack, depth)

		case *Section:
			err = r.section(ctx, b, n, stack, depth)

		case *InvertedSection:
			if !Resolve(n.Name, stack).Truthy() {
				err = r.render(ctx, b, n.Body, stack, depth)
			}
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) variable(
	ctx context.Context,
	b *strings.Builder,
	n *Variable,
	stack Stack,
	depth int,
) error {
	v := Resolve(n.Name, stack)

	text := v.String()

	if v.Kind() == ValueLambda {
		var err error

		text, err = r.fragment(ctx, v.Lambda().Call(), DefaultDelims, stack, depth)
		if err != nil {
			return err
		}
	}

	if n.Escaped {
		text = Escape(text)
	}

	b.WriteString(text)

	return nil
}

func (r *renderer) partial(
	ctx context.Context,
	b *strings.Builder,
	n *Partial,
	stack Stack,
	depth int,
) error {
	if r.partials == nil {
		return nil
	}

	src, ok := r.partials.Partial(n.Name)
	if !ok {
		r.engine.logger.TraceContext(ctx, "partial not found",
			slog.String("name", n.Name),
		)

		return nil
	}

	text, err := r.fragment(ctx, src, DefaultDelims, stack, depth)
	if err != nil {
		return err
	}

	b.WriteString(indentLines(text, n.Indent))

	return nil
}

func (r *renderer) section(
	ctx context.Context,
	b *strings.Builder,
	n *Section,
	stack Stack,
	depth int,
) error {
	v := Resolve(n.Name, stack)

	switch v.Kind() {
	case ValueAbsent:
		return nil

	case ValueList:
		for _, elem := range v.List() {
			err := r.render(ctx, b, n.Body, stack.Push(elem), depth)
			if err != nil {
				return err
			}
		}

		return nil

	case ValueLambda:
		text, err := r.fragment(ctx, v.Lambda().Call(n.RawBody), n.Delims, stack, depth)
		if err != nil {
			return err
		}

		b.WriteString(text)

		return nil

	case ValueRecord:
		return r.render(ctx, b, n.Body, stack.Push(v.Raw()), depth)

	default:
		if !v.Truthy() {
			return nil
		}

		return r.render(ctx, b, n.Body, stack, depth)
	}
}

// fragment parses and renders template text produced at render time by a
// partial or a lambda.
func (r *renderer) fragment(
	ctx context.Context,
	src string,
	delims Delims,
	stack Stack,
	depth int,
) (string, error) {
	if src == "" {
		return "", nil
	}

	if depth >= r.engine.maxDepth {
		return "", ErrMaxDepthExceeded.With(
			slog.Int("max_depth", r.engine.maxDepth),
		)
	}

	nodes, err := r.engine.parse(ctx, src, delims)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	err = r.render(ctx, &b, nodes, stack, depth+1)
	if err != nil {
		return "", err
	}

	return b.String(), nil
}

// indentLines prefixes indent to every line of text. The empty remainder
// after a trailing line break is not indented.
func indentLines(text, indent string) string {
	if indent == "" || text == "" {
		return text
	}

	var b strings.Builder

	b.Grow(len(text) + len(indent)*(strings.Count(text, "\n")+1))

	for line := range strings.SplitAfterSeq(text, "\n") {
		if line != "" {
			b.WriteString(indent)
		}

		b.WriteString(line)
	}

	return b.String()
}
