package mustache

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"
)

// ReadSource reads all template or data text from r.
func ReadSource(r io.Reader) (string, error) {
	// Wrap reader with async read-ahead so large inputs are fetched
	// while earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return string(data), nil
}

// ParseReader parses a template read from r. See [Engine.Parse].
func (e *Engine) ParseReader(ctx context.Context, r io.Reader) ([]Node, error) {
	text, err := ReadSource(r)
	if err != nil {
		return nil, err
	}

	e.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(text)),
		slog.Bool("read_ahead", true),
	)

	return e.Parse(ctx, text)
}

// Parse compiles text into a node sequence using the default delimiters.
//
// Results are memoized in the engine's [Cache]: parsing the same text again
// returns the same nodes without running the parser.
func (e *Engine) Parse(ctx context.Context, text string) ([]Node, error) {
	return e.parse(ctx, text, DefaultDelims)
}

func (e *Engine) parse(
	ctx context.Context,
	text string,
	delims Delims,
) ([]Node, error) {
	key := makeCacheKey(delims, text, false)

	nodes, hit, err := e.cache.load(
		key,
		func() ([]Node, error) { return e.parseSource(ctx, text, delims) },
	)

	e.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", key.String()),
		slog.Int("source_length", len(text)),
		slog.String("delims", delims.String()),
		slog.Bool("cache_hit", hit),
	)

	return nodes, err
}

// parseSource runs the parser over text. Section bodies found along the way
// are added to the cache only when the whole text parses successfully.
func (e *Engine) parseSource(
	ctx context.Context,
	text string,
	delims Delims,
) ([]Node, error) {
	g, err := NewGrammar(delims)
	if err != nil {
		return nil, err
	}

	p := &parser{src: text, grammar: g}

	nodes, _, _, err := p.parseSeq(0, "", 0)
	if err != nil {
		e.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	for _, b := range p.bodies {
		e.cache.store(b.key, b.nodes)
	}

	e.logger.TraceContext(ctx, "parse complete",
		slog.Int("node_count", len(nodes)),
		slog.Int("section_count", len(p.bodies)),
	)

	return nodes, nil
}

// parser holds the state of one parse session. The source is never
// modified; offsets into it are passed and returned explicitly.
type parser struct {
	src     string
	grammar *Grammar
	bodies  []sectionBody
}

// sectionBody is a parsed section body waiting to be cached.
type sectionBody struct {
	key   cacheKey
	nodes []Node
}

// parseSeq parses src from start. At top level (section == "") it consumes
// the rest of the source. Inside a section it stops after the End tag
// closing section and returns the unparsed body text and the offset just
// past that tag. open is the offset of the section's opening tag.
func (p *parser) parseSeq(
	start int,
	section string,
	open int,
) (nodes []Node, raw string, next int, err error) {
	delims := p.grammar.Delims()
	cursor := start

	for {
		m, ok := p.grammar.Next(p.src, cursor)
		if !ok {
			break
		}

		nodes = appendText(nodes, m.Pre)
		next = m.End

		trim := p.standalone(m) && !isVariable(m.Sigil)
		if trim {
			next = skipNewline(p.src, next)
		} else {
			nodes = appendText(nodes, m.Indent)
		}

		switch m.Sigil {
		case SigilComment:

		case SigilVariable, SigilUnescaped, SigilTriple:
			nodes = append(nodes, &Variable{
				Name:    m.Content,
				Escaped: m.Sigil == SigilVariable,
			})

		case SigilPartial:
			partial := &Partial{Name: m.Content}
			if trim {
				partial.Indent = m.Indent
			}

			nodes = append(nodes, partial)

		case SigilSection, SigilInverted:
			opened := p.grammar.Delims()

			body, bodyRaw, after, err := p.parseSeq(next, m.Content, m.Start)
			if err != nil {
				return nil, "", 0, err
			}

			if m.Sigil == SigilSection {
				nodes = append(nodes, &Section{
					Name:    m.Content,
					RawBody: bodyRaw,
					Body:    body,
					Delims:  opened,
				})
			} else {
				nodes = append(nodes, &InvertedSection{
					Name: m.Content,
					Body: body,
				})
			}

			next = after

		case SigilEnd:
			if section == "" {
				return nil, "", 0, ErrMalformedSection.
					WithPosition(positionOf(p.src, m.Start)).
					With(
						slog.String("issue", "end tag without open section"),
						slog.String("name", m.Content),
					)
			}

			if m.Content != section {
				return nil, "", 0, ErrMalformedSection.
					WithPosition(positionOf(p.src, m.Start)).
					With(
						slog.String("issue", "mismatched end tag"),
						slog.String("expected", section),
						slog.String("name", m.Content),
					)
			}

			end := m.Start
			if trim {
				end = m.IndentStart
			}

			raw = p.src[start:end]
			p.bodies = append(p.bodies, sectionBody{
				key:   makeCacheKey(delims, raw, !p.ownsLines(start, end)),
				nodes: nodes,
			})

			return nodes, raw, next, nil

		case SigilSetDelims:
			err := p.setDelims(m)
			if err != nil {
				return nil, "", 0, err
			}

		default:
			return nil, "", 0, ErrMalformedTag.
				WithPosition(positionOf(p.src, m.Start)).
				With(
					slog.String("sigil", m.Sigil),
					slog.String("tag", p.src[m.Start:m.End]),
				)
		}

		cursor = next
	}

	if section != "" {
		return nil, "", 0, ErrMalformedSection.
			WithPosition(positionOf(p.src, open)).
			With(
				slog.String("issue", "unclosed section"),
				slog.String("name", section),
			)
	}

	return appendText(nodes, p.src[cursor:]), "", len(p.src), nil
}

// setDelims replaces the session grammar with one for the delimiters
// named by a set-delimiter tag.
func (p *parser) setDelims(m Match) error {
	malformed := ErrMalformedTag.
		WithPosition(positionOf(p.src, m.Start)).
		With(
			slog.String("sigil", m.Sigil),
			slog.String("tag", p.src[m.Start:m.End]),
		)

	field := strings.Fields(m.Content)
	if !m.SetDelims || len(field) != 2 {
		return malformed
	}

	g, err := NewGrammar(Delims{Open: field[0], Close: field[1]})
	if err != nil {
		return malformed.Wrap(err)
	}

	p.grammar = g

	return nil
}

// standalone reports whether m is the only content on its line: the
// indent starts a line and the tag is followed by a line break or the end
// of the source.
func (p *parser) standalone(m Match) bool {
	if m.IndentStart > 0 && p.src[m.IndentStart-1] != '\n' {
		return false
	}

	rest := p.src[m.End:]

	return rest == "" || rest[0] == '\n' || strings.HasPrefix(rest, "\r\n")
}

// ownsLines reports whether src[start:end] begins at the start of a line
// and ends after a line break, so no tag in it borders outside text.
func (p *parser) ownsLines(start, end int) bool {
	if start > 0 && p.src[start-1] != '\n' {
		return false
	}

	return start == end || p.src[end-1] == '\n'
}

func isVariable(sigil string) bool {
	switch sigil {
	case SigilVariable, SigilUnescaped, SigilTriple:
		return true

	default:
		return false
	}
}

// skipNewline returns the offset after a line break at offset, if any.
func skipNewline(src string, offset int) int {
	switch {
	case strings.HasPrefix(src[offset:], "\r\n"):
		return offset + 2

	case strings.HasPrefix(src[offset:], "\n"):
		return offset + 1

	default:
		return offset
	}
}

// appendText appends literal text, merging it into a trailing Text node.
func appendText(nodes []Node, text string) []Node {
	if text == "" {
		return nodes
	}

	if n := len(nodes); n > 0 {
		if prev, ok := nodes[n-1].(*Text); ok {
			nodes[n-1] = &Text{Literal: prev.Literal + text}

			return nodes
		}
	}

	return append(nodes, &Text{Literal: text})
}
