package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the handler's writer, so color is dropped automatically
// when the writer is not a terminal.
type palette struct {
	key, str, num, dur, tim, null lipgloss.Style
	yes, no                       lipgloss.Style
	msg                           lipgloss.Style
	level                         map[Level]lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		dur:  fg("5"),
		tim:  fg("4"),
		null: fg("8").Italic(true),
		yes:  fg("2"),
		no:   fg("1"),
		msg:  r.NewStyle().Bold(true),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("8"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2"),
			LevelWarn:  fg("3"),
			LevelError: fg("1").Bold(true),
		},
	}
}

func (p palette) levelStyle(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.Level(LevelError):
		return p.level[LevelError]
	case l >= slog.Level(LevelWarn):
		return p.level[LevelWarn]
	case l >= slog.Level(LevelInfo):
		return p.level[LevelInfo]
	case l >= slog.Level(LevelDebug):
		return p.level[LevelDebug]
	default:
		return p.level[LevelTrace]
	}
}

// value renders v, resolved, in the style of its kind.
func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.tim.Render(v.Time().String())
	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return p.no.Render(err.Error())
		}

		return p.str.Render(fmt.Sprint(v.Any()))
	default:
		return p.str.Render(v.String())
	}
}

// field is one flattened attribute: groups are folded into a dotted key.
type field struct {
	key   string
	value slog.Value
}

// flatten appends a to fields with its key qualified by prefix. Group
// values are expanded recursively and empty attributes are dropped.
func flatten(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if a.Value.Kind() != slog.KindGroup {
		return append(fields, field{key: key, value: a.Value})
	}

	for _, ga := range a.Value.Group() {
		fields = flatten(fields, key, ga)
	}

	return fields
}

// prettyBase holds the state shared by the text and JSON pretty handlers.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	style      palette
	mu         *sync.Mutex
	w          io.Writer
	group      string
	fields     []field
}

func makePrettyBase(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyBase {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		style:      makePalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (b prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if b.opts.Level != nil {
		threshold = b.opts.Level.Level()
	}

	return level >= threshold
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	b.fields = slices.Clip(b.fields)
	for _, a := range attrs {
		b.fields = flatten(b.fields, b.group, a)
	}

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name == "" {
		return b
	}

	if b.group != "" {
		name = b.group + "." + name
	}

	b.group = name

	return b
}

// header returns the fixed fields of r: time, level, source and message.
func (b prettyBase) header(r slog.Record) []field {
	var fields []field

	if !r.Time.IsZero() {
		if ts := b.formatTime(r.Time); ts != "" {
			fields = append(fields, field{slog.TimeKey, slog.StringValue(ts)})
		}
	}

	fields = append(fields, field{slog.LevelKey, slog.AnyValue(r.Level)})

	if b.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields, field{
				slog.SourceKey,
				slog.StringValue(fmt.Sprintf("%s:%d", src.File, src.Line)),
			})
		}
	}

	return append(fields, field{slog.MessageKey, slog.StringValue(r.Message)})
}

// body returns the handler's stored attributes followed by those of r.
func (b prettyBase) body(r slog.Record) []field {
	fields := slices.Clone(b.fields)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, b.group, a)

		return true
	})

	return fields
}

// render styles the value of a header or body field.
func (b prettyBase) render(f field) string {
	switch f.key {
	case slog.LevelKey:
		if l, ok := f.value.Any().(slog.Level); ok {
			return b.style.levelStyle(l).Render(strings.ToUpper(Level(l).String()))
		}
	case slog.MessageKey:
		return b.style.msg.Render(f.value.String())
	case slog.TimeKey:
		return b.style.tim.Render(f.value.String())
	}

	return b.style.value(f.value)
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one line per record: key=value pairs with
// unquoted, colored values.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{makePrettyBase(w, opts, formatTime)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for _, f := range slices.Concat(h.header(r), h.body(r)) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(f.key))
		buf.WriteByte('=')
		buf.WriteString(h.render(f))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented object with one
// field per line and colored, unquoted values.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{makePrettyBase(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")

	for i, f := range slices.Concat(h.header(r), h.body(r)) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.style.key.Render(f.key))
		buf.WriteString(": ")
		buf.WriteString(h.render(f))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
