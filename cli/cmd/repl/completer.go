package repl

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/stache/mustache"
)

// Tag delimiters recognized by the completer. Set-delimiter tags typed at
// the prompt are not tracked.
const (
	tagOpen  = "{{"
	tagClose = "}}"
)

// ctrlCommands are the available command-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits a name for completion: space,
// braces, tag sigils and the dotted-name separator.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'{', '}',
		'#', '^', '/', '>', '&', '!', '=':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted name leading up to the word starting at
// wordStart. For "{{#user.address.ci" and the word "ci" it is
// "user.address". Top-level words have an empty parent.
func parentPath(input string, wordStart int) string {
	prefix := strings.TrimRight(input[:wordStart], ".")
	if len(prefix) == len(input[:wordStart]) {
		return ""
	}

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// inTag reports whether cursor is inside an open tag that names data: the
// last "{{" before cursor is not yet closed and is not a comment, partial
// or set-delimiter tag.
func inTag(input string, cursor int) bool {
	head := input[:min(cursor, len(input))]

	open := strings.LastIndex(head, tagOpen)
	if open < 0 {
		return false
	}

	body := head[open+len(tagOpen):]
	if strings.Contains(body, tagClose) {
		return false
	}

	body = strings.TrimLeft(body, " \t")
	if body == "" {
		return true
	}

	switch body[0] {
	case '!', '>', '=':
		return false
	}

	return true
}

// asMap returns v as a map when it is a record whose names can be listed.
func asMap(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		return v, true
	case mustache.Map:
		return v, true
	}

	return nil, false
}

// scopeOf walks the dotted parent through nested maps of data. It returns
// nil when a segment is missing or is not a map.
func scopeOf(data map[string]any, parent string) map[string]any {
	scope := data
	if parent == "" {
		return scope
	}

	for seg := range strings.SplitSeq(parent, ".") {
		next, ok := asMap(scope[seg])
		if !ok {
			return nil
		}

		scope = next
	}

	return scope
}

// childCandidates returns the sorted names available under parent.
func childCandidates(data map[string]any, parent string) []string {
	scope := scopeOf(data, parent)
	if scope == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(scope))
}

// computeMatches ranks the candidates for the word at the cursor. In render
// mode, completion is offered only inside an open tag; an empty word after a
// dot lists every child.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	scope map[string]any,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		if !inTag(input, cursor) {
			return nil, nil, wordStart, wordEnd
		}

		parent := parentPath(input, wordStart)
		scope = scopeOf(m.data, parent)
		candidates = childCandidates(m.data, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, scope, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), scope, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, truncated with
// an ellipsis to fit width.
func renderCandidateBar(
	matches fuzzy.Matches,
	scope map[string]any,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, scope[match.Str], tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted and a suffix hinting at the kind of its value.
func renderCandidate(match fuzzy.Match, value any, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	b.WriteString(base.Render(kindSuffix(value)))

	return b.String()
}

func kindSuffix(value any) string {
	switch mustache.ValueOf(value).Kind() {
	case mustache.ValueRecord:
		return "."
	case mustache.ValueList:
		return "[]"
	case mustache.ValueLambda:
		return "()"
	default:
		return ""
	}
}

// preview summarizes value for the list command.
func preview(value any) string {
	const maxPreview = 40

	v := mustache.ValueOf(value)

	switch v.Kind() {
	case mustache.ValueRecord:
		if m, ok := asMap(v.Record()); ok {
			return "{ " + itemCount(len(m)) + " }"
		}

		return "{ record }"
	case mustache.ValueList:
		return "[ " + itemCount(len(v.List())) + " ]"
	case mustache.ValueLambda:
		return "lambda"
	case mustache.ValueAbsent:
		return "<absent>"
	}

	s := v.String()
	if utf8.RuneCountInString(s) > maxPreview {
		s = string([]rune(s)[:maxPreview-3]) + "..."
	}

	return s
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}

	return strconv.Itoa(n) + " items"
}
