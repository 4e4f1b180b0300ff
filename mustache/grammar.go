package mustache

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

// Delims is a pair of tag delimiters.
type Delims struct {
	Open  string
	Close string
}

// DefaultDelims are the delimiters in effect at the start of every parse.
var DefaultDelims = Delims{Open: "{{", Close: "}}"}

// String returns the delimiters separated by a space, as written in a
// set-delimiter tag.
func (d Delims) String() string { return d.Open + " " + d.Close }

// validate reports whether d can be used to build a [Grammar].
// Delimiters must be non-empty and contain neither whitespace nor '='.
func (d Delims) validate() bool {
	invalid := func(s string) bool {
		return s == "" || strings.ContainsFunc(s, func(r rune) bool {
			return r == '=' || unicode.IsSpace(r)
		})
	}

	return !invalid(d.Open) && !invalid(d.Close)
}

// Sigils recognized after an opening delimiter.
const (
	SigilVariable  = ""
	SigilComment   = "!"
	SigilSection   = "#"
	SigilInverted  = "^"
	SigilEnd       = "/"
	SigilPartial   = ">"
	SigilUnescaped = "&"
	SigilTriple    = "{"
	SigilSetDelims = "="
)

// sigilClass matches every sigil the grammar captures. The inheritance
// sigils '<' and '$' are captured only so the parser can reject them.
const sigilClass = `[!#^/>&={<$]`

// Grammar recognizes the next tag in template text for one delimiter pair.
//
// A Grammar belongs to a single parse session. The parser builds a new one
// whenever a set-delimiter tag changes the pair, so concurrent parses never
// share delimiter state.
type Grammar struct {
	delims Delims
	re     *regexp.Regexp
}

// Match describes one tag occurrence found by [Grammar.Next].
type Match struct {
	// Pre is the literal text between the cursor and Indent.
	Pre string
	// Indent is the run of spaces and tabs immediately before the tag.
	Indent string
	// Sigil is the tag type; see the Sigil constants.
	Sigil string
	// Content is the trimmed tag body. For set-delimiter tags it holds the
	// two new delimiters separated by a single space.
	Content string
	// SetDelims is true only for a well-formed set-delimiter tag.
	SetDelims bool
	// IndentStart is the offset where Indent begins.
	IndentStart int
	// Start and End bound the tag, delimiters included.
	Start, End int
}

// NewGrammar builds the tag matcher for delims.
func NewGrammar(delims Delims) (*Grammar, error) {
	if !delims.validate() {
		return nil, ErrInvalidDelimiters.With(
			slog.String("open", delims.Open),
			slog.String("close", delims.Close),
		)
	}

	o := regexp.QuoteMeta(delims.Open)
	c := regexp.QuoteMeta(delims.Close)

	// Alternatives are tried in order:
	//   set-delimiter, triple-brace, generic sigil tag.
	pattern := `^([\s\S]*?)([ \t]*)(?:` +
		o + `=\s*(\S+?)\s+(\S+?)\s*=` + c + `|` +
		o + `\{\s*([\s\S]+?)\s*\}` + c + `|` +
		o + `\s*(` + sigilClass + `?)\s*([\s\S]*?)\s*` + c +
		`)`

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ErrInvalidDelimiters.Wrap(err)
	}

	return &Grammar{delims: delims, re: re}, nil
}

// Delims returns the delimiter pair g recognizes.
func (g *Grammar) Delims() Delims { return g.delims }

// Next finds the first tag at or after offset in src.
func (g *Grammar) Next(src string, offset int) (Match, bool) {
	loc := g.re.FindStringSubmatchIndex(src[offset:])
	if loc == nil {
		return Match{}, false
	}

	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += offset
		}
	}

	group := func(n int) string {
		if loc[2*n] < 0 {
			return ""
		}

		return src[loc[2*n]:loc[2*n+1]]
	}

	m := Match{
		Pre:         group(1),
		Indent:      group(2),
		IndentStart: loc[4],
		Start:       loc[5],
		End:         loc[1],
	}

	switch {
	case loc[6] >= 0:
		m.Sigil = SigilSetDelims
		m.Content = group(3) + " " + group(4)
		m.SetDelims = true

	case loc[10] >= 0:
		m.Sigil = SigilTriple
		m.Content = group(5)

	default:
		m.Sigil = group(6)
		m.Content = group(7)
	}

	return m, true
}
