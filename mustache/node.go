package mustache

// Node is an element of a parsed template.
//
// The concrete types are [*Text], [*Variable], [*Partial], [*Section] and
// [*InvertedSection]. Nodes are immutable once the parser returns them and
// may be shared between templates through the [Cache].
type Node interface {
	Kind() NodeKind
	node()
}

// NodeKind identifies the concrete type of a [Node].
type NodeKind int

const (
	// KindText is literal template text.
	KindText NodeKind = iota

	// KindVariable is an interpolated name.
	KindVariable

	// KindPartial is an inclusion of a named template.
	KindPartial

	// KindSection is a conditionally repeated region.
	KindSection

	// KindInvertedSection is a region rendered only for falsey values.
	KindInvertedSection
)

// String returns a string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindText:
		return "Text"

	case KindVariable:
		return "Variable"

	case KindPartial:
		return "Partial"

	case KindSection:
		return "Section"

	case KindInvertedSection:
		return "InvertedSection"

	default:
		return "Unknown"
	}
}

// Text is literal output.
type Text struct {
	Literal string
}

// Variable interpolates the value of Name, HTML-escaped unless the tag used
// the triple-brace or ampersand form.
type Variable struct {
	Name    string
	Escaped bool
}

// Partial includes the template registered under Name. Indent holds the
// whitespace preceding a standalone partial tag and is prefixed to every
// rendered line.
type Partial struct {
	Name   string
	Indent string
}

// Section renders Body for each element of a list, once for other truthy
// values, or passes RawBody to a lambda. Delims is the delimiter pair in
// effect where the section opened.
type Section struct {
	Name    string
	RawBody string
	Body    []Node
	Delims  Delims
}

// InvertedSection renders Body only when Name is falsey or an empty list.
type InvertedSection struct {
	Name string
	Body []Node
}

func (*Text) Kind() NodeKind            { return KindText }
func (*Variable) Kind() NodeKind        { return KindVariable }
func (*Partial) Kind() NodeKind         { return KindPartial }
func (*Section) Kind() NodeKind         { return KindSection }
func (*InvertedSection) Kind() NodeKind { return KindInvertedSection }

func (*Text) node()            {}
func (*Variable) node()        {}
func (*Partial) node()         {}
func (*Section) node()         {}
func (*InvertedSection) node() {}
