// Package mustache implements a Mustache-style text templating engine.
//
// Template text is compiled into a tree of immutable nodes which is then
// evaluated against hierarchical data. Compiled trees are memoized in a
// [Cache] keyed by a hash of the template text, so rendering the same template
// repeatedly parses it once.
//
// # Tags
//
// With the default delimiters:
//
//	{{name}}          HTML-escaped interpolation
//	{{{name}}}        unescaped interpolation
//	{{&name}}         unescaped interpolation
//	{{#name}}...{{/name}}  section
//	{{^name}}...{{/name}}  inverted section
//	{{>name}}         partial
//	{{!comment}}      comment
//	{{=<% %>=}}       set delimiters
//
// A tag other than an interpolation that is alone on its line, apart from
// surrounding spaces and tabs, is standalone: the line it occupies is
// removed from the output. A standalone partial indents every line it
// renders by the whitespace that preceded it.
//
// # Data
//
// The context is a stack of scopes searched innermost first. Maps with
// string keys, structs and [Record] implementations own named properties;
// other values own none. Dotted names such as user.address.city walk
// nested records. Functions taking no arguments are called during lookup.
// Functions taking one string argument are lambdas: a section lambda
// receives its unrendered body and an interpolation lambda receives the
// empty string, and in both cases the returned text is rendered as a
// template.
//
// # Example
//
//	out, err := mustache.Render(ctx,
//		"Hello, {{#names}}{{.}} {{/names}}!",
//		map[string]any{"names": []string{"a", "b"}},
//		nil,
//	)
//	// out == "Hello, a b !"
//
// # Errors
//
// Missing names and partials render as empty text. Malformed tags and
// unbalanced sections fail with [ErrMalformedTag] and [ErrMalformedSection]
// carrying a source [Position]; runaway partial or lambda recursion fails
// with [ErrMaxDepthExceeded]. A failed render produces no output.
package mustache
