package mustache

import "strings"

var htmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`"`, "&quot;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// Escape replaces the HTML-reserved characters &, ", < and > with their
// entities. It is not idempotent: escaping twice re-escapes the ampersands
// of existing entities.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}
