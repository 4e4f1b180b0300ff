package mustache

import (
	"errors"
	"io/fs"
	"path"
)

// Partials supplies the source of named partial templates.
// A name that is not found renders as the empty template.
type Partials interface {
	Partial(name string) (string, bool)
}

// PartialMap is a [Partials] backed by a map of name to template source.
type PartialMap map[string]string

// Partial implements [Partials].
func (m PartialMap) Partial(name string) (string, bool) {
	src, ok := m[name]

	return src, ok
}

// DefaultPartialExt is the file extension [PartialFS] appends by default.
const DefaultPartialExt = ".mustache"

// PartialFS is a [Partials] reading templates from a file system.
// The partial name, with Ext appended, is the slash-separated path of the
// file relative to the root of FS. A name that already ends in Ext is used
// as given.
type PartialFS struct {
	FS  fs.FS
	Ext string
}

// Partial implements [Partials].
func (p PartialFS) Partial(name string) (string, bool) {
	if p.FS == nil || !fs.ValidPath(name) {
		return "", false
	}

	ext := p.Ext
	if ext == "" {
		ext = DefaultPartialExt
	}

	file := name
	if path.Ext(name) != ext {
		file += ext
	}

	data, err := fs.ReadFile(p.FS, file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false
		}

		// Retry verbatim for partial names with a different extension.
		if data, err = fs.ReadFile(p.FS, name); err != nil {
			return "", false
		}
	}

	return string(data), true
}

// PartialChain searches each [Partials] in order and returns the first hit.
type PartialChain []Partials

// Partial implements [Partials].
func (c PartialChain) Partial(name string) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}

		if src, ok := p.Partial(name); ok {
			return src, true
		}
	}

	return "", false
}
