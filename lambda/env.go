package lambda

// This file defines the built-in names visible to every lambda expression.
// The shared environment is built once per process and cloned for each
// lambda, so per-lambda variables never leak between lambdas.

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// TextVar is the name under which a lambda receives its input text: the
// unrendered section body, or the empty string for an interpolation.
const TextVar = "text"

// platform identifies the host operating system and architecture.
type platform struct {
	OS   string
	Arch string
}

//nolint:gochecknoglobals
var builtinEnv = sync.OnceValue(func() map[string]any {
	return map[string]any{
		"platform": platform{OS: runtime.GOOS, Arch: runtime.GOARCH},
		"hostname": hostname(),
		"cwd":      cwd,
		"env":      os.Getenv,

		"file": map[string]any{
			"exists": fileExists,
			"isDir":  fileIsDir,
		},

		"path": map[string]any{
			"abs":  pathAbs,
			"base": filepath.Base,
			"cat":  filepath.Join,
			"dir":  filepath.Dir,
			"ext":  filepath.Ext,
			"rel":  pathRel,
		},

		"mung": map[string]any{
			"prefix":   mungPrefix,
			"prefixif": mungPrefixIf,
			"split":    splitList,
		},
	}
})

// Builtins returns a copy of the environment shared by all lambdas.
func Builtins() map[string]any {
	return maps.Clone(builtinEnv())
}

// makeEnv builds the compile-time environment for one lambda: builtins,
// then vars, then the text variable.
func makeEnv(vars map[string]any) map[string]any {
	env := Builtins()
	maps.Copy(env, vars)
	env[TextVar] = ""

	return env
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}

	return h
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return filepath.Join(from, to)
	}

	return p
}

// mungPrefix prepends items to a PATH-like list, removing duplicates.
func mungPrefix(list string, item ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(item...),
	).String()
}

// mungPrefixIf is [mungPrefix] keeping only the elements that satisfy keep.
func mungPrefixIf(list string, keep func(string) bool, item ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(item...),
		mung.WithFilter(keep),
	).String()
}

// splitList splits a PATH-like list, dropping empty elements.
func splitList(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == os.PathListSeparator
	})
}
