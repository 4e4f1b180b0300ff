package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stache/mustache"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok {
		return nil
	}

	return ktx
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// readTemplate reads the template named by path, or standard input when
// path is "-" or empty.
func readTemplate(path string) (string, error) {
	var r io.Reader = os.Stdin

	if path != "" && path != stdinSource {
		f, err := os.Open(path)
		if err != nil {
			return "", ErrReadTemplate.Wrap(err).With(slog.String("template", path))
		}
		defer f.Close()

		r = f
	}

	text, err := mustache.ReadSource(r)
	if err != nil {
		return "", ErrReadTemplate.Wrap(err).With(slog.String("template", path))
	}

	return text, nil
}

// source is one opened input file.
type source struct {
	name string
	io.ReadCloser
}

// fileKey identifies a file by device and inode, so the same file reached
// through a symlink or a different relative path is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each path in order, skipping any file already opened.
// Every "-" refers to standard input, which is read at most once and always
// last. On error, files already opened are closed.
func openSources(paths []string) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(srcs)
			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{}, len(paths))
	stdin := false

	for _, path := range paths {
		if path == stdinSource {
			stdin = true

			continue
		}

		f, err := openUnique(path, seen)
		if err != nil {
			return srcs, ErrReadData.Wrap(err)
		}

		if f != nil {
			srcs = append(srcs, source{name: path, ReadCloser: f})
		}
	}

	if stdin {
		srcs = append(srcs, source{name: stdinSource, ReadCloser: io.NopCloser(os.Stdin)})
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, s := range srcs {
		_ = s.Close()
	}
}

// openUnique opens path unless its device/inode pair is already in seen.
// It returns a nil file for a duplicate.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return nil, nil //nolint:nilnil
		}

		seen[key] = struct{}{}
	}

	return os.Open(resolved)
}

// makeFileKey reads the device and inode of info. It reports false on
// platforms that do not expose them.
func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// writeOutput writes text to the file at path, or to standard output when
// path is "-" or empty.
func writeOutput(path, text string) error {
	if path == "" || path == stdinSource {
		if _, err := io.WriteString(os.Stdout, text); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil { //nolint:gosec
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
