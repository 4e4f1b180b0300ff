package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	// A bytes.Buffer is not a terminal, so no escape sequences are written.
	logger := Make(&buf, WithLevel(LevelTrace), WithTimeLayout("none"))
	logger.With(slog.String("cmd", "fmt")).Trace("parsed",
		slog.Int("nodes", 3),
		slog.Bool("cached", true),
		slog.Duration("took", 1500*time.Millisecond),
		slog.Group("src", slog.String("name", "a b")),
		slog.Any("error", errors.New("boom")),
	)

	want := "level=TRACE msg=parsed cmd=fmt nodes=3 cached=true took=1.5s src.name=a b error=boom\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelInfo), WithTimeLayout("none"))
	logger.Info("done", slog.Any("value", nil))

	want := "{\n  level: INFO,\n  msg: done,\n  value: null\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrettyTimestamp(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithLevel(LevelInfo), WithTimeLayout("2006")).Info("x")

	if year := time.Now().Format("2006"); !strings.HasPrefix(buf.String(), "time="+year) {
		t.Errorf("expected leading timestamp, got %q", buf.String())
	}
}

func TestPrettyGroups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelInfo), WithTimeLayout("none"))
	logger.Logger = logger.Logger.WithGroup("req")
	logger.Info("ok", slog.String("id", "7"))

	if !strings.Contains(buf.String(), "req.id=7") {
		t.Errorf("expected grouped key, got %q", buf.String())
	}
}
