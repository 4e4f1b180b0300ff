package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/stache/log"
)

func plain(opts ...log.Option) log.Logger {
	return log.Make(os.Stdout, append([]log.Option{
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	}, opts...)...)
}

func Example() {
	logger := plain(log.WithLevel(log.LevelInfo))
	logger.Info("template rendered", slog.String("name", "index"), slog.Int("bytes", 42))
	// Output:
	// level=INFO msg="template rendered" name=index bytes=42
}

func Example_levels() {
	logger := plain(log.WithLevel(log.LevelWarn))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("partial not found", slog.String("name", "header"))
	logger.Error("render failed")
	// Output:
	// level=WARN msg="partial not found" name=header
	// level=ERROR msg="render failed"
}

func Example_trace() {
	logger := plain(log.WithLevel(log.LevelTrace))
	logger.TraceContext(context.Background(), "cache lookup", slog.Bool("cache_hit", true))
	// Output:
	// level=TRACE msg="cache lookup" cache_hit=true
}

func Example_json() {
	logger := plain(log.WithFormat(log.FormatJSON), log.WithLevel(log.LevelInfo))
	logger.With(slog.String("cmd", "render")).Info("done")
	// Output:
	// {"level":"INFO","msg":"done","cmd":"render"}
}
