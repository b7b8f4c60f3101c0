package obs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"servicebay/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// NewLogger builds the process logger and installs it as the slog default.
// JSON is used in release mode, text otherwise.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return newLogger(os.Stdout, cfg, gin.Mode() == gin.ReleaseMode)
}

func newLogger(w io.Writer, cfg config.LogConfig, asJSON bool) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().In(loc).Format(cfg.TimeFormat))
			}
			return a
		},
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if asJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(traceHandler{h})
	slog.SetDefault(logger)
	return logger
}

// traceHandler stamps records with the active span so logs and traces join up.
type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}
