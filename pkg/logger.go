package pkg

import (
	"io"
	"log/slog"
	"strings"
)

// LevelCritical используется для ситуаций, останавливающих процесс.
const LevelCritical = slog.Level(12)

func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}

			if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
				a.Value = slog.StringValue("CRITICAL")
			}

			return a
		},
	})

	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}
