package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"quickpay/internal/shared/config"
)

var (
	Logger      *slog.Logger
	atomicLevel *slog.LevelVar

	defaultSourceLevels = []slog.Level{slog.LevelWarn, slog.LevelError}
	debugSourceLevels   = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
)

// Init builds the process logger. debug enables source locations on every level.
func Init(cfg *config.LoggerConfig, debug bool) error {
	atomicLevel = new(slog.LevelVar)
	atomicLevel.Set(ParseLevel(cfg.Level))

	writer, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}

	sourceLevels := defaultSourceLevels
	if debug {
		sourceLevels = debugSourceLevels
	}

	Logger = slog.New(newHandler(writer, cfg.Format, atomicLevel, sourceLevels))
	slog.SetDefault(Logger)

	return nil
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(path string) (io.Writer, error) {
	switch strings.ToLower(path) {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
}

func newHandler(w io.Writer, format string, level slog.Leveler, sourceLevels []slog.Level) slog.Handler {
	if format == "json" {
		return NewSourceHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), sourceLevels...)
	}

	return NewSourceHandler(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" && a.Value.Kind() == slog.KindAny {
				if err, ok := a.Value.Any().(error); ok {
					return tint.Err(err)
				}
			}
			return a
		},
	}), sourceLevels...)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func SetLevel(level slog.Level) {
	if atomicLevel != nil {
		atomicLevel.Set(level)
	}
}

func Get() *slog.Logger {
	if Logger == nil {
		Logger = slog.New(newHandler(os.Stdout, "console", slog.LevelInfo, defaultSourceLevels))
		slog.SetDefault(Logger)
	}
	return Logger
}
