package logger

import "log/slog"

type Interface interface {
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type slogLogger struct {
	logger *slog.Logger
}

func NewLogger() Interface {
	return &slogLogger{logger: Get()}
}

func NewLoggerWithSlog(slogLog *slog.Logger) Interface {
	return &slogLogger{logger: slogLog}
}

// NewNop returns a logger that discards everything.
func NewNop() Interface {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}

func (l *slogLogger) With(args ...any) Interface {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) Named(name string) Interface {
	return &slogLogger{logger: l.logger.With("logger", name)}
}

func (l *slogLogger) Debugw(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *slogLogger) Infow(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *slogLogger) Warnw(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *slogLogger) Errorw(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}
