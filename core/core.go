package core

import (
	"github.com/google/uuid"

	"github.com/hupe1980/edumesh/logging"
)

// NewID returns a new random identifier (UUID v4 string).
func NewID() string { return uuid.NewString() }

// runLogger is embedded in RunContext. Every record it writes carries the
// session and run ids: MeshLoggers are cloned via WithSession, other loggers
// get the ids appended as attributes.
type runLogger struct {
	logger logging.Logger
	ids    []any
}

func newRunLogger(l logging.Logger, sessionID, runID string) *runLogger {
	switch v := l.(type) {
	case nil:
		return &runLogger{logger: logging.NoOpLogger{}}
	case *logging.MeshLogger:
		return &runLogger{logger: v.WithSession(sessionID, runID)}
	default:
		return &runLogger{logger: l, ids: []any{"session_id", sessionID, "run_id", runID}}
	}
}

// Logger returns the run scoped logger.
func (l *runLogger) Logger() logging.Logger { return l.logger }

func (l *runLogger) args(args []any) []any {
	if len(l.ids) == 0 {
		return args
	}
	return append(args[:len(args):len(args)], l.ids...)
}

// LogDebug logs at debug level.
func (l *runLogger) LogDebug(msg string, args ...any) { l.logger.Debug(msg, l.args(args)...) }

// LogInfo logs at info level.
func (l *runLogger) LogInfo(msg string, args ...any) { l.logger.Info(msg, l.args(args)...) }

// LogWarn logs at warn level.
func (l *runLogger) LogWarn(msg string, args ...any) { l.logger.Warn(msg, l.args(args)...) }

// LogError logs at error level.
func (l *runLogger) LogError(msg string, args ...any) { l.logger.Error(msg, l.args(args)...) }
