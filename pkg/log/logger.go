package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewZerologLogger(os.Stderr, LevelInfo)
)

// SetupLogger configures the global logger at the given level, writing
// console-formatted records to w, and routes library warnings into it.
func SetupLogger(level string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return errors.NewValidationError("log.level", "must be one of debug, info, warn, error", level)
	}
	logger := NewZerologLogger(w, lvl)
	SetLogger(logger)
	errors.SetZerologWarnFunc(WarnFunc(logger))
	return nil
}

// GetLogger returns the global logger.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetLogger replaces the global logger.
func SetLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// WarnFunc adapts a Logger into the warning sink expected by
// errors.SetZerologWarnFunc.
func WarnFunc(l Logger) func(error) {
	return func(w error) {
		l.Warn(w.Error(), WarningTypeKey, fmt.Sprintf("%T", w), WarningKey, w)
	}
}

// zerologLogger is the production Logger backed by zerolog.
type zerologLogger struct {
	zl    zerolog.Logger
	level Level
}

// NewZerologLogger returns a Logger writing human-readable lines to w.
func NewZerologLogger(w io.Writer, level Level) Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	zl := zerolog.New(cw).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologLogger{zl: zl, level: level}
}

// NewJSONLogger returns a Logger writing one JSON object per record to w.
func NewJSONLogger(w io.Writer, level Level) Logger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologLogger{zl: zl, level: level}
}

func toZerologLevel(l Level) zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	addFields(z.zl.Debug(), fields).Msg(msg)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	addFields(z.zl.Info(), fields).Msg(msg)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	addFields(z.zl.Warn(), fields).Msg(msg)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	ev := z.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if st := errors.StackTrace(err); st != "" {
				ev = ev.Str(StacktraceKey, st)
			}
			fields = fields[1:]
		}
	}
	addFields(ev, fields).Msg(msg)
}

func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(fields[i]), fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger(), level: z.level}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= z.level
}

// addFields appends key-value pairs to the event. Values implementing
// zerolog.LogObjectMarshaler (all typed errors and warnings) are emitted as
// nested objects.
func addFields(ev *zerolog.Event, fields []any) *zerolog.Event {
	if ev == nil {
		return nil
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		case error:
			ev = ev.AnErr(key, v)
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		case int64:
			ev = ev.Int64(key, v)
		case float64:
			ev = ev.Float64(key, v)
		case bool:
			ev = ev.Bool(key, v)
		case time.Duration:
			ev = ev.Dur(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	if len(fields)%2 == 1 {
		ev = ev.Interface("!BADKEY", fields[len(fields)-1])
	}
	return ev
}
