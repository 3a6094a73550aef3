// Package logging builds the logrus loggers used across this module.
package logging

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// Discard returns a logger that drops everything. Packages use it when no
// logger is configured.
func Discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)

	return l
}

// New returns a text logger writing to w at the named level ("debug",
// "info", ...).
func New(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: lvl < logrus.DebugLevel,
		FullTimestamp:    true,
	})

	return l, nil
}

// Leveled adapts a logrus logger to go-retryablehttp's LeveledLogger.
func Leveled(l logrus.FieldLogger) retryablehttp.LeveledLogger {
	return leveled{l}
}

type leveled struct {
	l logrus.FieldLogger
}

var _ retryablehttp.LeveledLogger = leveled{}

func (a leveled) Error(msg string, kv ...interface{}) { a.with(kv).Error(msg) }
func (a leveled) Info(msg string, kv ...interface{})  { a.with(kv).Info(msg) }
func (a leveled) Debug(msg string, kv ...interface{}) { a.with(kv).Debug(msg) }
func (a leveled) Warn(msg string, kv ...interface{})  { a.with(kv).Warn(msg) }

func (a leveled) with(kv []interface{}) logrus.FieldLogger {
	fields := make(logrus.Fields, len(kv)/2)

	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			k = fmt.Sprint(kv[i])
		}

		fields[k] = kv[i+1]
	}

	return a.l.WithFields(fields)
}
