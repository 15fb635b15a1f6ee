package seeder

import (
	"fmt"

	"github.com/Luismorlan/chirp/utils/log"
	"github.com/sirupsen/logrus"
)

const (
	SuccessPrefix = "✅ "
	ErrorPrefix   = "❌ "
)

// Logger is the narration sink of a seeding run. Every line goes through the
// wrapped logrus entry so it carries the process level fields.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger wraps entry, a nil entry falls back to the process logger.
func NewLogger(entry *logrus.Entry) *Logger {
	if entry == nil {
		entry = log.Log
	}
	return &Logger{entry: entry.WithField("component", "seeder")}
}

func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

func (l *Logger) Success(msg string) {
	l.entry.WithField("status", "success").Info(SuccessPrefix + msg)
}

func (l *Logger) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *Logger) Error(msg string) {
	l.entry.Error(ErrorPrefix + msg)
}

func (l *Logger) Progress(current, total int, label string) {
	l.entry.WithField("status", "progress").Info(fmt.Sprintf("📊 Created %d/%d %s", current, total, label))
}
