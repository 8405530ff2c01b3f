// Package logger owns the process-wide structured logger. Output is JSON so
// the log pipeline can index fields without parsing message text.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is shared by every package; observers that need the raw logrus
// instance take it from here.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	// LOG_LEVEL accepts any logrus level name; anything unset or
	// unparseable runs at info.
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		l.SetLevel(level)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// WithFields starts an entry carrying the given fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField starts an entry carrying a single field.
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError starts an entry carrying the error field.
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}
