// Package log provides the logging contract used throughout the
// emulator, along with a logrus backed implementation.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is implemented by anything the emulator can log to.
// *logrus.Logger satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a Logger writing plain text lines to stderr at
// info level.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// NewWithLevel returns a Logger writing to w at the named level
// ("debug", "info", "warn", "error").
func NewWithLevel(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	return l, nil
}
