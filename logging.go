package worldmesh

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes through logrus. The prefix becomes the component field.
type DefaultLogger struct {
	log   *logrus.Logger
	entry *logrus.Entry
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return newLogger(os.Stderr, prefix, debug)
}

func newLogger(out io.Writer, prefix string, debug bool) *DefaultLogger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
	l := &DefaultLogger{log: log, entry: logrus.NewEntry(log)}
	if prefix != "" {
		l.entry = l.entry.WithField("component", prefix)
	}
	l.SetDebug(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.log.IsLevelEnabled(logrus.DebugLevel)
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.log.SetLevel(logrus.DebugLevel)
	} else {
		l.log.SetLevel(logrus.InfoLevel)
	}
}

// With returns a logger sharing output and level with an extra component.
func (l *DefaultLogger) With(component string) *DefaultLogger {
	return &DefaultLogger{log: l.log, entry: l.entry.WithField("component", component)}
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

type nopLogger struct{}

func NewNopLogger() Logger                             { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
