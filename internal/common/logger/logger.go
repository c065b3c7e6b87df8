package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	base     = newBase(os.Stdout)
	hostname = lookupHostname()
)

func lookupHostname() string { h, _ := os.Hostname(); return h }

func newBase(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000000000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel changes the level of every Logger. Unknown levels keep the current one.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// SetOutput redirects every Logger, mostly for tests.
func SetOutput(w io.Writer) { base.SetOutput(w) }

type Logger struct {
	service   string
	requestID string
}

func New(service string) *Logger { return &Logger{service: service} }

// WithRequestID returns a copy of the logger that stamps every entry with id.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{service: l.service, requestID: id}
}

func (l *Logger) entry(action string, fields map[string]any) *logrus.Entry {
	e := base.WithFields(logrus.Fields{
		"service":    l.service,
		"action":     action,
		"hostname":   hostname,
		"request_id": l.requestID,
	})
	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	return e
}

func (l *Logger) Info(action string, fields map[string]any)  { l.entry(action, fields).Info(action) }
func (l *Logger) Debug(action string, fields map[string]any) { l.entry(action, fields).Debug(action) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.entry(action, fields).Warn(action) }

func (l *Logger) Error(action string, err error, fields map[string]any) {
	e := l.entry(action, fields)
	if err != nil {
		e = e.WithField("error", map[string]any{"msg": err.Error(), "type": fmt.Sprintf("%T", err)})
	}
	e.Error(action)
}

