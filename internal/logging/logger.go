// Package logging wraps the structured logger used across bilanci so that
// extraction components depend on a small interface instead of logrus.
package logging

// Logger is the structured logger handed to every component that reports
// progress. Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err.
	WithError(err error) Logger
	// WithField returns a child logger carrying one extra field.
	WithField(key string, value interface{}) Logger
	// WithFields returns a child logger carrying the given fields.
	WithFields(fields ...Field) Logger

	// Fatal logs and exits the process.
	Fatal(msg string, fields ...Field)
	// Fatalf logs a formatted message and exits the process.
	Fatalf(msg string, args ...interface{})
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// OrDefault returns l, or an info-level text logger when l is nil.
func OrDefault(l Logger) Logger {
	if l != nil {
		return l
	}
	return NewLogrusAdapter("info", "text")
}
