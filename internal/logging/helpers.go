package logging

import (
	"maps"

	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Nil or empty maps are skipped.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// Ensure returns a usable logger, defaulting to a no-op logger when nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// ErrorChain flattens an error and everything it wraps into a list of
// messages, outermost first.
func ErrorChain(err error) []string {
	var messages []string
	for err != nil {
		messages = append(messages, err.Error())
		next, ok := err.(interface{ Unwrap() error })
		if !ok {
			if multi, ok := err.(interface{ Unwrap() []error }); ok {
				for _, inner := range multi.Unwrap() {
					messages = append(messages, ErrorChain(inner)...)
				}
			}
			break
		}
		err = next.Unwrap()
	}
	return messages
}
