// Package slogx holds slog attribute helpers shared by the shoal packages.
package slogx

import (
	"log/slog"
)

const (
	// KeyLoggerName is the attribute key naming the component that logs.
	KeyLoggerName = "logger"

	// KeyError is the attribute key used for errors.
	KeyError = "error"
)

// Error returns an attribute with key "error" holding the error message.
// A nil error is rendered as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// ByteString returns an attribute rendering a byte slice as text, used for
// logging raw message payloads.
func ByteString(key string, value []byte) slog.Attr {
	return slog.String(key, string(value))
}

// LoggerName returns an attribute naming the logging component.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}
