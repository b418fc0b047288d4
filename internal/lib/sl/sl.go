// Package sl contains small helpers for the slog logger, mainly for
// building structured attributes in a uniform way.
package sl

import "log/slog"

// Err returns a slog.Attr with the key "error" and the error text as
// value. A nil error logs as "<nil>" instead of panicking, so callers may
// pass an error that is absent on some branches.
//
// Example:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	text := "<nil>"
	if err != nil {
		text = err.Error()
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(text),
	}
}
