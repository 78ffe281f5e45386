// Package errs defines the error kinds shared by the ANSYS file readers.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks malformed or unsupported file content.
	ErrFormat = errors.New("invalid file format")
	// ErrNotFound marks a missing result set, node or other keyed item.
	ErrNotFound = errors.New("not found")
)

// FormatError describes where decoding failed and what was expected there.
// Offset is a byte offset into the file, or -1 when unknown.
type FormatError struct {
	Path     string
	Offset   int64
	Expected string
	Found    string
	Msg      string
}

func (e *FormatError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "malformed content"
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at byte %d", msg, e.Offset)
	}
	if e.Expected != "" || e.Found != "" {
		msg = fmt.Sprintf("%s (expected %s, found %s)", msg, orUnknown(e.Expected), orUnknown(e.Found))
	}
	return msg
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Formatf builds a FormatError with no expected/found detail.
func Formatf(path string, offset int64, format string, args ...any) *FormatError {
	return &FormatError{Path: path, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a lookup miss. Available, when positive, is the
// number of items that could have matched (e.g. the result set count).
type NotFoundError struct {
	What      string
	Key       any
	Available int
}

func (e *NotFoundError) Error() string {
	if e.Available > 0 {
		return fmt.Sprintf("%s %v not found (%d available)", e.What, e.Key, e.Available)
	}
	return fmt.Sprintf("%s %v not found", e.What, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
