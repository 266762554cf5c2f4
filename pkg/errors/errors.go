// Package errors provides structured errors for the decoding pipeline.
// Every failure that reaches a caller carries a message, an optional
// cause, and (for positional formats) the byte offset and record index
// at which decoding stopped.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the error type returned by decoders and readers.
//
// Byte is the absolute offset into the decompressed stream at which the
// failing record started, or -1 when unknown. Record is the 1-based
// index of the failing record, or 0 when unknown. Incomplete marks
// errors caused by truncated input rather than malformed content.
type Error struct {
	Msg        string
	Byte       int64
	Record     int64
	Incomplete bool
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	if e.Byte >= 0 && e.Record > 0 {
		return fmt.Sprintf("%s (record %d, byte %d)", msg, e.Record, e.Byte)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns a decode error with no position attached.
func New(msg string) *Error {
	return &Error{Msg: msg, Byte: -1}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), Byte: -1}
}

// Wrap annotates err with a message while keeping it reachable through
// errors.Is and errors.As.
func Wrap(err error, msg string) *Error {
	return &Error{Msg: msg, Byte: -1, Cause: err}
}

// Wrapf is Wrap with fmt.Sprintf formatting of the message.
func Wrapf(err error, format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), Byte: -1, Cause: err}
}

// Premature returns the error for a record that was cut off by end of
// stream while reading the named section.
func Premature(section string) *Error {
	return &Error{
		Msg:        "record ended prematurely in " + section,
		Byte:       -1,
		Incomplete: true,
	}
}

// WithPosition attaches a byte offset and 1-based record index to err if
// it is an *Error that does not already carry a position. Other errors
// (I/O failures from the underlying reader) pass through unchanged.
func WithPosition(err error, byteOffset, record int64) error {
	var e *Error
	if !stderrors.As(err, &e) {
		return err
	}
	if e.Byte >= 0 || e.Record > 0 {
		return err
	}
	e.Byte = byteOffset
	e.Record = record
	return err
}

// IsIncomplete reports whether err was caused by truncated input.
func IsIncomplete(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Incomplete
}
