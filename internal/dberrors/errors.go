// Package dberrors defines the error taxonomy shared by the pager, the
// B+ tree mutator, and the statement preparer: a small set of Kinds,
// not Go types, so callers can dispatch on "what went wrong" without
// string-matching messages.
package dberrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure. Fatal reports whether failures of a Kind
// are recoverable by the REPL or fatal to the process.
type Kind int

const (
	Usage Kind = iota
	IOOpen
	IOWrite
	IORead
	IOSeek
	CorruptPageAlignment
	PageIndexOutOfRange
	InternalNodeOverflow
	PrepareSyntax
	PrepareNegativeID
	PrepareStringTooLong
	PrepareUnrecognized
	DuplicateKey
)

func (k Kind) String() string {
	switch k {
	case Usage:
		return "USAGE"
	case IOOpen:
		return "IO_OPEN"
	case IOWrite:
		return "IO_WRITE"
	case IORead:
		return "IO_READ"
	case IOSeek:
		return "IO_SEEK"
	case CorruptPageAlignment:
		return "CORRUPT_PAGE_ALIGNMENT"
	case PageIndexOutOfRange:
		return "PAGE_INDEX_OUT_OF_RANGE"
	case InternalNodeOverflow:
		return "INTERNAL_NODE_OVERFLOW"
	case PrepareSyntax:
		return "PREPARE_SYNTAX"
	case PrepareNegativeID:
		return "PREPARE_NEGATIVE_ID"
	case PrepareStringTooLong:
		return "PREPARE_STRING_TOO_LONG"
	case PrepareUnrecognized:
		return "PREPARE_UNRECOGNIZED"
	case DuplicateKey:
		return "DUPLICATE_KEY"
	default:
		return "UNKNOWN"
	}
}

// Fatal reports whether failures of this Kind are fatal to the process
// (pager I/O, corruption, capacity) as opposed to recoverable by the
// REPL loop (statement-prepare errors, duplicate key).
func (k Kind) Fatal() bool {
	switch k {
	case PrepareSyntax, PrepareNegativeID, PrepareStringTooLong, PrepareUnrecognized, DuplicateKey:
		return false
	default:
		return true
	}
}

// Error is a Kind-tagged, wrapped error.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// New builds an Error of the given Kind from a message.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, err: errors.New(msg)}
}

// Wrap annotates err with a Kind and a message, preserving the original
// cause for errors.Cause/errors.Is unwrapping. A nil err still produces
// a non-nil *Error carrying just msg, so Wrap is safe to use for
// Kind-tagging a condition that has no underlying error value.
func Wrap(k Kind, err error, msg string) *Error {
	if err == nil {
		return New(k, msg)
	}
	return &Error{Kind: k, err: errors.Wrap(err, msg)}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(k Kind, err error, format string, args ...interface{}) *Error {
	if err == nil {
		return New(k, fmt.Sprintf(format, args...))
	}
	return &Error{Kind: k, err: errors.Wrapf(err, format, args...)}
}

// Is reports whether err (or anything it wraps) is a *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	for err != nil {
		if de, ok := err.(*Error); ok {
			e = de
			break
		}
		err = errors.Unwrap(err)
	}
	return e != nil && e.Kind == k
}
