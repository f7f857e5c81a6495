/*

Error kinds and the codec error type.

*/

package bitcodec

import (
	"errors"
	"fmt"
)

// Kind classifies codec errors.
type Kind uint8

const (
	// KindMessage is a violation reported by the value being traversed,
	// e.g. an unknown enum variant or a shape/value mismatch.
	KindMessage Kind = iota + 1
	// KindIO is a failure of the underlying io.Reader or io.Writer.
	KindIO
	// KindUnsupported is a shape this codec does not model
	// (char, string, map, option).
	KindUnsupported
	// KindOutOfRange is a read past the available bits, a length that does
	// not fit its field, or a container too wide for the requested view.
	KindOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindIO:
		return "io"
	case KindUnsupported:
		return "unsupported"
	case KindOutOfRange:
		return "out of range"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Sentinel errors, one per Kind. Any *Error matches the sentinel of its kind
// with errors.Is.
var (
	ErrMessage     = &Error{Kind: KindMessage}
	ErrIO          = &Error{Kind: KindIO}
	ErrUnsupported = &Error{Kind: KindUnsupported}
	ErrOutOfRange  = &Error{Kind: KindOutOfRange}
)

// Error is the error type returned by the codec.
type Error struct {
	Kind Kind
	// Offset is the bit offset the error refers to, -1 if unknown.
	Offset int
	Msg    string
	// Err is the underlying cause, if any.
	Err error
}

func newError(kind Kind, offset int, msg string) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: msg}
}

func wrapIO(offset int, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindIO, Offset: offset, Msg: "i/o failure", Err: err}
}

func (e *Error) Error() string {
	s := "bitcodec: " + e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Offset >= 0 && e.Msg != "" {
		s += fmt.Sprintf(" (bit %d)", e.Offset)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
