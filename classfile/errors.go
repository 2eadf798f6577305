/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind identifies the sum-typed error categories from the decoder's
// error-handling design: I/O, format, constant-pool, attribute, and
// bytecode failures. Lift-time errors live in package ir.
type ErrorKind int

const (
	// I/O
	Truncated ErrorKind = iota
	IoFailure

	// Format
	BadMagic
	UnsupportedVersion
	Malformed

	// Pool
	BadPoolIndex
	WrongTag
	ReservedSlotReferenced

	// Attribute
	AttrTruncated
	BadOffset
	UnknownAnnotationTarget
	MalformedFrame

	// Bytecode
	UnknownOpcode
	BranchOutOfRange
	SwitchMisaligned
)

func (k ErrorKind) String() string {
	switch k {
	case Truncated:
		return "Truncated"
	case IoFailure:
		return "IoFailure"
	case BadMagic:
		return "BadMagic"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case Malformed:
		return "Malformed"
	case BadPoolIndex:
		return "BadPoolIndex"
	case WrongTag:
		return "WrongTag"
	case ReservedSlotReferenced:
		return "ReservedSlotReferenced"
	case AttrTruncated:
		return "AttrTruncated"
	case BadOffset:
		return "BadOffset"
	case UnknownAnnotationTarget:
		return "UnknownAnnotationTarget"
	case MalformedFrame:
		return "MalformedFrame"
	case UnknownOpcode:
		return "UnknownOpcode"
	case BranchOutOfRange:
		return "BranchOutOfRange"
	case SwitchMisaligned:
		return "SwitchMisaligned"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type produced by this package. It carries the
// offset or index at which the failure was detected (when applicable) and,
// for WrongTag, the expected/found tags. Every constructor routes through
// github.com/pkg/errors so the error retains the stack of the detecting
// call site.
type Error struct {
	Kind     ErrorKind
	Offset   int // byte offset or CP index, -1 if not applicable
	Reason   string
	Expected Tag // only meaningful for WrongTag
	Found    Tag
	cause    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case WrongTag:
		return fmt.Sprintf("class format error: WrongTag(expected=%v, found=%v) at %d", e.Expected, e.Found, e.Offset)
	case UnknownOpcode:
		return fmt.Sprintf("class format error: UnknownOpcode(0x%02x) at offset %d", byte(e.Found), e.Offset)
	default:
		if e.Offset >= 0 {
			return fmt.Sprintf("class format error: %s at %d: %s", e.Kind, e.Offset, e.Reason)
		}
		return fmt.Sprintf("class format error: %s: %s", e.Kind, e.Reason)
	}
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(kind ErrorKind, offset int, reason string) error {
	e := &Error{Kind: kind, Offset: offset, Reason: reason}
	return errors.WithStack(e)
}

func wrongTag(offset int, expected, found Tag) error {
	e := &Error{Kind: WrongTag, Offset: offset, Expected: expected, Found: found}
	return errors.WithStack(e)
}

func unknownOpcode(b byte, offset int) error {
	e := &Error{Kind: UnknownOpcode, Offset: offset, Found: Tag(b)}
	return errors.WithStack(e)
}

// AsError unwraps err down to a *classfile.Error, mirroring errors.As.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
