/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// LiftErrorKind enumerates the ways lifting a method's bytecode into IR can
// fail. These are distinct from classfile.ErrorKind: a class can decode
// perfectly well and still fail to lift (e.g. a stack-depth mismatch
// between two merging predecessors).
type LiftErrorKind int

const (
	EmptyBlock LiftErrorKind = iota
	NoSuchBlock
	StackUnderflow
	StackOverflow
	TypeMismatchAtMerge
	UnreachableHandler
	UnsupportedOpcode
)

func (k LiftErrorKind) String() string {
	switch k {
	case EmptyBlock:
		return "EmptyBlock"
	case NoSuchBlock:
		return "NoSuchBlock"
	case StackUnderflow:
		return "StackUnderflow"
	case StackOverflow:
		return "StackOverflow"
	case TypeMismatchAtMerge:
		return "TypeMismatchAtMerge"
	case UnreachableHandler:
		return "UnreachableHandler"
	case UnsupportedOpcode:
		return "UnsupportedOpcode"
	default:
		return "Unknown"
	}
}

// LiftError is the concrete error type this package returns.
type LiftError struct {
	Kind   LiftErrorKind
	Offset int
	Reason string
}

func (e *LiftError) Error() string {
	return fmt.Sprintf("lift error: %s at offset %d: %s", e.Kind, e.Offset, e.Reason)
}

func newLiftError(kind LiftErrorKind, offset int, reason string) error {
	return errors.WithStack(&LiftError{Kind: kind, Offset: offset, Reason: reason})
}

// AsLiftError unwraps err down to a *LiftError.
func AsLiftError(err error) (*LiftError, bool) {
	var e *LiftError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Divergence records a non-fatal disagreement between the bytecode's
// declared StackMapTable and what this package's abstract interpretation
// independently computed. Lifting does not fail over these; a caller that
// cares about verifier-level strictness can inspect IrMethod.Divergences,
// or promote them to hard errors with WithStrictStackMap.
type Divergence struct {
	BlockOffset int
	Reason      string
}
