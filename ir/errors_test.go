/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiftErrorMessage(t *testing.T) {
	err := newLiftError(StackUnderflow, 17, "popped past empty stack")
	assert.Equal(t, "lift error: StackUnderflow at offset 17: popped past empty stack", err.Error())
}

func TestAsLiftErrorUnwraps(t *testing.T) {
	err := newLiftError(NoSuchBlock, 3, "offset is not a leader")
	le, ok := AsLiftError(err)
	require.True(t, ok)
	assert.Equal(t, NoSuchBlock, le.Kind)
	assert.Equal(t, 3, le.Offset)
}

func TestAsLiftErrorRejectsUnrelatedError(t *testing.T) {
	_, ok := AsLiftError(errors.New("boom"))
	assert.False(t, ok)
}

func TestLiftErrorKindString(t *testing.T) {
	assert.Equal(t, "EmptyBlock", EmptyBlock.String())
	assert.Equal(t, "StackOverflow", StackOverflow.String())
	assert.Equal(t, "TypeMismatchAtMerge", TypeMismatchAtMerge.String())
	assert.Equal(t, "UnreachableHandler", UnreachableHandler.String())
	assert.Equal(t, "Unknown", LiftErrorKind(99).String())
}
