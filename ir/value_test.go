/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueKindCategory(t *testing.T) {
	assert.Equal(t, 1, KindInt.Category())
	assert.Equal(t, 1, KindRef.Category())
	assert.Equal(t, 2, KindLong.Category())
	assert.Equal(t, 2, KindDouble.Category())
}

func TestValueTableDefineIsIdempotentByOrigin(t *testing.T) {
	vt := newValueTable()
	a := vt.define(10, KindInt)
	b := vt.define(10, KindInt)
	assert.Same(t, a, b, "redefining the same offset must return the same Value")
}

func TestValueTableDefineDistinctOffsets(t *testing.T) {
	vt := newValueTable()
	a := vt.define(10, KindInt)
	b := vt.define(11, KindInt)
	assert.NotSame(t, a, b)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestValueTableParamsAreDisjointFromInstructions(t *testing.T) {
	vt := newValueTable()
	p0 := vt.param(0, KindInt)
	instr := vt.define(0, KindInt) // offset 0 must not collide with param 0
	assert.NotSame(t, p0, instr)
	assert.True(t, p0.IsParam)
	assert.Equal(t, 0, p0.ParamIdx)
}

func TestValueTablePhisAreDisjointFromParamsAndInstructions(t *testing.T) {
	vt := newValueTable()
	p := vt.param(0, KindInt)
	instr := vt.define(5, KindInt)
	phi := vt.newPhi(KindInt)
	assert.NotSame(t, p, phi)
	assert.NotSame(t, instr, phi)
}

func TestValueTableCaughtIsIdempotentPerHandler(t *testing.T) {
	vt := newValueTable()
	a := vt.caught(3)
	b := vt.caught(3)
	other := vt.caught(17)
	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
	assert.True(t, a.IsCaught)
	assert.Equal(t, KindRef, a.Kind)
}

func TestValueTableParamIsIdempotent(t *testing.T) {
	vt := newValueTable()
	a := vt.param(3, KindRef)
	b := vt.param(3, KindRef)
	assert.Same(t, a, b)
}
