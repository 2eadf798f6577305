/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhiTableInternIsIdempotentByKey(t *testing.T) {
	vt := newValueTable()
	pt := newPhiTable(vt)
	b := &Block{Index: 0}

	a := pt.intern(PhiKey{Block: b, Kind: SlotStack, Index: 0}, KindInt)
	again := pt.intern(PhiKey{Block: b, Kind: SlotStack, Index: 0}, KindInt)
	assert.Same(t, a, again)
}

func TestPhiTableInternDistinctKeys(t *testing.T) {
	vt := newValueTable()
	pt := newPhiTable(vt)
	b := &Block{Index: 0}

	stackPhi := pt.intern(PhiKey{Block: b, Kind: SlotStack, Index: 0}, KindInt)
	localPhi := pt.intern(PhiKey{Block: b, Kind: SlotLocal, Index: 0}, KindInt)
	assert.NotSame(t, stackPhi, localPhi)
}

func TestPhiTableInternValueIsMarkedAsPhi(t *testing.T) {
	vt := newValueTable()
	pt := newPhiTable(vt)
	b := &Block{Index: 0}

	node := pt.intern(PhiKey{Block: b, Kind: SlotLocal, Index: 2}, KindRef)
	require.NotNil(t, node.Value)
	require.NotNil(t, node.Value.Phi)
	assert.Same(t, node, node.Value.Phi)
}

func TestPhiTableSetIncoming(t *testing.T) {
	vt := newValueTable()
	pt := newPhiTable(vt)
	b := &Block{Index: 0}
	pred := &Block{Index: 1}

	node := pt.intern(PhiKey{Block: b, Kind: SlotStack, Index: 0}, KindInt)
	incoming := vt.define(5, KindInt)
	node.setIncoming(pred, incoming)

	require.Contains(t, node.Incoming, pred)
	assert.Same(t, incoming, node.Incoming[pred])
}

func TestSlotKindString(t *testing.T) {
	assert.Equal(t, "stack", SlotStack.String())
	assert.Equal(t, "local", SlotLocal.String())
}
