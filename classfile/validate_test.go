/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildClassWithDanglingNameAndType is buildMinimalClass plus one extra
// NameAndType entry whose name_index points past the end of the pool. No
// field, method, or attribute ever references this entry, so ordinary
// lazy resolution never trips over it — only an eager, whole-pool pass
// like validateConstantPool does.
func buildClassWithDanglingNameAndType(t *testing.T) []byte {
	t.Helper()
	cpb := newCPBuilder()
	thisNameIdx := cpb.utf8("com/example/Bad")
	thisClassIdx := cpb.class(thisNameIdx)
	superNameIdx := cpb.utf8("java/lang/Object")
	superClassIdx := cpb.class(superNameIdx)
	cpb.nameAndType(9999, 9999) // dangling, unreferenced

	var out []byte
	u2 := func(v uint16) { out = append(out, byte(v>>8), byte(v)) }
	u4 := func(v uint32) { out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v)) }

	u4(classMagic)
	u2(0)
	u2(61)
	out = append(out, cpb.build()...)
	u2(0x0021)
	u2(thisClassIdx)
	u2(superClassIdx)
	u2(0) // interfaces
	u2(0) // fields
	u2(0) // methods
	u2(0) // class attributes
	return out
}

func TestParseClassRejectsDanglingConstantPoolReference(t *testing.T) {
	raw := buildClassWithDanglingNameAndType(t)
	_, err := ParseClass(raw)
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BadPoolIndex, lerr.Kind)
}

func TestValidateMethodHandleRefAcceptsMatchingTag(t *testing.T) {
	cp := &ConstantPool{CpIndex: make([]CpEntry, 1, 2)}
	cp.CpIndex = append(cp.CpIndex, CpEntry{Type: TagFieldref, Slot: 0})
	cp.FieldRefs = append(cp.FieldRefs, RefEntry{})

	assert.NoError(t, validateMethodHandleRef(cp, refGetField, 1))
}

func TestValidateMethodHandleRefRejectsMismatchedTag(t *testing.T) {
	cp := &ConstantPool{CpIndex: make([]CpEntry, 1, 2)}
	cp.CpIndex = append(cp.CpIndex, CpEntry{Type: TagMethodref, Slot: 0})
	cp.MethodRefs = append(cp.MethodRefs, RefEntry{})

	err := validateMethodHandleRef(cp, refGetField, 1)
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, WrongTag, lerr.Kind)
}

func TestValidateMethodHandleRefAllowsInterfaceMethodrefForInvokeStatic(t *testing.T) {
	cp := &ConstantPool{CpIndex: make([]CpEntry, 1, 2)}
	cp.CpIndex = append(cp.CpIndex, CpEntry{Type: TagInterfaceMethodref, Slot: 0})
	cp.InterfaceRefs = append(cp.InterfaceRefs, RefEntry{})

	assert.NoError(t, validateMethodHandleRef(cp, refInvokeStatic, 1))
}

func TestParseClassWithMaxCodeSizeRejectsOversizedCode(t *testing.T) {
	raw := buildMinimalClass(t, "com/example/Example")
	_, err := ParseClass(raw, WithMaxCodeSize(1))
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, AttrTruncated, lerr.Kind)
}

func TestParseClassWithMaxCodeSizeDefaultAccepts(t *testing.T) {
	raw := buildMinimalClass(t, "com/example/Example")
	_, err := ParseClass(raw)
	require.NoError(t, err)
}

// buildClassWithLongConstant is buildMinimalClass plus a Long entry in the
// constant pool, whose second (reserved) slot validateConstantPool must skip
// over rather than reject.
func buildClassWithLongConstant(t *testing.T) []byte {
	t.Helper()
	cpb := newCPBuilder()
	thisNameIdx := cpb.utf8("com/example/WithLong")
	thisClassIdx := cpb.class(thisNameIdx)
	superNameIdx := cpb.utf8("java/lang/Object")
	superClassIdx := cpb.class(superNameIdx)
	cpb.longConst(1 << 40)
	cpb.utf8("trailing")

	var out []byte
	u2 := func(v uint16) { out = append(out, byte(v>>8), byte(v)) }
	u4 := func(v uint32) { out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v)) }

	u4(classMagic)
	u2(0)
	u2(61)
	out = append(out, cpb.build()...)
	u2(0x0021)
	u2(thisClassIdx)
	u2(superClassIdx)
	u2(0) // interfaces
	u2(0) // fields
	u2(0) // methods
	u2(0) // class attributes
	return out
}

// TestParseClassAcceptsLongConstantInPool guards against the reserved second
// slot of a Long/Double entry being mistaken, during the whole-pool
// validation pass, for a dangling reference into that slot: every class
// with a long or double literal carries one, and it must not make the class
// fail to parse.
func TestParseClassAcceptsLongConstantInPool(t *testing.T) {
	raw := buildClassWithLongConstant(t)
	class, err := ParseClass(raw)
	require.NoError(t, err)
	assert.Equal(t, "com/example/WithLong", class.ThisClass)
}
