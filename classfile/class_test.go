/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMinimalClass assembles the bytes for a class with no fields, one
// static method ("compute", "()I") whose body is iconst_1; iconst_2; iadd;
// ireturn, and no superinterfaces. Used to exercise ParseClass end-to-end
// without needing a real compiler.
func buildMinimalClass(t *testing.T, thisName string) []byte {
	t.Helper()
	cpb := newCPBuilder()
	thisNameIdx := cpb.utf8(thisName)
	thisClassIdx := cpb.class(thisNameIdx)
	superNameIdx := cpb.utf8("java/lang/Object")
	superClassIdx := cpb.class(superNameIdx)
	methodNameIdx := cpb.utf8("compute")
	methodDescIdx := cpb.utf8("()I")
	codeAttrNameIdx := cpb.utf8("Code")

	var out []byte
	u2 := func(v uint16) { out = append(out, byte(v>>8), byte(v)) }
	u4 := func(v uint32) { out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v)) }

	u4(classMagic)
	u2(0)  // minor
	u2(61) // major, a known version

	out = append(out, cpb.build()...)

	u2(0x0021) // access_flags: ACC_PUBLIC | ACC_SUPER
	u2(thisClassIdx)
	u2(superClassIdx)
	u2(0) // interfaces_count
	u2(0) // fields_count

	u2(1) // methods_count
	u2(0x0009) // ACC_PUBLIC | ACC_STATIC
	u2(methodNameIdx)
	u2(methodDescIdx)
	u2(1) // method attributes_count

	code := []byte{byte(Iconst1), byte(Iconst2), byte(Iadd), byte(Ireturn)}
	var codeBody []byte
	cu2 := func(v uint16) { codeBody = append(codeBody, byte(v>>8), byte(v)) }
	cu4 := func(v uint32) { codeBody = append(codeBody, byte(v>>24), byte(v>>16), byte(v>>8), byte(v)) }
	cu2(4) // max_stack
	cu2(0) // max_locals
	cu4(uint32(len(code)))
	codeBody = append(codeBody, code...)
	cu2(0) // exception_table_length
	cu2(0) // attributes_count

	u2(codeAttrNameIdx)
	u4(uint32(len(codeBody)))
	out = append(out, codeBody...)

	u2(0) // class attributes_count

	return out
}

func TestParseClassMinimal(t *testing.T) {
	raw := buildMinimalClass(t, "com/example/Example")
	class, err := ParseClass(raw)
	require.NoError(t, err)

	assert.Equal(t, "com/example/Example", class.ThisClass)
	assert.Equal(t, "java/lang/Object", class.SuperClass)
	assert.Empty(t, class.Interfaces)
	require.Len(t, class.Methods, 1)

	m := class.Methods[0]
	assert.Equal(t, "compute", m.Name)
	assert.Equal(t, "()I", m.Descriptor)
	require.NotNil(t, m.Code)
	assert.Equal(t, []int{0, 1, 2, 3}, m.Code.Bytecode.Order)

	assert.Same(t, m, class.Method("compute", "()I"))
	assert.Nil(t, class.Method("compute", "()J"))
}

// Parsing the same byte sequence twice must produce structurally identical
// Class values, attribute order included.
func TestParseClassDeterministic(t *testing.T) {
	raw := buildMinimalClass(t, "com/example/Example")

	a, err := ParseClass(raw)
	require.NoError(t, err)
	b, err := ParseClass(raw)
	require.NoError(t, err)

	diff := cmp.Diff(a, b, cmpopts.IgnoreUnexported(Class{}, ConstantPool{}, Method{}))
	assert.Empty(t, diff, "ParseClass must be deterministic on identical input")
}

func TestParseClassBadMagic(t *testing.T) {
	_, err := ParseClass([]byte{0x00, 0x00, 0x00, 0x00})
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BadMagic, lerr.Kind)
}

func TestParseClassUnsupportedVersionStillReturnsClass(t *testing.T) {
	raw := buildMinimalClass(t, "com/example/Future")
	// major_version sits right after the magic+minor fields, at byte offset 6.
	raw[6] = 0xFF
	raw[7] = 0xFF

	class, err := ParseClass(raw)
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, UnsupportedVersion, lerr.Kind)
	require.NotNil(t, class)
	assert.Equal(t, "com/example/Future", class.ThisClass)
}
